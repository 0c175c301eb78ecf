// Package postgres registers the PostgreSQL dialector with the gorm adapter.
package postgres

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	dbconfig "github.com/tigerroll/ontime/pkg/batch/adapter/database/config"
	gormadapter "github.com/tigerroll/ontime/pkg/batch/adapter/database/gorm"
)

// DBType is the configuration type handled by this package.
const DBType = "postgres"

func init() {
	gormadapter.RegisterDialector(DBType, func(cfg dbconfig.DatabaseConfig) (gorm.Dialector, error) {
		return postgres.Open(ConnectionString(cfg)), nil
	})
}

// ConnectionString generates the key/value DSN expected by gorm.io/driver/postgres.
// An empty sslmode defaults to "disable".
func ConnectionString(c dbconfig.DatabaseConfig) string {
	sslmode := c.Sslmode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, sslmode)
}
