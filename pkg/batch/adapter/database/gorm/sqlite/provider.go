// Package sqlite registers the SQLite dialector with the gorm adapter.
package sqlite

import (
	"errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	dbconfig "github.com/tigerroll/ontime/pkg/batch/adapter/database/config"
	gormadapter "github.com/tigerroll/ontime/pkg/batch/adapter/database/gorm"
)

// DBType is the configuration type handled by this package.
const DBType = "sqlite"

func init() {
	gormadapter.RegisterDialector(DBType, func(cfg dbconfig.DatabaseConfig) (gorm.Dialector, error) {
		if cfg.Database == "" {
			return nil, errors.New("SQLite database path cannot be empty")
		}
		return sqlite.Open(ConnectionString(cfg)), nil
	})
}

// ConnectionString returns the SQLite DSN, which is the database file path (or ":memory:").
func ConnectionString(c dbconfig.DatabaseConfig) string {
	return c.Database
}
