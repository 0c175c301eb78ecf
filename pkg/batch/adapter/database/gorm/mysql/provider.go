// Package mysql registers the MySQL dialector with the gorm adapter.
package mysql

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	dbconfig "github.com/tigerroll/ontime/pkg/batch/adapter/database/config"
	gormadapter "github.com/tigerroll/ontime/pkg/batch/adapter/database/gorm"
)

// DBType is the configuration type handled by this package.
const DBType = "mysql"

func init() {
	gormadapter.RegisterDialector(DBType, func(cfg dbconfig.DatabaseConfig) (gorm.Dialector, error) {
		return mysql.Open(ConnectionString(cfg)), nil
	})
}

// ConnectionString generates the go-sql-driver DSN with parseTime enabled so
// DATETIME columns scan into time.Time.
func ConnectionString(c dbconfig.DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Database)
}
