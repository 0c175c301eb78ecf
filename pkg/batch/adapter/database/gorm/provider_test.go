package gorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbconfig "github.com/tigerroll/ontime/pkg/batch/adapter/database/config"
	gormadapter "github.com/tigerroll/ontime/pkg/batch/adapter/database/gorm"
	"github.com/tigerroll/ontime/pkg/batch/adapter/database/gorm/mysql"
	"github.com/tigerroll/ontime/pkg/batch/adapter/database/gorm/postgres"
	_ "github.com/tigerroll/ontime/pkg/batch/adapter/database/gorm/sqlite"
	"github.com/tigerroll/ontime/pkg/batch/core/config"
)

func TestDBProvider_OpensSQLiteFromConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Ontime.DatabaseConfigs["metadata"] = map[string]interface{}{
		"type":     "sqlite",
		"database": ":memory:",
		"pool": map[string]interface{}{
			"max_open_conns": 1,
		},
	}

	provider := gormadapter.NewDBProvider(cfg)
	db, err := provider.GetConnection("metadata")
	require.NoError(t, err)

	again, err := provider.GetConnection("metadata")
	require.NoError(t, err)
	assert.Same(t, db, again)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	assert.NoError(t, provider.CloseAll())
}

func TestDBProvider_UnknownConnection(t *testing.T) {
	provider := gormadapter.NewDBProvider(config.NewConfig())
	_, err := provider.GetConnection("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database configuration 'missing' not found")
}

func TestGetDialectorFactory_Unregistered(t *testing.T) {
	_, err := gormadapter.GetDialectorFactory("oracle")
	assert.Error(t, err)

	_, err = gormadapter.Open(dbconfig.DatabaseConfig{Type: "sqlite"})
	assert.Error(t, err, "an empty SQLite path is rejected")
}

func TestConnectionStrings(t *testing.T) {
	c := dbconfig.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "ontime"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=ontime sslmode=disable", postgres.ConnectionString(c))

	c.Port = 3306
	assert.Equal(t, "u:p@tcp(db:3306)/ontime?charset=utf8mb4&parseTime=True&loc=Local", mysql.ConnectionString(c))
}
