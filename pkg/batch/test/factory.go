// Package test provides fixtures shared by the batch package tests.
package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	dbconfig "github.com/tigerroll/ontime/pkg/batch/adapter/database/config"
	gormadapter "github.com/tigerroll/ontime/pkg/batch/adapter/database/gorm"
	_ "github.com/tigerroll/ontime/pkg/batch/adapter/database/gorm/sqlite"
	"github.com/tigerroll/ontime/pkg/batch/adapter/storage"
	_ "github.com/tigerroll/ontime/pkg/batch/adapter/storage/local"
	"github.com/tigerroll/ontime/pkg/batch/core/config"
	sqlrepo "github.com/tigerroll/ontime/pkg/batch/infrastructure/repository/sql"
)

// NewSQLiteJobRepository returns a migrated job repository on a private in-memory SQLite database.
// The database is closed when the test ends.
func NewSQLiteJobRepository(t *testing.T) *sqlrepo.GormJobRepository {
	t.Helper()
	db, err := gormadapter.Open(dbconfig.DatabaseConfig{
		Type:     "sqlite",
		Database: ":memory:",
		Pool:     dbconfig.PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	repo := sqlrepo.NewGormJobRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

// NewLocalStorageProvider returns a provider with one local connection named name rooted in a temp directory.
func NewLocalStorageProvider(t *testing.T, name string) (*storage.StorageProvider, *config.Config) {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Ontime.Batch.StorageRef = name
	cfg.Ontime.StorageConfigs[name] = map[string]interface{}{
		"type":     "local",
		"base_dir": t.TempDir(),
	}
	provider := storage.NewStorageProvider(cfg)
	t.Cleanup(func() { provider.CloseAll() })
	return provider, cfg
}
