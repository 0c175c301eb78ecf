package app

import (
	"context"

	"go.uber.org/fx"

	gormadapter "github.com/tigerroll/ontime/pkg/batch/adapter/database/gorm"
	"github.com/tigerroll/ontime/pkg/batch/adapter/storage"
	"github.com/tigerroll/ontime/pkg/batch/core/config"
	"github.com/tigerroll/ontime/pkg/batch/core/domain/repository"
	sqlrepo "github.com/tigerroll/ontime/pkg/batch/infrastructure/repository/sql"
)

// newStorageProvider provides the storage provider and closes its connections on stop.
func newStorageProvider(lc fx.Lifecycle, cfg *config.Config) *storage.StorageProvider {
	p := storage.NewStorageProvider(cfg)
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { return p.CloseAll() }})
	return p
}

// newDBProvider provides the database provider and closes its connections on stop.
func newDBProvider(lc fx.Lifecycle, cfg *config.Config) *gormadapter.DBProvider {
	p := gormadapter.NewDBProvider(cfg)
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { return p.CloseAll() }})
	return p
}

// newJobRepository opens the run-history database and migrates its schema.
func newJobRepository(p *gormadapter.DBProvider, cfg *config.Config) (repository.JobRepository, error) {
	db, err := p.GetConnection(cfg.Ontime.Infrastructure.JobRepositoryDBRef)
	if err != nil {
		return nil, err
	}
	repo := sqlrepo.NewGormJobRepository(db)
	if err := repo.Migrate(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

// Module provides storage, the run-history repository and their lifecycles.
var Module = fx.Options(
	fx.Provide(newStorageProvider),
	fx.Provide(func(p *storage.StorageProvider) storage.StorageConnectionResolver { return p }),
	fx.Provide(newDBProvider),
	fx.Provide(newJobRepository),
)
