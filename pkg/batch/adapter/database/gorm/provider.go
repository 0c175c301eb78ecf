// Package gorm opens named gorm connections from the "database" configuration block.
// Dialects register themselves from their own packages (sqlite, postgres, mysql) in init.
package gorm

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dbconfig "github.com/tigerroll/ontime/pkg/batch/adapter/database/config"
	"github.com/tigerroll/ontime/pkg/batch/core/config"
	"github.com/tigerroll/ontime/pkg/batch/support/util/exception"
	"github.com/tigerroll/ontime/pkg/batch/support/util/logger"
)

const moduleName = "database"

// DialectorFactory generates a gorm.Dialector from a dbconfig.DatabaseConfig.
type DialectorFactory func(cfg dbconfig.DatabaseConfig) (gorm.Dialector, error)

var (
	dialectorRegistry = make(map[string]DialectorFactory)
	dialectorMutex    sync.RWMutex
)

// RegisterDialector registers a DialectorFactory for the given database type.
func RegisterDialector(dbType string, factory DialectorFactory) {
	dialectorMutex.Lock()
	defer dialectorMutex.Unlock()
	if _, exists := dialectorRegistry[dbType]; exists {
		logger.Warnf("Dialector for type '%s' already registered. Overwriting.", dbType)
	}
	dialectorRegistry[dbType] = factory
}

// GetDialectorFactory retrieves the DialectorFactory registered for dbType.
func GetDialectorFactory(dbType string) (DialectorFactory, error) {
	dialectorMutex.RLock()
	defer dialectorMutex.RUnlock()
	factory, ok := dialectorRegistry[dbType]
	if !ok {
		return nil, fmt.Errorf("no dialector registered for database type: %s", dbType)
	}
	return factory, nil
}

// Open builds the dialector for cfg, opens the connection and applies pool settings.
func Open(cfg dbconfig.DatabaseConfig) (*gorm.DB, error) {
	factory, err := GetDialectorFactory(cfg.Type)
	if err != nil {
		return nil, err
	}
	dialector, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build dialector for '%s': %w", cfg.Type, err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Pool.MaxOpenConns)
	}
	if cfg.Pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Pool.MaxIdleConns)
	}
	if cfg.Pool.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.Pool.ConnMaxLifetimeMinutes) * time.Minute)
	}
	return db, nil
}

// DBProvider hands out one *gorm.DB per configured connection name.
type DBProvider struct {
	cfg         *config.Config
	connections map[string]*gorm.DB
	mu          sync.Mutex
}

// NewDBProvider creates a new DBProvider over the "database" configuration block.
func NewDBProvider(cfg *config.Config) *DBProvider {
	return &DBProvider{
		cfg:         cfg,
		connections: make(map[string]*gorm.DB),
	}
}

// GetConnection returns the connection named name, opening it on first use.
func (p *DBProvider) GetConnection(name string) (*gorm.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if db, ok := p.connections[name]; ok {
		return db, nil
	}

	rawConfig, ok := p.cfg.Ontime.DatabaseConfigs[name]
	if !ok {
		return nil, exception.NewBatchError(moduleName, fmt.Sprintf("database configuration '%s' not found", name), nil, false, false)
	}
	var dbConfig dbconfig.DatabaseConfig
	if err := mapstructure.Decode(rawConfig, &dbConfig); err != nil {
		return nil, exception.NewBatchError(moduleName, fmt.Sprintf("failed to decode database config for '%s'", name), err, false, false)
	}

	db, err := Open(dbConfig)
	if err != nil {
		return nil, exception.NewBatchError(moduleName, fmt.Sprintf("failed to open database '%s' (%s)", name, dbConfig.Type), err, false, true)
	}
	p.connections[name] = db
	logger.Infof("Established new DB connection: %s (%s)", name, dbConfig.Type)
	return db, nil
}

// CloseAll closes every opened connection and aggregates the failures.
func (p *DBProvider) CloseAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var result error
	for name, db := range p.connections {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to close DB connection '%s': %w", name, err))
			continue
		}
		logger.Debugf("Closed DB connection: %s", name)
	}
	p.connections = make(map[string]*gorm.DB)
	return result
}
