package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"

	storageConfig "github.com/tigerroll/ontime/pkg/batch/adapter/storage/config"
	"github.com/tigerroll/ontime/pkg/batch/core/config"
	"github.com/tigerroll/ontime/pkg/batch/support/util/exception"
	"github.com/tigerroll/ontime/pkg/batch/support/util/logger"
)

const moduleName = "storage"

// AdapterFactory opens a StorageConnection for a configuration entry.
type AdapterFactory func(ctx context.Context, cfg storageConfig.StorageConfig, name string) (StorageConnection, error)

var (
	factoryRegistry = make(map[string]AdapterFactory)
	factoryMutex    sync.RWMutex
)

// RegisterAdapterFactory registers the factory for a storage type.
func RegisterAdapterFactory(storageType string, factory AdapterFactory) {
	factoryMutex.Lock()
	defer factoryMutex.Unlock()
	if _, exists := factoryRegistry[storageType]; exists {
		logger.Warnf("Storage adapter for type '%s' already registered. Overwriting.", storageType)
	}
	factoryRegistry[storageType] = factory
}

func getAdapterFactory(storageType string) (AdapterFactory, error) {
	factoryMutex.RLock()
	defer factoryMutex.RUnlock()
	factory, ok := factoryRegistry[storageType]
	if !ok {
		return nil, fmt.Errorf("no storage adapter registered for type: %s", storageType)
	}
	return factory, nil
}

// StorageProvider resolves named storage connections from the "storage" configuration block.
type StorageProvider struct {
	cfg         *config.Config
	connections map[string]StorageConnection
	mu          sync.Mutex
}

// NewStorageProvider creates a new StorageProvider.
func NewStorageProvider(cfg *config.Config) *StorageProvider {
	return &StorageProvider{
		cfg:         cfg,
		connections: make(map[string]StorageConnection),
	}
}

// ResolveStorageConnection returns the connection named name, opening it on first use.
func (p *StorageProvider) ResolveStorageConnection(ctx context.Context, name string) (StorageConnection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if conn, ok := p.connections[name]; ok {
		return conn, nil
	}

	raw, ok := p.cfg.Ontime.StorageConfigs[name]
	if !ok {
		return nil, exception.NewBatchError(moduleName, fmt.Sprintf("storage configuration '%s' not found", name), nil, false, false)
	}
	var sc storageConfig.StorageConfig
	if err := mapstructure.Decode(raw, &sc); err != nil {
		return nil, exception.NewBatchError(moduleName, fmt.Sprintf("failed to decode storage config for '%s'", name), err, false, false)
	}
	factory, err := getAdapterFactory(sc.Type)
	if err != nil {
		return nil, exception.NewBatchError(moduleName, fmt.Sprintf("storage '%s' has unsupported type '%s'", name, sc.Type), err, false, false)
	}
	conn, err := factory(ctx, sc, name)
	if err != nil {
		return nil, exception.NewBatchError(moduleName, fmt.Sprintf("failed to open storage '%s'", name), err, false, true)
	}
	p.connections[name] = conn
	logger.Infof("Opened storage connection: %s (%s)", name, sc.Type)
	return conn, nil
}

// CloseAll closes every opened connection and aggregates the failures.
func (p *StorageProvider) CloseAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var result error
	for name, conn := range p.connections {
		if err := conn.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to close storage '%s': %w", name, err))
		}
	}
	p.connections = make(map[string]StorageConnection)
	return result
}

// Verify that StorageProvider satisfies the StorageConnectionResolver interface at compile time.
var _ StorageConnectionResolver = (*StorageProvider)(nil)
