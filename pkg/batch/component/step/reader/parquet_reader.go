// Package reader provides ItemReader implementations that load step input through storage.
package reader

import (
	"context"
	"fmt"
	"io"

	"github.com/xitongsys/parquet-go-source/buffer"
	parquetReader "github.com/xitongsys/parquet-go/reader"

	"github.com/tigerroll/ontime/pkg/batch/adapter/storage"
	"github.com/tigerroll/ontime/pkg/batch/core/application/port"
	"github.com/tigerroll/ontime/pkg/batch/support/util/exception"
	"github.com/tigerroll/ontime/pkg/batch/support/util/logger"
)

const (
	moduleName  = "reader"
	parallelism = 4
)

// ParquetReaderConfig holds the configuration for ParquetReader.
type ParquetReaderConfig struct {
	// StorageRef is the name of the storage connection to use.
	StorageRef string
	// Bucket is the bucket within the storage connection. Empty uses the connection default.
	Bucket string
	// ObjectName is the Parquet object to read.
	ObjectName string
}

// ParquetReader implements port.ItemReader over a single Parquet object.
// The whole object is downloaded and decoded on Open.
type ParquetReader[T any] struct {
	name                      string
	config                    ParquetReaderConfig
	storageConnectionResolver storage.StorageConnectionResolver

	rows []T
	pos  int
}

// NewParquetReader creates a new instance of ParquetReader.
func NewParquetReader[T any](
	name string,
	config ParquetReaderConfig,
	storageConnectionResolver storage.StorageConnectionResolver,
) (*ParquetReader[T], error) {
	if config.StorageRef == "" || config.ObjectName == "" {
		return nil, exception.NewBatchError(moduleName, fmt.Sprintf("ParquetReader '%s' requires a storage reference and an object name", name), nil, false, false)
	}
	return &ParquetReader[T]{
		name:                      name,
		config:                    config,
		storageConnectionResolver: storageConnectionResolver,
	}, nil
}

// Open downloads and decodes the object.
func (r *ParquetReader[T]) Open(ctx context.Context) (err error) {
	conn, err := r.storageConnectionResolver.ResolveStorageConnection(ctx, r.config.StorageRef)
	if err != nil {
		return exception.NewBatchError(moduleName, fmt.Sprintf("failed to resolve storage connection '%s' for ParquetReader '%s'", r.config.StorageRef, r.name), err, false, true)
	}

	rc, err := conn.Download(ctx, r.config.Bucket, r.config.ObjectName)
	if err != nil {
		return exception.NewBatchError(moduleName, fmt.Sprintf("failed to download '%s' for ParquetReader '%s'", r.config.ObjectName, r.name), err, false, true)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return exception.NewBatchError(moduleName, fmt.Sprintf("failed to read '%s' for ParquetReader '%s'", r.config.ObjectName, r.name), err, false, true)
	}

	pf, err := buffer.NewBufferFile(data)
	if err != nil {
		return exception.NewBatchError(moduleName, fmt.Sprintf("failed to buffer '%s' for ParquetReader '%s'", r.config.ObjectName, r.name), err, false, false)
	}

	// The decoder panics on corrupt input; recover and report it as an error.
	defer func() {
		if rec := recover(); rec != nil {
			err = exception.NewBatchError(moduleName, fmt.Sprintf("parquet reader panicked on '%s' in ParquetReader '%s': %v", r.config.ObjectName, r.name, rec), nil, false, false)
		}
	}()

	pr, err := parquetReader.NewParquetReader(pf, new(T), parallelism)
	if err != nil {
		return exception.NewBatchError(moduleName, fmt.Sprintf("'%s' is not a readable Parquet file", r.config.ObjectName), err, false, false)
	}
	defer pr.ReadStop()

	rows := make([]T, pr.GetNumRows())
	if err := pr.Read(&rows); err != nil {
		return exception.NewBatchError(moduleName, fmt.Sprintf("failed to decode rows of '%s'", r.config.ObjectName), err, false, false)
	}
	r.rows = rows
	r.pos = 0

	logger.Infof("ParquetReader '%s': read %d rows from %s", r.name, len(rows), r.config.ObjectName)
	return nil
}

// Read returns the next row or port.ErrNoMoreItems.
func (r *ParquetReader[T]) Read(ctx context.Context) (T, error) {
	var zero T
	if r.pos >= len(r.rows) {
		return zero, port.ErrNoMoreItems
	}
	item := r.rows[r.pos]
	r.pos++
	return item, nil
}

// Close releases the decoded rows.
func (r *ParquetReader[T]) Close(ctx context.Context) error {
	r.rows = nil
	r.pos = 0
	return nil
}

// Verify that [ParquetReader] satisfies the [port.ItemReader] interface at compile time.
var _ port.ItemReader[any] = (*ParquetReader[any])(nil)
