// Package writer provides ItemWriter implementations that publish step output through storage.
package writer

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/tigerroll/ontime/pkg/batch/adapter/storage"
	"github.com/tigerroll/ontime/pkg/batch/core/application/port"
	"github.com/tigerroll/ontime/pkg/batch/support/util/exception"
	"github.com/tigerroll/ontime/pkg/batch/support/util/logger"
)

const (
	moduleName = "writer"
	// parallelism is the number of goroutines parquet-go uses to marshal rows.
	parallelism = 4
)

// ParquetWriterConfig holds the configuration for ParquetWriter.
type ParquetWriterConfig struct {
	// StorageRef is the name of the storage connection to use (e.g., "local", "gcs").
	StorageRef string
	// Bucket is the bucket within the storage connection. Empty uses the connection default.
	Bucket string
	// ObjectName is the object the Parquet file is uploaded to (e.g., "normalized/ontime.parquet").
	ObjectName string
	// CompressionType is the compression type for Parquet files (e.g., "SNAPPY", "GZIP", "NONE").
	CompressionType string
}

// ParquetWriter implements the port.ItemWriter interface for writing structured data to one Parquet file.
// Items are buffered in memory; the file is encoded and uploaded on Close, so a failed run never
// leaves a partial object behind.
type ParquetWriter[T any] struct {
	name                      string
	config                    ParquetWriterConfig
	storageConnectionResolver storage.StorageConnectionResolver
	// itemPrototype is a pointer to a zero-value instance of the item type, used for Parquet schema reflection.
	itemPrototype *T

	storageConn   storage.StorageConnection
	bufferedItems []T
}

// NewParquetWriter creates a new instance of ParquetWriter.
func NewParquetWriter[T any](
	name string,
	config ParquetWriterConfig,
	storageConnectionResolver storage.StorageConnectionResolver,
) (*ParquetWriter[T], error) {
	if config.StorageRef == "" {
		return nil, exception.NewBatchError(moduleName, fmt.Sprintf("ParquetWriter '%s' requires a storage reference", name), nil, false, false)
	}
	if config.ObjectName == "" {
		return nil, exception.NewBatchError(moduleName, fmt.Sprintf("ParquetWriter '%s' requires an object name", name), nil, false, false)
	}
	if config.CompressionType == "" {
		config.CompressionType = "SNAPPY"
	}
	if _, err := getCompressionCodec(config.CompressionType); err != nil {
		return nil, exception.NewBatchError(moduleName, fmt.Sprintf("invalid compression type '%s' for ParquetWriter '%s'", config.CompressionType, name), err, false, false)
	}

	return &ParquetWriter[T]{
		name:                      name,
		config:                    config,
		storageConnectionResolver: storageConnectionResolver,
		itemPrototype:             new(T),
	}, nil
}

// Open resolves the storage connection and clears the buffer.
func (w *ParquetWriter[T]) Open(ctx context.Context) error {
	conn, err := w.storageConnectionResolver.ResolveStorageConnection(ctx, w.config.StorageRef)
	if err != nil {
		return exception.NewBatchError(
			moduleName,
			fmt.Sprintf("failed to resolve storage connection '%s' for ParquetWriter '%s'", w.config.StorageRef, w.name),
			err,
			false,
			true,
		)
	}
	w.storageConn = conn
	w.bufferedItems = nil

	logger.Debugf("ParquetWriter '%s' opened. Target: %s/%s", w.name, w.config.StorageRef, w.config.ObjectName)
	return nil
}

// Write accumulates items into the internal buffer.
func (w *ParquetWriter[T]) Write(ctx context.Context, items []T) error {
	w.bufferedItems = append(w.bufferedItems, items...)
	logger.Debugf("ParquetWriter '%s' buffered %d items. Total buffered: %d.", w.name, len(items), len(w.bufferedItems))
	return nil
}

// Close encodes the buffered items into a Parquet file and uploads it.
// An empty buffer still produces a valid file with zero rows.
func (w *ParquetWriter[T]) Close(ctx context.Context) error {
	if w.storageConn == nil {
		return exception.NewBatchError(moduleName, fmt.Sprintf("ParquetWriter '%s' closed before Open", w.name), nil, false, false)
	}
	items := w.bufferedItems
	w.bufferedItems = nil

	buf, err := w.encode(items)
	if err != nil {
		return err
	}

	logger.Debugf("ParquetWriter '%s': Uploading %d bytes to %s/%s", w.name, buf.Len(), w.config.StorageRef, w.config.ObjectName)
	if err := w.storageConn.Upload(ctx, w.config.Bucket, w.config.ObjectName, buf, "application/octet-stream"); err != nil {
		return exception.NewBatchError(
			moduleName,
			fmt.Sprintf("failed to upload Parquet file '%s' in ParquetWriter '%s'", w.config.ObjectName, w.name),
			err,
			false,
			true,
		)
	}
	logger.Infof("ParquetWriter '%s': wrote %d rows to %s", w.name, len(items), w.config.ObjectName)
	return nil
}

func (w *ParquetWriter[T]) encode(items []T) (buf *bytes.Buffer, multiErr error) {
	compressionCodec, _ := getCompressionCodec(w.config.CompressionType)

	buf = new(bytes.Buffer)
	pw, err := writer.NewParquetWriterFromWriter(buf, w.itemPrototype, parallelism)
	if err != nil {
		return nil, exception.NewBatchError(moduleName, fmt.Sprintf("failed to create Parquet writer in ParquetWriter '%s'", w.name), err, false, false)
	}
	pw.CompressionType = compressionCodec

	for i := range items {
		if err := pw.Write(items[i]); err != nil {
			multiErr = multierror.Append(multiErr, exception.NewBatchError(
				moduleName,
				fmt.Sprintf("failed to write row %d to Parquet in ParquetWriter '%s'", i, w.name),
				err,
				false,
				false,
			))
			break
		}
	}

	// WriteStop panics on some schema mismatches; recover and report them as errors.
	func() {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("parquet writer panicked during WriteStop in ParquetWriter '%s': %v", w.name, r)
				multiErr = multierror.Append(multiErr, exception.NewBatchError(moduleName, err.Error(), err, false, false))
				logger.Errorf("ParquetWriter '%s': Recovered from panic during WriteStop: %v", w.name, r)
			}
		}()
		if err := pw.WriteStop(); err != nil {
			multiErr = multierror.Append(multiErr, exception.NewBatchError(
				moduleName,
				fmt.Sprintf("failed to stop Parquet writer in ParquetWriter '%s'", w.name),
				err,
				false,
				false,
			))
		}
	}()

	if multiErr != nil {
		return nil, multiErr
	}
	return buf, nil
}

// getCompressionCodec returns the Parquet compression codec from a string.
func getCompressionCodec(compressionType string) (parquet.CompressionCodec, error) {
	switch strings.ToUpper(compressionType) {
	case "SNAPPY":
		return parquet.CompressionCodec_SNAPPY, nil
	case "GZIP":
		return parquet.CompressionCodec_GZIP, nil
	case "NONE", "":
		return parquet.CompressionCodec_UNCOMPRESSED, nil
	default:
		return 0, fmt.Errorf("unsupported compression type: %s", compressionType)
	}
}

// Verify that [ParquetWriter] satisfies the [port.ItemWriter] interface at compile time.
var _ port.ItemWriter[any] = (*ParquetWriter[any])(nil)
