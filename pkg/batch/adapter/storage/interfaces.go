// Package storage defines the object storage port used to read the raw CSV and to
// publish Parquet outputs, plus a provider resolving named connections from configuration.
package storage

import (
	"context"
	"io"
)

// StorageExecutor defines generic storage operations.
type StorageExecutor interface {
	// Upload uploads data to the specified bucket and object name.
	Upload(ctx context.Context, bucket, objectName string, data io.Reader, contentType string) error
	// Download opens the object for reading. The caller must close the returned reader.
	Download(ctx context.Context, bucket, objectName string) (io.ReadCloser, error)
	// ListObjects calls fn for each object under prefix.
	ListObjects(ctx context.Context, bucket, prefix string, fn func(objectName string) error) error
	// DeleteObject deletes the object. Deleting a missing object is not an error.
	DeleteObject(ctx context.Context, bucket, objectName string) error
}

// StorageConnection is a named, closable storage backend.
type StorageConnection interface {
	StorageExecutor
	// Close releases resources held by the connection.
	Close() error
	// Type returns the backend type (e.g., "local", "gcs").
	Type() string
	// Name returns the configured connection name.
	Name() string
}

// StorageConnectionResolver resolves a named StorageConnection.
type StorageConnectionResolver interface {
	ResolveStorageConnection(ctx context.Context, name string) (StorageConnection, error)
}
