// Package gcs provides a Google Cloud Storage implementation of the storage port.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcsstorage "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/tigerroll/ontime/pkg/batch/adapter/storage"
	storageConfig "github.com/tigerroll/ontime/pkg/batch/adapter/storage/config"
	"github.com/tigerroll/ontime/pkg/batch/support/util/logger"
)

// ProviderType defines the type identifier for this storage provider.
const ProviderType = "gcs"

func init() {
	storage.RegisterAdapterFactory(ProviderType, func(ctx context.Context, cfg storageConfig.StorageConfig, name string) (storage.StorageConnection, error) {
		return NewGCSAdapter(ctx, cfg, name)
	})
}

// gcsAdapter implements storage.StorageConnection on top of a GCS client.
type gcsAdapter struct {
	client *gcsstorage.Client
	cfg    storageConfig.StorageConfig
	name   string
}

var _ storage.StorageConnection = (*gcsAdapter)(nil)

// NewGCSAdapter creates a GCS client. Without CredentialsFile the application default credentials are used.
func NewGCSAdapter(ctx context.Context, cfg storageConfig.StorageConfig, name string) (storage.StorageConnection, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := gcsstorage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs storage adapter '%s': failed to create client: %w", name, err)
	}
	return newGCSAdapterWithClient(client, cfg, name), nil
}

func newGCSAdapterWithClient(client *gcsstorage.Client, cfg storageConfig.StorageConfig, name string) *gcsAdapter {
	return &gcsAdapter{client: client, cfg: cfg, name: name}
}

func (a *gcsAdapter) bucket(bucket string) (*gcsstorage.BucketHandle, error) {
	if bucket == "" {
		bucket = a.cfg.BucketName
	}
	if bucket == "" {
		return nil, fmt.Errorf("gcs storage adapter '%s': no bucket given and bucket_name is not configured", a.name)
	}
	return a.client.Bucket(bucket), nil
}

// Upload streams data into the object.
func (a *gcsAdapter) Upload(ctx context.Context, bucket, objectName string, data io.Reader, contentType string) error {
	bh, err := a.bucket(bucket)
	if err != nil {
		return err
	}
	w := bh.Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, data); err != nil {
		w.Close()
		return fmt.Errorf("failed to write object '%s': %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize object '%s': %w", objectName, err)
	}
	logger.Debugf("Uploaded object '%s' (gcs adapter '%s').", objectName, a.name)
	return nil
}

// Download opens a reader on the object.
func (a *gcsAdapter) Download(ctx context.Context, bucket, objectName string) (io.ReadCloser, error) {
	bh, err := a.bucket(bucket)
	if err != nil {
		return nil, err
	}
	r, err := bh.Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open object '%s': %w", objectName, err)
	}
	return r, nil
}

// ListObjects calls fn for every object name under prefix.
func (a *gcsAdapter) ListObjects(ctx context.Context, bucket, prefix string, fn func(objectName string) error) error {
	bh, err := a.bucket(bucket)
	if err != nil {
		return err
	}
	it := bh.Objects(ctx, &gcsstorage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to list objects with prefix '%s': %w", prefix, err)
		}
		if err := fn(attrs.Name); err != nil {
			return err
		}
	}
}

// DeleteObject deletes the object, ignoring objects that do not exist.
func (a *gcsAdapter) DeleteObject(ctx context.Context, bucket, objectName string) error {
	bh, err := a.bucket(bucket)
	if err != nil {
		return err
	}
	if err := bh.Object(objectName).Delete(ctx); err != nil {
		if errors.Is(err, gcsstorage.ErrObjectNotExist) {
			logger.Warnf("Attempted to delete non-existent object '%s' (gcs adapter '%s').", objectName, a.name)
			return nil
		}
		return fmt.Errorf("failed to delete object '%s': %w", objectName, err)
	}
	return nil
}

// Close closes the underlying client.
func (a *gcsAdapter) Close() error {
	return a.client.Close()
}

// Type returns "gcs".
func (a *gcsAdapter) Type() string {
	return ProviderType
}

// Name returns the name of this connection.
func (a *gcsAdapter) Name() string {
	return a.name
}
