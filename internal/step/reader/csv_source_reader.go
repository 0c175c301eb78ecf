// Package reader loads the raw on-time performance table for the cleaning step.
package reader

import (
	"context"
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"github.com/tigerroll/ontime/internal/cleaning"
	"github.com/tigerroll/ontime/pkg/batch/adapter/storage"
	"github.com/tigerroll/ontime/pkg/batch/support/util/exception"
	"github.com/tigerroll/ontime/pkg/batch/support/util/logger"
)

const moduleName = "reader"

// CSVSourceReaderConfig holds the configuration for CSVSourceReader.
type CSVSourceReaderConfig struct {
	// StorageRef is the name of the storage connection holding the CSV.
	StorageRef string
	// Bucket is the bucket within the storage connection. Empty uses the connection default.
	Bucket string
	// ObjectName is the raw CSV object (e.g., "raw/ontime.csv").
	ObjectName string
}

// CSVSourceReader reads the raw CSV into a DataFrame whose columns are all text,
// so carrier and state codes are never inferred numeric.
type CSVSourceReader struct {
	config                    CSVSourceReaderConfig
	storageConnectionResolver storage.StorageConnectionResolver
}

// NewCSVSourceReader creates a new instance of CSVSourceReader.
func NewCSVSourceReader(config CSVSourceReaderConfig, storageConnectionResolver storage.StorageConnectionResolver) (*CSVSourceReader, error) {
	if config.StorageRef == "" || config.ObjectName == "" {
		return nil, exception.NewBatchError(moduleName, "CSVSourceReader requires a storage reference and an object name", nil, false, false)
	}
	return &CSVSourceReader{
		config:                    config,
		storageConnectionResolver: storageConnectionResolver,
	}, nil
}

// Read downloads the object and parses it. A file without data rows is an error.
func (r *CSVSourceReader) Read(ctx context.Context) (dataframe.DataFrame, error) {
	conn, err := r.storageConnectionResolver.ResolveStorageConnection(ctx, r.config.StorageRef)
	if err != nil {
		return dataframe.DataFrame{}, exception.NewBatchError(moduleName, fmt.Sprintf("failed to resolve storage connection '%s'", r.config.StorageRef), err, false, false)
	}

	rc, err := conn.Download(ctx, r.config.Bucket, r.config.ObjectName)
	if err != nil {
		return dataframe.DataFrame{}, exception.NewBatchError(moduleName, fmt.Sprintf("failed to download '%s'", r.config.ObjectName), err, false, true)
	}
	defer func() {
		if err := rc.Close(); err != nil {
			logger.Warnf("Failed to close '%s': %v", r.config.ObjectName, err)
		}
	}()

	df := dataframe.ReadCSV(rc, cleaning.ReadOptions()...)
	if df.Err != nil {
		return dataframe.DataFrame{}, exception.NewBatchError(moduleName, fmt.Sprintf("failed to parse CSV '%s'", r.config.ObjectName), df.Err, false, false)
	}

	rows, cols := df.Dims()
	logger.Infof("Read %d rows x %d columns from '%s' (storage '%s').", rows, cols, r.config.ObjectName, r.config.StorageRef)
	return df, nil
}
