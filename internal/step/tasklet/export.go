package tasklet

import (
	"context"

	"github.com/tigerroll/ontime/pkg/batch/adapter/storage"
	"github.com/tigerroll/ontime/pkg/batch/component/step/writer"
)

// exportParquet writes rows as one Parquet object through the ParquetWriter.
// The object is published only when every call succeeds.
func exportParquet[T any](
	ctx context.Context,
	name string,
	config writer.ParquetWriterConfig,
	storageConnectionResolver storage.StorageConnectionResolver,
	rows []T,
) error {
	w, err := writer.NewParquetWriter[T](name, config, storageConnectionResolver)
	if err != nil {
		return err
	}
	if err := w.Open(ctx); err != nil {
		return err
	}
	if err := w.Write(ctx, rows); err != nil {
		return err
	}
	return w.Close(ctx)
}
