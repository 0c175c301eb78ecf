package tasklet

import (
	"context"
	"errors"

	"github.com/tigerroll/ontime/internal/domain/entity"
	"github.com/tigerroll/ontime/internal/normalization"
	"github.com/tigerroll/ontime/pkg/batch/adapter/storage"
	batchreader "github.com/tigerroll/ontime/pkg/batch/component/step/reader"
	"github.com/tigerroll/ontime/pkg/batch/component/step/writer"
	"github.com/tigerroll/ontime/pkg/batch/core/application/port"
	"github.com/tigerroll/ontime/pkg/batch/core/config"
	"github.com/tigerroll/ontime/pkg/batch/core/domain/model"
	"github.com/tigerroll/ontime/pkg/batch/core/metrics"
	"github.com/tigerroll/ontime/pkg/batch/support/util/logger"
)

// Verify that NormalizeTasklet implements the port.Tasklet interface.
var _ port.Tasklet = (*NormalizeTasklet)(nil)

// NormalizeStepName is the name of the normalization step.
const NormalizeStepName = "normalizeStep"

// NormalizeTasklet reads the cleaned Parquet intermediate, normalizes it and writes the final Parquet file.
type NormalizeTasklet struct {
	config                    *config.BatchConfig
	storageConnectionResolver storage.StorageConnectionResolver
	metricRecorder            metrics.MetricRecorder
}

// NewNormalizeTasklet creates a new instance of NormalizeTasklet.
func NewNormalizeTasklet(
	cfg *config.BatchConfig,
	storageConnectionResolver storage.StorageConnectionResolver,
	metricRecorder metrics.MetricRecorder,
) *NormalizeTasklet {
	if metricRecorder == nil {
		metricRecorder = metrics.NewNoOpMetricRecorder()
	}
	return &NormalizeTasklet{
		config:                    cfg,
		storageConnectionResolver: storageConnectionResolver,
		metricRecorder:            metricRecorder,
	}
}

// Execute performs the normalization step.
func (t *NormalizeTasklet) Execute(ctx context.Context, stepExecution *model.StepExecution) (model.ExitStatus, error) {
	logger.Infof("NormalizeTasklet is executing. Input: %s/%s", t.config.StorageRef, t.config.CleanedObject)

	flights, err := t.readCleaned(ctx)
	if err != nil {
		return model.ExitStatusFailed, err
	}
	stepExecution.ReadCount = len(flights)
	t.metricRecorder.RecordItemRead(ctx, stepExecution.StepName, len(flights))

	normalizer := normalization.NewNormalizer(t.metricRecorder)
	out, err := normalizer.Normalize(ctx, flights)
	if err != nil {
		return model.ExitStatusFailed, err
	}

	report := normalizer.Report()
	stepExecution.FilterCount = report.Dedup.Dropped()
	recordDedup(ctx, t.metricRecorder, stepExecution.StepName, report.Dedup)
	midnight := 0
	for column, n := range report.MidnightCorrected {
		stepExecution.ExecutionContext.Put("midnight."+column, n)
		midnight += n
	}
	stepExecution.ExecutionContext.Put("rows.deduplicated", report.Dedup.Dropped())
	stepExecution.ExecutionContext.Put("rows.cancelled_nulled", report.NulledCancelled)
	stepExecution.ExecutionContext.Put("flags.corrected", report.FlagsCorrected)
	logger.Debugf("NormalizeTasklet: %d midnight values corrected, %d cancelled rows nulled, %d delay flags corrected.",
		midnight, report.NulledCancelled, report.FlagsCorrected)

	rows := make([]entity.NormalizedFlightRow, len(out))
	for i, f := range out {
		rows[i] = entity.ToNormalizedRow(f)
	}
	if err := exportParquet(ctx, "normalizedFlightWriter", writer.ParquetWriterConfig{
		StorageRef:      t.config.StorageRef,
		ObjectName:      t.config.NormalizedObject,
		CompressionType: t.config.Compression,
	}, t.storageConnectionResolver, rows); err != nil {
		return model.ExitStatusFailed, err
	}

	stepExecution.WriteCount = len(rows)
	t.metricRecorder.RecordItemWrite(ctx, stepExecution.StepName, len(rows))
	logger.Infof("NormalizeTasklet wrote %d normalized flights to '%s'.", len(rows), t.config.NormalizedObject)
	return model.ExitStatusCompleted, nil
}

// readCleaned loads the cleaned intermediate through the ParquetReader.
func (t *NormalizeTasklet) readCleaned(ctx context.Context) (flights []*entity.Flight, err error) {
	r, err := batchreader.NewParquetReader[entity.CleanFlightRow]("cleanedFlightReader", batchreader.ParquetReaderConfig{
		StorageRef: t.config.StorageRef,
		ObjectName: t.config.CleanedObject,
	}, t.storageConnectionResolver)
	if err != nil {
		return nil, err
	}
	if err := r.Open(ctx); err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := r.Close(ctx); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for {
		row, readErr := r.Read(ctx)
		if errors.Is(readErr, port.ErrNoMoreItems) {
			return flights, nil
		}
		if readErr != nil {
			return nil, readErr
		}
		flights = append(flights, entity.FromCleanRow(row))
	}
}
