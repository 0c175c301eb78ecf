// Package tasklet holds the two steps of the on-time job: cleaning the raw CSV and
// normalizing the cleaned flights.
package tasklet

import (
	"context"

	"github.com/tigerroll/ontime/internal/cleaning"
	"github.com/tigerroll/ontime/internal/domain/entity"
	"github.com/tigerroll/ontime/internal/step/reader"
	"github.com/tigerroll/ontime/pkg/batch/adapter/storage"
	"github.com/tigerroll/ontime/pkg/batch/component/step/writer"
	"github.com/tigerroll/ontime/pkg/batch/core/application/port"
	"github.com/tigerroll/ontime/pkg/batch/core/config"
	"github.com/tigerroll/ontime/pkg/batch/core/domain/model"
	"github.com/tigerroll/ontime/pkg/batch/core/metrics"
	"github.com/tigerroll/ontime/pkg/batch/support/util/logger"
)

// Verify that CleanTasklet implements the port.Tasklet interface.
var _ port.Tasklet = (*CleanTasklet)(nil)

// CleanStepName is the name of the cleaning step.
const CleanStepName = "cleanStep"

// CleanTasklet reads the raw CSV, cleans it and writes the cleaned Parquet intermediate.
// Nothing is written when validation fails.
type CleanTasklet struct {
	config                    *config.BatchConfig
	storageConnectionResolver storage.StorageConnectionResolver
	metricRecorder            metrics.MetricRecorder
}

// NewCleanTasklet creates a new instance of CleanTasklet.
func NewCleanTasklet(
	cfg *config.BatchConfig,
	storageConnectionResolver storage.StorageConnectionResolver,
	metricRecorder metrics.MetricRecorder,
) *CleanTasklet {
	if metricRecorder == nil {
		metricRecorder = metrics.NewNoOpMetricRecorder()
	}
	return &CleanTasklet{
		config:                    cfg,
		storageConnectionResolver: storageConnectionResolver,
		metricRecorder:            metricRecorder,
	}
}

// Execute performs the cleaning step.
func (t *CleanTasklet) Execute(ctx context.Context, stepExecution *model.StepExecution) (model.ExitStatus, error) {
	logger.Infof("CleanTasklet is executing. Input: %s/%s", t.config.StorageRef, t.config.InputObject)

	csvReader, err := reader.NewCSVSourceReader(reader.CSVSourceReaderConfig{
		StorageRef: t.config.StorageRef,
		ObjectName: t.config.InputObject,
	}, t.storageConnectionResolver)
	if err != nil {
		return model.ExitStatusFailed, err
	}
	df, err := csvReader.Read(ctx)
	if err != nil {
		return model.ExitStatusFailed, err
	}

	cleaner := cleaning.NewCleaner(t.config.FlightDateLayout, t.metricRecorder)
	flights, err := cleaner.Clean(ctx, df)
	report := cleaner.Report()
	recordCleanReport(ctx, t.metricRecorder, stepExecution, report)
	if err != nil {
		return model.ExitStatusFailed, err
	}

	rows := make([]entity.CleanFlightRow, len(flights))
	for i, f := range flights {
		rows[i] = entity.ToCleanRow(f)
	}
	if err := exportParquet(ctx, "cleanedFlightWriter", writer.ParquetWriterConfig{
		StorageRef:      t.config.StorageRef,
		ObjectName:      t.config.CleanedObject,
		CompressionType: t.config.Compression,
	}, t.storageConnectionResolver, rows); err != nil {
		return model.ExitStatusFailed, err
	}

	stepExecution.WriteCount = len(rows)
	t.metricRecorder.RecordItemWrite(ctx, stepExecution.StepName, len(rows))
	logger.Infof("CleanTasklet wrote %d cleaned flights to '%s'.", len(rows), t.config.CleanedObject)
	return model.ExitStatusCompleted, nil
}

// recordCleanReport copies the cleaning statistics into the step execution and the recorder.
func recordCleanReport(ctx context.Context, recorder metrics.MetricRecorder, se *model.StepExecution, report cleaning.Report) {
	se.ReadCount = report.Selected
	se.FilterCount = report.Dedup.Dropped()
	recorder.RecordItemRead(ctx, se.StepName, report.Selected)
	recordDedup(ctx, recorder, se.StepName, report.Dedup)

	se.ExecutionContext.Put("rows.selected", report.Selected)
	se.ExecutionContext.Put("rows.deduplicated", report.Dedup.Dropped())
	se.ExecutionContext.Put("values.unparsed_numbers", report.UnparsedNumbers)
	se.ExecutionContext.Put("values.unparsed_dates", report.UnparsedDates)
	se.ExecutionContext.Put("values.unparsed_flags", report.UnparsedFlags)

	if n := report.UnparsedNumbers + report.UnparsedDates + report.UnparsedFlags; n > 0 {
		logger.Debugf("CleanTasklet coerced %d unparseable values to null (numbers: %d, dates: %d, flags: %d).",
			n, report.UnparsedNumbers, report.UnparsedDates, report.UnparsedFlags)
	}
}

func recordDedup(ctx context.Context, recorder metrics.MetricRecorder, stepName string, stats cleaning.DedupStats) {
	for reason, count := range map[string]int{
		"missing_key":   stats.MissingKey,
		"duplicate_row": stats.DuplicateRow,
		"duplicate_key": stats.DuplicateKey,
	} {
		if count > 0 {
			recorder.RecordItemFilter(ctx, stepName, reason, count)
		}
	}
}
