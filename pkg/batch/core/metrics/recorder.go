// Package metrics defines the observability ports used by jobs and steps.
package metrics

import (
	"context"
	"time"

	"github.com/tigerroll/ontime/pkg/batch/core/domain/model"
)

// MetricRecorder records metrics for job, step and row-level events.
type MetricRecorder interface {
	// RecordJobStart records the start of a JobExecution.
	RecordJobStart(ctx context.Context, execution *model.JobExecution)
	// RecordJobEnd records the end of a JobExecution.
	RecordJobEnd(ctx context.Context, execution *model.JobExecution)
	// RecordStepStart records the start of a StepExecution.
	RecordStepStart(ctx context.Context, execution *model.StepExecution)
	// RecordStepEnd records the end of a StepExecution.
	RecordStepEnd(ctx context.Context, execution *model.StepExecution)

	// RecordItemRead records count rows read by stepName.
	RecordItemRead(ctx context.Context, stepName string, count int)
	// RecordItemWrite records count rows written by stepName.
	RecordItemWrite(ctx context.Context, stepName string, count int)
	// RecordItemFilter records count rows dropped by stepName for reason
	// (e.g., "missing_key", "duplicate_row", "duplicate_key").
	RecordItemFilter(ctx context.Context, stepName string, reason string, count int)

	// RecordDuration records the execution time of a named operation, such as one pipeline stage.
	//
	// tags: Additional labels, e.g. {"stage": "KeyDeduplicator"}.
	RecordDuration(ctx context.Context, name string, duration time.Duration, tags map[string]string)
}
