package metrics

import (
	"context"
	"time"

	"github.com/tigerroll/ontime/pkg/batch/core/domain/model"
)

// NoOpMetricRecorder discards every metric.
type NoOpMetricRecorder struct{}

// NewNoOpMetricRecorder creates a new NoOpMetricRecorder.
func NewNoOpMetricRecorder() MetricRecorder { return &NoOpMetricRecorder{} }

func (r *NoOpMetricRecorder) RecordJobStart(ctx context.Context, execution *model.JobExecution)   {}
func (r *NoOpMetricRecorder) RecordJobEnd(ctx context.Context, execution *model.JobExecution)     {}
func (r *NoOpMetricRecorder) RecordStepStart(ctx context.Context, execution *model.StepExecution) {}
func (r *NoOpMetricRecorder) RecordStepEnd(ctx context.Context, execution *model.StepExecution)   {}
func (r *NoOpMetricRecorder) RecordItemRead(ctx context.Context, stepName string, count int)      {}
func (r *NoOpMetricRecorder) RecordItemWrite(ctx context.Context, stepName string, count int)     {}
func (r *NoOpMetricRecorder) RecordItemFilter(ctx context.Context, stepName string, reason string, count int) {
}
func (r *NoOpMetricRecorder) RecordDuration(ctx context.Context, name string, duration time.Duration, tags map[string]string) {
}

// NoOpTracer discards every span.
type NoOpTracer struct{}

// NewNoOpTracer creates a new NoOpTracer.
func NewNoOpTracer() Tracer { return &NoOpTracer{} }

func (t *NoOpTracer) StartJobSpan(ctx context.Context, execution *model.JobExecution) (context.Context, func()) {
	return ctx, func() {}
}
func (t *NoOpTracer) StartStepSpan(ctx context.Context, execution *model.StepExecution) (context.Context, func()) {
	return ctx, func() {}
}
func (t *NoOpTracer) RecordError(ctx context.Context, module string, err error)                      {}
func (t *NoOpTracer) RecordEvent(ctx context.Context, name string, attributes map[string]interface{}) {}

var (
	_ MetricRecorder = (*NoOpMetricRecorder)(nil)
	_ Tracer         = (*NoOpTracer)(nil)
)
