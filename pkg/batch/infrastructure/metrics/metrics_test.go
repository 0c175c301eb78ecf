package metrics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/tigerroll/ontime/pkg/batch/core/config"
	"github.com/tigerroll/ontime/pkg/batch/core/domain/model"
	"github.com/tigerroll/ontime/pkg/batch/infrastructure/metrics"
)

func TestPrometheusRecorder_StepCounters(t *testing.T) {
	r := metrics.NewPrometheusRecorder()
	ctx := context.Background()

	je := model.NewJobExecution("ontimeJob", nil)
	se := model.NewStepExecution(je, "cleanStep")
	r.RecordJobStart(ctx, je)
	r.RecordStepStart(ctx, se)
	r.RecordItemRead(ctx, "cleanStep", 10)
	r.RecordItemWrite(ctx, "cleanStep", 7)
	r.RecordItemFilter(ctx, "cleanStep", "missing_key", 2)
	r.RecordItemFilter(ctx, "cleanStep", "duplicate_key", 1)
	r.RecordDuration(ctx, "pipeline_stage", 15*time.Millisecond, map[string]string{"stage": "KeyDeduplicator"})

	se.MarkAsStarted()
	se.MarkAsCompleted(model.ExitStatusCompleted)
	r.RecordStepEnd(ctx, se)
	je.MarkAsStarted()
	je.MarkAsCompleted()
	r.RecordJobEnd(ctx, je)

	reg := r.GetRegistry()
	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"batch_step_read_total",
		"batch_step_write_total",
		"batch_step_filter_total",
		"batch_step_duration_seconds",
		"batch_job_duration_seconds",
		"batch_operation_duration_seconds",
	} {
		assert.True(t, names[want], "metric %s not gathered", want)
	}

	n, err := testutil.GatherAndCount(reg, "batch_step_filter_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestOpenTelemetryTracer_RecordsSpansAndErrors(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := metrics.NewOpenTelemetryTracerWithProvider(provider)

	je := model.NewJobExecution("ontimeJob", nil)
	se := model.NewStepExecution(je, "normalizeStep")

	ctx, endJob := tracer.StartJobSpan(context.Background(), je)
	stepCtx, endStep := tracer.StartStepSpan(ctx, se)
	tracer.RecordEvent(stepCtx, "stage_finished", map[string]interface{}{"stage": "DelayReconciler", "rows": 3})
	tracer.RecordError(stepCtx, "validator", errors.New("duplicate keys"))
	endStep()
	endJob()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	step, job := spans[0], spans[1]

	assert.Equal(t, "step normalizeStep", step.Name())
	assert.Equal(t, "job ontimeJob", job.Name())
	assert.Equal(t, job.SpanContext().SpanID(), step.Parent().SpanID())
	assert.Equal(t, codes.Error, step.Status().Code)

	var eventNames []string
	for _, ev := range step.Events() {
		eventNames = append(eventNames, ev.Name)
	}
	assert.Contains(t, eventNames, "stage_finished")
	assert.Contains(t, eventNames, "exception")

	require.NoError(t, tracer.Shutdown(context.Background()))
}

func TestNewOpenTelemetryTracer_WithoutExporter(t *testing.T) {
	tracer, err := metrics.NewOpenTelemetryTracer(context.Background(), &config.MetricsConfig{ServiceName: "ontime-test"})
	require.NoError(t, err)
	assert.NoError(t, tracer.Shutdown(context.Background()))
}
