package metrics

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/tigerroll/ontime/pkg/batch/core/config"
	"github.com/tigerroll/ontime/pkg/batch/core/domain/model"
	"github.com/tigerroll/ontime/pkg/batch/core/metrics"
	"github.com/tigerroll/ontime/pkg/batch/support/util/exception"
	"github.com/tigerroll/ontime/pkg/batch/support/util/logger"
)

const instrumentationName = "github.com/tigerroll/ontime/pkg/batch"

// OpenTelemetryTracer is an implementation of metrics.Tracer using the OpenTelemetry SDK.
type OpenTelemetryTracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewOpenTelemetryTracer builds a tracer provider for cfg.
// Spans are exported over OTLP/HTTP when cfg.OTLPEndpoint is set and only kept in-process otherwise.
func NewOpenTelemetryTracer(ctx context.Context, cfg *config.MetricsConfig) (*OpenTelemetryTracer, error) {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))),
	}
	if cfg.OTLPEndpoint != "" {
		expOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.OTLPInsecure {
			expOpts = append(expOpts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptracehttp.New(ctx, expOpts...)
		if err != nil {
			return nil, exception.NewBatchError("metrics", "failed to create OTLP trace exporter", err, false, false)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
		logger.Infof("Tracing: exporting spans to %s", cfg.OTLPEndpoint)
	}
	return NewOpenTelemetryTracerWithProvider(sdktrace.NewTracerProvider(opts...)), nil
}

// NewOpenTelemetryTracerWithProvider wraps an existing tracer provider.
func NewOpenTelemetryTracerWithProvider(provider *sdktrace.TracerProvider) *OpenTelemetryTracer {
	return &OpenTelemetryTracer{
		provider: provider,
		tracer:   provider.Tracer(instrumentationName),
	}
}

// StartJobSpan starts a new span for a JobExecution.
func (t *OpenTelemetryTracer) StartJobSpan(ctx context.Context, execution *model.JobExecution) (context.Context, func()) {
	ctx, span := t.tracer.Start(ctx, "job "+execution.JobName, trace.WithAttributes(
		attribute.String("batch.job.name", execution.JobName),
		attribute.String("batch.job.execution_id", execution.ID),
	))
	return ctx, func() {
		span.SetAttributes(
			attribute.String("batch.status", execution.Status.String()),
			attribute.String("batch.exit_status", execution.ExitStatus.String()),
		)
		span.End()
	}
}

// StartStepSpan starts a new span for a StepExecution.
func (t *OpenTelemetryTracer) StartStepSpan(ctx context.Context, execution *model.StepExecution) (context.Context, func()) {
	ctx, span := t.tracer.Start(ctx, "step "+execution.StepName, trace.WithAttributes(
		attribute.String("batch.step.name", execution.StepName),
		attribute.String("batch.step.execution_id", execution.ID),
	))
	return ctx, func() {
		span.SetAttributes(
			attribute.String("batch.status", execution.Status.String()),
			attribute.Int("batch.step.read_count", execution.ReadCount),
			attribute.Int("batch.step.write_count", execution.WriteCount),
			attribute.Int("batch.step.filter_count", execution.FilterCount),
		)
		span.End()
	}
}

// RecordError records err on the current span and marks the span as failed.
func (t *OpenTelemetryTracer) RecordError(ctx context.Context, module string, err error) {
	if err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	span.RecordError(err, trace.WithAttributes(attribute.String("batch.module", module)))
	span.SetStatus(codes.Error, exception.ExtractErrorMessage(err))
}

// RecordEvent adds a named event to the current span.
func (t *OpenTelemetryTracer) RecordEvent(ctx context.Context, name string, attributes map[string]interface{}) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(toAttributes(attributes)...))
}

// Shutdown flushes pending spans and stops the provider.
func (t *OpenTelemetryTracer) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}

// toAttributes converts a generic map into attributes in key order.
func toAttributes(m map[string]interface{}) []attribute.KeyValue {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]attribute.KeyValue, 0, len(m))
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			attrs = append(attrs, attribute.String(k, v))
		case int:
			attrs = append(attrs, attribute.Int(k, v))
		case int64:
			attrs = append(attrs, attribute.Int64(k, v))
		case float64:
			attrs = append(attrs, attribute.Float64(k, v))
		case bool:
			attrs = append(attrs, attribute.Bool(k, v))
		default:
			attrs = append(attrs, attribute.String(k, fmt.Sprint(v)))
		}
	}
	return attrs
}

var _ metrics.Tracer = (*OpenTelemetryTracer)(nil)
