package metrics

import (
	"context"

	"go.uber.org/fx"

	"github.com/tigerroll/ontime/pkg/batch/core/config"
	coremetrics "github.com/tigerroll/ontime/pkg/batch/core/metrics"
)

// newTracer builds the OpenTelemetry tracer and flushes it when the application stops.
func newTracer(lc fx.Lifecycle, cfg *config.MetricsConfig) (*OpenTelemetryTracer, error) {
	tracer, err := NewOpenTelemetryTracer(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: tracer.Shutdown})
	return tracer, nil
}

// Module provides the Prometheus recorder and OpenTelemetry tracer as the core metrics ports.
var Module = fx.Options(
	fx.Provide(NewPrometheusRecorder),
	fx.Provide(func(r *PrometheusRecorder) coremetrics.MetricRecorder { return r }),
	fx.Provide(newTracer),
	fx.Provide(func(t *OpenTelemetryTracer) coremetrics.Tracer { return t }),
)
