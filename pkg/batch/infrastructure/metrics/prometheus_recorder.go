// Package metrics provides the Prometheus and OpenTelemetry implementations of the
// core metrics ports.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/tigerroll/ontime/pkg/batch/core/domain/model"
	"github.com/tigerroll/ontime/pkg/batch/core/metrics"
	"github.com/tigerroll/ontime/pkg/batch/support/util/exception"
	"github.com/tigerroll/ontime/pkg/batch/support/util/logger"
)

// PrometheusRecorder is a Prometheus implementation of the metrics.MetricRecorder interface.
// It owns a private registry so tests and repeated runs do not collide on the default one.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	jobDurationSeconds *prometheus.HistogramVec
	jobStatusCounter   *prometheus.CounterVec

	stepDurationSeconds *prometheus.HistogramVec
	stepStatusCounter   *prometheus.CounterVec
	stepReadCount       *prometheus.CounterVec
	stepWriteCount      *prometheus.CounterVec
	stepFilterCount     *prometheus.CounterVec

	operationDurationSeconds *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a new instance of PrometheusRecorder.
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &PrometheusRecorder{
		registry: registry,
		jobDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "batch_job_duration_seconds",
			Help:    "Duration of batch job executions.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job_name", "status", "exit_status"}),
		jobStatusCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_job_status_total",
			Help: "Total number of batch job executions by status.",
		}, []string{"job_name", "status"}),
		stepDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "batch_step_duration_seconds",
			Help:    "Duration of batch step executions.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job_name", "step_name", "status", "exit_status"}),
		stepStatusCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_step_status_total",
			Help: "Total number of batch step executions by status.",
		}, []string{"job_name", "step_name", "status"}),
		stepReadCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_step_read_total",
			Help: "Total rows read by step.",
		}, []string{"step_name"}),
		stepWriteCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_step_write_total",
			Help: "Total rows written by step.",
		}, []string{"step_name"}),
		stepFilterCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "batch_step_filter_total",
			Help: "Total rows dropped by step and reason.",
		}, []string{"step_name", "reason"}),
		operationDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "batch_operation_duration_seconds",
			Help:    "Duration of named operations such as pipeline stages.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "stage"}),
	}

	registry.MustRegister(
		r.jobDurationSeconds,
		r.jobStatusCounter,
		r.stepDurationSeconds,
		r.stepStatusCounter,
		r.stepReadCount,
		r.stepWriteCount,
		r.stepFilterCount,
		r.operationDurationSeconds,
	)
	return r
}

// GetRegistry returns the Prometheus registry.
func (r *PrometheusRecorder) GetRegistry() *prometheus.Registry {
	return r.registry
}

// RecordJobStart records the start of a JobExecution.
func (r *PrometheusRecorder) RecordJobStart(ctx context.Context, execution *model.JobExecution) {
	r.jobStatusCounter.WithLabelValues(execution.JobName, execution.Status.String()).Inc()
	logger.Debugf("Metrics: Job '%s' started.", execution.JobName)
}

// RecordJobEnd records the end of a JobExecution.
func (r *PrometheusRecorder) RecordJobEnd(ctx context.Context, execution *model.JobExecution) {
	r.jobStatusCounter.WithLabelValues(execution.JobName, execution.Status.String()).Inc()
	if execution.EndTime != nil {
		r.jobDurationSeconds.
			WithLabelValues(execution.JobName, execution.Status.String(), execution.ExitStatus.String()).
			Observe(execution.EndTime.Sub(execution.StartTime).Seconds())
	}
	logger.Debugf("Metrics: Job '%s' ended with status %s.", execution.JobName, execution.Status)
}

// RecordStepStart records the start of a StepExecution.
func (r *PrometheusRecorder) RecordStepStart(ctx context.Context, execution *model.StepExecution) {
	r.stepStatusCounter.WithLabelValues(jobNameOf(execution), execution.StepName, execution.Status.String()).Inc()
}

// RecordStepEnd records the end of a StepExecution.
func (r *PrometheusRecorder) RecordStepEnd(ctx context.Context, execution *model.StepExecution) {
	jobName := jobNameOf(execution)
	r.stepStatusCounter.WithLabelValues(jobName, execution.StepName, execution.Status.String()).Inc()
	if execution.EndTime != nil {
		r.stepDurationSeconds.
			WithLabelValues(jobName, execution.StepName, execution.Status.String(), execution.ExitStatus.String()).
			Observe(execution.EndTime.Sub(execution.StartTime).Seconds())
	}
}

// RecordItemRead records count rows read by stepName.
func (r *PrometheusRecorder) RecordItemRead(ctx context.Context, stepName string, count int) {
	r.stepReadCount.WithLabelValues(stepName).Add(float64(count))
}

// RecordItemWrite records count rows written by stepName.
func (r *PrometheusRecorder) RecordItemWrite(ctx context.Context, stepName string, count int) {
	r.stepWriteCount.WithLabelValues(stepName).Add(float64(count))
}

// RecordItemFilter records count rows dropped by stepName for reason.
func (r *PrometheusRecorder) RecordItemFilter(ctx context.Context, stepName string, reason string, count int) {
	r.stepFilterCount.WithLabelValues(stepName, reason).Add(float64(count))
}

// RecordDuration records the duration of a named operation. Only the "stage" tag is used as a label.
func (r *PrometheusRecorder) RecordDuration(ctx context.Context, name string, duration time.Duration, tags map[string]string) {
	r.operationDurationSeconds.WithLabelValues(name, tags["stage"]).Observe(duration.Seconds())
}

// Push sends the registry contents to a Prometheus Pushgateway under the given job label.
func (r *PrometheusRecorder) Push(ctx context.Context, url, jobName string) error {
	if err := push.New(url, jobName).Gatherer(r.registry).PushContext(ctx); err != nil {
		return exception.NewBatchError("metrics", "failed to push metrics to "+url, err, false, true)
	}
	logger.Infof("Metrics pushed to %s (job=%s).", url, jobName)
	return nil
}

func jobNameOf(execution *model.StepExecution) string {
	if execution.JobExecution != nil {
		return execution.JobExecution.JobName
	}
	return ""
}

var _ metrics.MetricRecorder = (*PrometheusRecorder)(nil)
