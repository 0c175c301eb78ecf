// Package job assembles the on-time performance job from its two steps.
package job

import (
	"github.com/tigerroll/ontime/internal/step/tasklet"
	"github.com/tigerroll/ontime/pkg/batch/core/application/port"
	"github.com/tigerroll/ontime/pkg/batch/core/config"
	"github.com/tigerroll/ontime/pkg/batch/core/domain/repository"
	corejob "github.com/tigerroll/ontime/pkg/batch/core/job"
	"github.com/tigerroll/ontime/pkg/batch/core/metrics"
	taskletstep "github.com/tigerroll/ontime/pkg/batch/engine/step/tasklet"
)

// NewOntimeJob builds the job that runs cleanStep and then normalizeStep.
// normalizeStep reads the intermediate written by cleanStep, so it never runs after a failed clean.
func NewOntimeJob(
	cfg *config.BatchConfig,
	cleanTasklet *tasklet.CleanTasklet,
	normalizeTasklet *tasklet.NormalizeTasklet,
	jobRepository repository.JobRepository,
	metricRecorder metrics.MetricRecorder,
	tracer metrics.Tracer,
) port.Job {
	steps := []port.Step{
		taskletstep.NewTaskletStep(tasklet.CleanStepName, cleanTasklet, jobRepository, metricRecorder, tracer),
		taskletstep.NewTaskletStep(tasklet.NormalizeStepName, normalizeTasklet, jobRepository, metricRecorder, tracer),
	}
	return corejob.NewSimpleJob(cfg.JobName, steps, jobRepository, metricRecorder, tracer)
}
