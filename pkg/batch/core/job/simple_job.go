// Package job provides the sequential job implementation.
package job

import (
	"context"
	"fmt"

	port "github.com/tigerroll/ontime/pkg/batch/core/application/port"
	model "github.com/tigerroll/ontime/pkg/batch/core/domain/model"
	repository "github.com/tigerroll/ontime/pkg/batch/core/domain/repository"
	metrics "github.com/tigerroll/ontime/pkg/batch/core/metrics"
	exception "github.com/tigerroll/ontime/pkg/batch/support/util/exception"
	logger "github.com/tigerroll/ontime/pkg/batch/support/util/logger"
)

// SimpleJob runs its steps in order and stops at the first failed step.
type SimpleJob struct {
	name           string
	steps          []port.Step
	jobRepository  repository.JobRepository
	metricRecorder metrics.MetricRecorder
	tracer         metrics.Tracer
}

// NewSimpleJob creates a new SimpleJob.
func NewSimpleJob(
	name string,
	steps []port.Step,
	jobRepository repository.JobRepository,
	metricRecorder metrics.MetricRecorder,
	tracer metrics.Tracer,
) *SimpleJob {
	if metricRecorder == nil {
		metricRecorder = metrics.NewNoOpMetricRecorder()
	}
	if tracer == nil {
		tracer = metrics.NewNoOpTracer()
	}
	return &SimpleJob{
		name:           name,
		steps:          steps,
		jobRepository:  jobRepository,
		metricRecorder: metricRecorder,
		tracer:         tracer,
	}
}

// JobName returns the logical name of the job.
func (j *SimpleJob) JobName() string {
	return j.name
}

// Run executes every step and records the outcome on jobExecution.
// The returned error is the failure of the first failed step, or the context error when cancelled.
func (j *SimpleJob) Run(ctx context.Context, jobExecution *model.JobExecution) (runErr error) {
	ctx, endSpan := j.tracer.StartJobSpan(ctx, jobExecution)
	defer endSpan()

	logger.Infof("Starting Job '%s' (Execution ID: %s).", j.name, jobExecution.ID)
	jobExecution.MarkAsStarted()
	if err := j.jobRepository.SaveJobExecution(ctx, jobExecution); err != nil {
		jobExecution.MarkAsFailed(err)
		return exception.NewBatchError("job_runner", fmt.Sprintf("failed to save JobExecution for job '%s'", j.name), err, false, false)
	}
	j.metricRecorder.RecordJobStart(ctx, jobExecution)

	defer func() {
		j.metricRecorder.RecordJobEnd(ctx, jobExecution)
		if err := j.jobRepository.UpdateJobExecution(ctx, jobExecution); err != nil {
			logger.Errorf("Job '%s': Failed to update final JobExecution state: %v", j.name, err)
			if runErr == nil {
				runErr = err
			}
		}
		logger.Infof("Job '%s' (Execution ID: %s) finished. Final Status: %s, Exit Status: %s",
			j.name, jobExecution.ID, jobExecution.Status, jobExecution.ExitStatus)
		for _, se := range jobExecution.StepExecutions {
			logger.Debugf("  StepExecution (Step: %s): status=%s read=%d write=%d filter=%d",
				se.StepName, se.Status, se.ReadCount, se.WriteCount, se.FilterCount)
		}
	}()

	for _, step := range j.steps {
		if err := ctx.Err(); err != nil {
			logger.Warnf("Context cancelled, interrupting execution of Job '%s': %v", j.name, err)
			jobExecution.MarkAsStopped()
			jobExecution.AddFailureException(err)
			j.tracer.RecordError(ctx, "job_runner", err)
			return err
		}

		stepExecution := model.NewStepExecution(jobExecution, step.StepName())
		if err := step.Execute(ctx, jobExecution, stepExecution); err != nil {
			logger.Errorf("Job '%s': step '%s' failed: %v", j.name, step.StepName(), err)
			jobExecution.MarkAsFailed(err)
			j.tracer.RecordError(ctx, "job_runner", err)
			return err
		}
	}

	jobExecution.MarkAsCompleted()
	return nil
}

// Verify that SimpleJob implements the port.Job interface.
var _ port.Job = (*SimpleJob)(nil)
