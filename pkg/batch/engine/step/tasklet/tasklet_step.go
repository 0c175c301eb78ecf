// Package tasklet provides the Step implementation that runs a single Tasklet.
package tasklet

import (
	"context"
	"time"

	port "github.com/tigerroll/ontime/pkg/batch/core/application/port"
	model "github.com/tigerroll/ontime/pkg/batch/core/domain/model"
	repository "github.com/tigerroll/ontime/pkg/batch/core/domain/repository"
	metrics "github.com/tigerroll/ontime/pkg/batch/core/metrics"
	exception "github.com/tigerroll/ontime/pkg/batch/support/util/exception"
	logger "github.com/tigerroll/ontime/pkg/batch/support/util/logger"
)

// TaskletStep is an implementation of port.Step for Tasklet-oriented processing.
type TaskletStep struct {
	id             string
	tasklet        port.Tasklet
	jobRepository  repository.JobRepository
	metricRecorder metrics.MetricRecorder
	tracer         metrics.Tracer
}

// NewTaskletStep creates a new TaskletStep instance.
// Nil recorder or tracer fall back to no-op implementations.
func NewTaskletStep(
	id string,
	tasklet port.Tasklet,
	jobRepository repository.JobRepository,
	metricRecorder metrics.MetricRecorder,
	tracer metrics.Tracer,
) *TaskletStep {
	if metricRecorder == nil {
		metricRecorder = metrics.NewNoOpMetricRecorder()
	}
	if tracer == nil {
		tracer = metrics.NewNoOpTracer()
	}
	return &TaskletStep{
		id:             id,
		tasklet:        tasklet,
		jobRepository:  jobRepository,
		metricRecorder: metricRecorder,
		tracer:         tracer,
	}
}

// StepName returns the step name.
func (s *TaskletStep) StepName() string {
	return s.id
}

// Execute runs the Tasklet and persists the StepExecution before and after it.
func (s *TaskletStep) Execute(ctx context.Context, jobExecution *model.JobExecution, stepExecution *model.StepExecution) (err error) {
	logger.Infof("TaskletStep '%s' executing.", s.id)

	ctx, endSpan := s.tracer.StartStepSpan(ctx, stepExecution)
	defer endSpan()

	// 1. Update StepExecution status to STARTED
	stepExecution.MarkAsStarted()
	if err := s.jobRepository.SaveStepExecution(ctx, stepExecution); err != nil {
		stepExecution.MarkAsFailed(err)
		return exception.NewBatchError(s.id, "failed to save StepExecution", err, false, false)
	}
	s.metricRecorder.RecordStepStart(ctx, stepExecution)

	// 2. Execute Tasklet business logic
	start := time.Now()
	exitStatus, err := s.tasklet.Execute(ctx, stepExecution)
	s.metricRecorder.RecordDuration(ctx, "tasklet", time.Since(start), map[string]string{"stage": s.id})

	// 3. Update StepExecution status
	if err != nil {
		s.tracer.RecordError(ctx, s.id, err)
		stepExecution.MarkAsFailed(err)
	} else {
		stepExecution.MarkAsCompleted(exitStatus)
	}
	s.metricRecorder.RecordStepEnd(ctx, stepExecution)
	s.tracer.RecordEvent(ctx, "step.counts", map[string]interface{}{
		"read_count":   stepExecution.ReadCount,
		"write_count":  stepExecution.WriteCount,
		"filter_count": stepExecution.FilterCount,
	})

	// 4. Persistence
	if updateErr := s.jobRepository.UpdateStepExecution(ctx, stepExecution); updateErr != nil {
		logger.Errorf("TaskletStep '%s': Failed to update final StepExecution state: %v", s.id, updateErr)
		if err == nil {
			err = updateErr
		}
	}

	logger.Infof("TaskletStep '%s' finished. ExitStatus: %s, read: %d, written: %d, filtered: %d",
		s.id, stepExecution.ExitStatus, stepExecution.ReadCount, stepExecution.WriteCount, stepExecution.FilterCount)
	return err
}

// Verify that TaskletStep implements the port.Step interface.
var _ port.Step = (*TaskletStep)(nil)
