// Package repository defines the persistence port for job and step execution history.
package repository

import (
	"context"

	"github.com/tigerroll/ontime/pkg/batch/core/domain/model"
)

// JobRepository persists job and step executions.
type JobRepository interface {
	// SaveJobExecution inserts a new JobExecution.
	SaveJobExecution(ctx context.Context, execution *model.JobExecution) error
	// UpdateJobExecution stores the current state of an existing JobExecution.
	UpdateJobExecution(ctx context.Context, execution *model.JobExecution) error
	// FindJobExecutionByID loads a JobExecution and its StepExecutions.
	FindJobExecutionByID(ctx context.Context, id string) (*model.JobExecution, error)
	// FindLatestJobExecution returns the most recently created JobExecution for jobName.
	FindLatestJobExecution(ctx context.Context, jobName string) (*model.JobExecution, error)

	// SaveStepExecution inserts a new StepExecution.
	SaveStepExecution(ctx context.Context, execution *model.StepExecution) error
	// UpdateStepExecution stores the current state of an existing StepExecution.
	UpdateStepExecution(ctx context.Context, execution *model.StepExecution) error
	// FindStepExecutions returns the StepExecutions of a JobExecution ordered by start time.
	FindStepExecutions(ctx context.Context, jobExecutionID string) ([]*model.StepExecution, error)
}
