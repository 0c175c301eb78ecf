package test

import (
	"context"

	model "github.com/tigerroll/ontime/pkg/batch/core/domain/model"
)

// TaskletFunc adapts a function to the port.Tasklet interface.
type TaskletFunc func(ctx context.Context, stepExecution *model.StepExecution) (model.ExitStatus, error)

// Execute calls f.
func (f TaskletFunc) Execute(ctx context.Context, stepExecution *model.StepExecution) (model.ExitStatus, error) {
	return f(ctx, stepExecution)
}
