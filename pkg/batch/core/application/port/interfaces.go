// Package port defines the core interfaces (ports) for the batch application.
// These interfaces abstract the application's capabilities and dependencies,
// allowing for flexible implementation and testing.
package port

import (
	"context"
	"errors"

	model "github.com/tigerroll/ontime/pkg/batch/core/domain/model"
)

// ErrNoMoreItems is returned by ItemReader.Read when the input is exhausted.
var ErrNoMoreItems = errors.New("no more items to read")

// Job is the interface for an executable batch job.
type Job interface {
	// Run executes the job and records the outcome on jobExecution.
	Run(ctx context.Context, jobExecution *model.JobExecution) error
	// JobName returns the logical name of the job.
	JobName() string
}

// Step is the interface for a single step executed within a job.
type Step interface {
	// Execute executes the business logic of the step and records the outcome on stepExecution.
	Execute(ctx context.Context, jobExecution *model.JobExecution, stepExecution *model.StepExecution) error
	// StepName returns the logical name of the step.
	StepName() string
}

// Tasklet performs the whole work of a step in one call.
type Tasklet interface {
	// Execute runs the tasklet. Counts are reported through stepExecution.
	Execute(ctx context.Context, stepExecution *model.StepExecution) (model.ExitStatus, error)
}

// ItemReader reads items one at a time until ErrNoMoreItems.
type ItemReader[T any] interface {
	// Open prepares the reader.
	Open(ctx context.Context) error
	// Read returns the next item, or ErrNoMoreItems.
	Read(ctx context.Context) (T, error)
	// Close releases resources held by the reader.
	Close(ctx context.Context) error
}

// ItemWriter writes chunks of items. Output becomes visible on Close.
type ItemWriter[T any] interface {
	// Open prepares the writer.
	Open(ctx context.Context) error
	// Write accepts a chunk of items.
	Write(ctx context.Context, items []T) error
	// Close finalizes the output.
	Close(ctx context.Context) error
}
