package metrics

import (
	"context"

	"github.com/tigerroll/ontime/pkg/batch/core/domain/model"
)

// Tracer is an abstract interface for distributed tracing.
type Tracer interface {
	// StartJobSpan starts a span for a JobExecution.
	//
	// Returns: A context carrying the span, and a function that ends it.
	StartJobSpan(ctx context.Context, execution *model.JobExecution) (context.Context, func())

	// StartStepSpan starts a span for a StepExecution, usually as a child of the job span.
	StartStepSpan(ctx context.Context, execution *model.StepExecution) (context.Context, func())

	// RecordError records err on the span carried by ctx.
	RecordError(ctx context.Context, module string, err error)

	// RecordEvent adds a named event with attributes to the span carried by ctx.
	RecordEvent(ctx context.Context, name string, attributes map[string]interface{})
}
