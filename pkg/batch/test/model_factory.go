package test

import (
	model "github.com/tigerroll/ontime/pkg/batch/core/domain/model"
)

// NewTestJobExecution creates a JobExecution for testing.
func NewTestJobExecution(jobName string) *model.JobExecution {
	return model.NewJobExecution(jobName, model.JobParameters{})
}

// NewTestStepExecution creates a StepExecution attached to a fresh JobExecution.
func NewTestStepExecution(stepName string) *model.StepExecution {
	return model.NewStepExecution(NewTestJobExecution("testJob"), stepName)
}
