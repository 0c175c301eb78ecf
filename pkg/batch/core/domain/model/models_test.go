package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/ontime/pkg/batch/core/domain/model"
	"github.com/tigerroll/ontime/pkg/batch/support/util/exception"
)

func TestJobExecution_Lifecycle(t *testing.T) {
	je := model.NewJobExecution("ontimeJob", model.JobParameters{"input": "raw.csv"})
	require.NotEmpty(t, je.ID)
	assert.Equal(t, model.BatchStatusStarting, je.Status)

	je.MarkAsStarted()
	assert.Equal(t, model.BatchStatusStarted, je.Status)
	assert.False(t, je.Status.IsFinished())

	je.MarkAsCompleted()
	assert.Equal(t, model.BatchStatusCompleted, je.Status)
	assert.Equal(t, model.ExitStatusCompleted, je.ExitStatus)
	assert.NotNil(t, je.EndTime)
	assert.True(t, je.Status.IsFinished())

	assert.Error(t, je.TransitionTo(model.BatchStatusStarted))
}

func TestStepExecution_MarkAsFailedDeduplicatesMessages(t *testing.T) {
	je := model.NewJobExecution("ontimeJob", nil)
	se := model.NewStepExecution(je, "cleanStep")
	require.Len(t, je.StepExecutions, 1)
	assert.Equal(t, je.ID, se.JobExecutionID)

	se.MarkAsStarted()
	err := exception.NewBatchError("validator", "duplicate keys", errors.New("2 rows"), false, false)
	se.MarkAsFailed(err)
	se.MarkAsFailed(err)

	assert.Equal(t, model.BatchStatusFailed, se.Status)
	assert.Equal(t, model.ExitStatusFailed, se.ExitStatus)
	assert.Equal(t, model.FailureList{"duplicate keys"}, se.Failures)
}

func TestExecutionContext_ValueScanRoundTrip(t *testing.T) {
	ec := model.NewExecutionContext()
	ec.Put("rows.read", 10)
	ec.Put("object", "cleaned.parquet")

	v, err := ec.Value()
	require.NoError(t, err)

	var restored model.ExecutionContext
	require.NoError(t, restored.Scan(v))

	n, ok := restored.GetInt("rows.read")
	assert.True(t, ok)
	assert.Equal(t, 10, n)
	s, ok := restored.GetString("object")
	assert.True(t, ok)
	assert.Equal(t, "cleaned.parquet", s)

	var empty model.ExecutionContext
	require.NoError(t, empty.Scan(nil))
	assert.Empty(t, empty)
	assert.Error(t, empty.Scan(42))
}

func TestFailureListAndJobParameters_Scan(t *testing.T) {
	var fl model.FailureList
	require.NoError(t, fl.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, model.FailureList{"a", "b"}, fl)

	var jp model.JobParameters
	require.NoError(t, jp.Scan(`{"input":"raw.csv"}`))
	assert.Equal(t, "raw.csv", jp["input"])
}
