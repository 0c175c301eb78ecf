package tasklet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/ontime/pkg/batch/core/domain/model"
	"github.com/tigerroll/ontime/pkg/batch/engine/step/tasklet"
	batchtest "github.com/tigerroll/ontime/pkg/batch/test"
)

func TestTaskletStep_PersistsCompletedExecution(t *testing.T) {
	repo := batchtest.NewSQLiteJobRepository(t)
	ctx := context.Background()

	je := batchtest.NewTestJobExecution("ontimeJob")
	require.NoError(t, repo.SaveJobExecution(ctx, je))
	se := model.NewStepExecution(je, "cleanStep")

	step := tasklet.NewTaskletStep("cleanStep", batchtest.TaskletFunc(func(ctx context.Context, se *model.StepExecution) (model.ExitStatus, error) {
		se.ReadCount, se.WriteCount, se.FilterCount = 3, 2, 1
		return model.ExitStatusCompleted, nil
	}), repo, nil, nil)
	assert.Equal(t, "cleanStep", step.StepName())
	require.NoError(t, step.Execute(ctx, je, se))

	steps, err := repo.FindStepExecutions(ctx, je.ID)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, model.BatchStatusCompleted, steps[0].Status)
	assert.Equal(t, 2, steps[0].WriteCount)
	assert.Equal(t, 1, steps[0].FilterCount)
	assert.NotNil(t, steps[0].EndTime)
}

func TestTaskletStep_RecordsFailure(t *testing.T) {
	repo := batchtest.NewSQLiteJobRepository(t)
	ctx := context.Background()

	je := batchtest.NewTestJobExecution("ontimeJob")
	require.NoError(t, repo.SaveJobExecution(ctx, je))
	se := model.NewStepExecution(je, "normalizeStep")

	boom := errors.New("cleaned object missing")
	step := tasklet.NewTaskletStep("normalizeStep", batchtest.TaskletFunc(func(ctx context.Context, se *model.StepExecution) (model.ExitStatus, error) {
		return model.ExitStatusFailed, boom
	}), repo, nil, nil)

	err := step.Execute(ctx, je, se)
	assert.ErrorIs(t, err, boom)

	steps, err := repo.FindStepExecutions(ctx, je.ID)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, model.BatchStatusFailed, steps[0].Status)
	assert.Equal(t, model.ExitStatusFailed, steps[0].ExitStatus)
	assert.Contains(t, steps[0].Failures, "cleaned object missing")
}
