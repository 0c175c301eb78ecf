package job_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/ontime/pkg/batch/core/application/port"
	"github.com/tigerroll/ontime/pkg/batch/core/domain/model"
	"github.com/tigerroll/ontime/pkg/batch/core/job"
	"github.com/tigerroll/ontime/pkg/batch/engine/step/tasklet"
	batchtest "github.com/tigerroll/ontime/pkg/batch/test"
)

func TestSimpleJob_RunsStepsInOrder(t *testing.T) {
	repo := batchtest.NewSQLiteJobRepository(t)
	ctx := context.Background()

	var order []string
	step := func(name string, read, written int) port.Step {
		return tasklet.NewTaskletStep(name, batchtest.TaskletFunc(func(ctx context.Context, se *model.StepExecution) (model.ExitStatus, error) {
			order = append(order, name)
			se.ReadCount = read
			se.WriteCount = written
			return model.ExitStatusCompleted, nil
		}), repo, nil, nil)
	}

	j := job.NewSimpleJob("ontimeJob", []port.Step{step("cleanStep", 10, 8), step("normalizeStep", 8, 7)}, repo, nil, nil)
	je := model.NewJobExecution(j.JobName(), nil)
	require.NoError(t, j.Run(ctx, je))

	assert.Equal(t, []string{"cleanStep", "normalizeStep"}, order)
	assert.Equal(t, model.BatchStatusCompleted, je.Status)
	assert.Equal(t, model.ExitStatusCompleted, je.ExitStatus)

	loaded, err := repo.FindJobExecutionByID(ctx, je.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BatchStatusCompleted, loaded.Status)
	require.Len(t, loaded.StepExecutions, 2)
	steps, err := repo.FindStepExecutions(ctx, je.ID)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "cleanStep", steps[0].StepName)
	assert.Equal(t, 8, steps[0].WriteCount)
	assert.Equal(t, model.BatchStatusCompleted, steps[1].Status)
}

func TestSimpleJob_StopsAtFirstFailure(t *testing.T) {
	repo := batchtest.NewSQLiteJobRepository(t)
	ctx := context.Background()

	boom := errors.New("validation failed")
	failing := tasklet.NewTaskletStep("cleanStep", batchtest.TaskletFunc(func(ctx context.Context, se *model.StepExecution) (model.ExitStatus, error) {
		return model.ExitStatusFailed, boom
	}), repo, nil, nil)
	ran := false
	never := tasklet.NewTaskletStep("normalizeStep", batchtest.TaskletFunc(func(ctx context.Context, se *model.StepExecution) (model.ExitStatus, error) {
		ran = true
		return model.ExitStatusCompleted, nil
	}), repo, nil, nil)

	j := job.NewSimpleJob("ontimeJob", []port.Step{failing, never}, repo, nil, nil)
	je := model.NewJobExecution(j.JobName(), nil)
	err := j.Run(ctx, je)

	require.ErrorIs(t, err, boom)
	assert.False(t, ran)
	assert.Equal(t, model.BatchStatusFailed, je.Status)
	assert.Contains(t, je.Failures, "validation failed")

	steps, err := repo.FindStepExecutions(ctx, je.ID)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, model.BatchStatusFailed, steps[0].Status)
}

func TestSimpleJob_CancelledContext(t *testing.T) {
	repo := batchtest.NewSQLiteJobRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	j := job.NewSimpleJob("ontimeJob", []port.Step{
		tasklet.NewTaskletStep("cleanStep", batchtest.TaskletFunc(func(ctx context.Context, se *model.StepExecution) (model.ExitStatus, error) {
			t.Fatal("step must not run after cancellation")
			return model.ExitStatusCompleted, nil
		}), repo, nil, nil),
	}, repo, nil, nil)
	je := model.NewJobExecution(j.JobName(), nil)

	err := j.Run(ctx, je)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, model.BatchStatusStopped, je.Status)
}
