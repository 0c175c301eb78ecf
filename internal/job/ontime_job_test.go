package job_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/ontime/internal/domain/entity"
	"github.com/tigerroll/ontime/internal/job"
	"github.com/tigerroll/ontime/internal/step/tasklet"
	"github.com/tigerroll/ontime/pkg/batch/core/domain/model"
	batchtest "github.com/tigerroll/ontime/pkg/batch/test"
)

const header = "FL_DATE,OP_UNIQUE_CARRIER,OP_CARRIER_FL_NUM,ORIGIN_AIRPORT_ID,DEST_AIRPORT_ID,CANCELLED,DIVERTED,CRS_DEP_TIME"

// csvWithAllColumns pads each line with the remaining output columns left empty.
func csvWithAllColumns(lines ...string) string {
	present := strings.Split(header, ",")
	seen := map[string]bool{}
	for _, c := range present {
		seen[c] = true
	}
	var extra []string
	for _, c := range entity.OutputColumns {
		if !seen[c] {
			extra = append(extra, c)
		}
	}
	pad := strings.Repeat(",", len(extra))

	var b strings.Builder
	b.WriteString(header + "," + strings.Join(extra, ",") + "\n")
	for _, l := range lines {
		b.WriteString(l + pad + "\n")
	}
	return b.String()
}

func runJob(t *testing.T, csv string) (*model.JobExecution, error) {
	t.Helper()
	ctx := context.Background()
	repo := batchtest.NewSQLiteJobRepository(t)
	provider, cfg := batchtest.NewLocalStorageProvider(t, "local")
	conn, err := provider.ResolveStorageConnection(ctx, "local")
	require.NoError(t, err)
	require.NoError(t, conn.Upload(ctx, "", cfg.Ontime.Batch.InputObject, strings.NewReader(csv), "text/csv"))

	batchCfg := &cfg.Ontime.Batch
	j := job.NewOntimeJob(
		batchCfg,
		tasklet.NewCleanTasklet(batchCfg, provider, nil),
		tasklet.NewNormalizeTasklet(batchCfg, provider, nil),
		repo, nil, nil,
	)
	assert.Equal(t, "ontimeJob", j.JobName())

	je := model.NewJobExecution(j.JobName(), model.JobParameters{"input": batchCfg.InputObject})
	runErr := j.Run(ctx, je)

	loaded, err := repo.FindJobExecutionByID(ctx, je.ID)
	require.NoError(t, err)
	return loaded, runErr
}

func TestOntimeJob_Completes(t *testing.T) {
	je, err := runJob(t, csvWithAllColumns(
		"1/10/2024 12:00:00 AM,AA,100,12345,67890,0,0,2400",
		"1/10/2024 12:00:00 AM,AA,101,12345,67890,1,0,0915",
	))
	require.NoError(t, err)

	assert.Equal(t, model.BatchStatusCompleted, je.Status)
	require.Len(t, je.StepExecutions, 2)
	assert.Equal(t, tasklet.CleanStepName, je.StepExecutions[0].StepName)
	assert.Equal(t, 2, je.StepExecutions[0].WriteCount)
	assert.Equal(t, tasklet.NormalizeStepName, je.StepExecutions[1].StepName)
	assert.Equal(t, 2, je.StepExecutions[1].WriteCount)
}

func TestOntimeJob_FailedCleanSkipsNormalization(t *testing.T) {
	je, err := runJob(t, csvWithAllColumns(
		"1/10/2024 12:00:00 AM,AA,100,12345,67890,0,3,2400",
	))
	require.Error(t, err)

	assert.Equal(t, model.BatchStatusFailed, je.Status)
	require.Len(t, je.StepExecutions, 1)
	assert.Equal(t, model.BatchStatusFailed, je.StepExecutions[0].Status)
	assert.NotEmpty(t, je.StepExecutions[0].Failures)
}
