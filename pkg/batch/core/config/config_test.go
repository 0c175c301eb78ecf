package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/ontime/pkg/batch/core/config"
	"github.com/tigerroll/ontime/pkg/batch/support/util/exception"
)

const testYAML = `
ontime:
  batch:
    job_name: testJob
    storage_ref: work
    input_object: ${ONTIME_TEST_INPUT}
  system:
    logging:
      level: DEBUG
  storage:
    work:
      type: local
      base_dir: /tmp/ontime
  database:
    metadata:
      type: sqlite
      database: ":memory:"
`

func TestLoadConfig_MergesYAMLOverDefaults(t *testing.T) {
	t.Setenv("ONTIME_TEST_INPUT", "raw/2024_01.csv")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.env"), config.EmbeddedConfig(testYAML))
	require.NoError(t, err)

	assert.Equal(t, "testJob", cfg.Ontime.Batch.JobName)
	assert.Equal(t, "work", cfg.Ontime.Batch.StorageRef)
	assert.Equal(t, "raw/2024_01.csv", cfg.Ontime.Batch.InputObject)
	// Untouched defaults survive the merge.
	assert.Equal(t, "cleaned/ontime_cleaned.parquet", cfg.Ontime.Batch.CleanedObject)
	assert.Equal(t, "SNAPPY", cfg.Ontime.Batch.Compression)
	assert.Equal(t, config.DefaultFlightDateLayout, cfg.Ontime.Batch.FlightDateLayout)
	assert.Equal(t, "UTC", cfg.Ontime.System.Timezone)
	assert.Equal(t, "DEBUG", cfg.Ontime.System.Logging.Level)
	assert.Contains(t, cfg.Ontime.StorageConfigs, "work")
	assert.Contains(t, cfg.Ontime.DatabaseConfigs, "metadata")
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ONTIME_TEST_INPUT", "raw/a.csv")
	t.Setenv("ONTIME_BATCH_COMPRESSION", "GZIP")
	t.Setenv("ONTIME_METRICS_OTLP_INSECURE", "true")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.env"), config.EmbeddedConfig(testYAML))
	require.NoError(t, err)

	assert.Equal(t, "GZIP", cfg.Ontime.Batch.Compression)
	assert.True(t, cfg.Ontime.Metrics.OTLPInsecure)
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("ONTIME_BATCH_JOB_NAME=fromDotEnv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("ONTIME_BATCH_JOB_NAME") })

	cfg, err := config.LoadConfig(envFile, config.EmbeddedConfig(testYAML))
	require.NoError(t, err)
	assert.Equal(t, "fromDotEnv", cfg.Ontime.Batch.JobName)
}

func TestLoadConfig_InvalidEnvValue(t *testing.T) {
	t.Setenv("ONTIME_METRICS_OTLP_INSECURE", "not-a-bool")

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.env"), config.EmbeddedConfig(testYAML))
	require.Error(t, err)
	assert.True(t, exception.IsBatchError(err))
}

func TestLoadConfig_RejectsSameOutputObjects(t *testing.T) {
	yaml := `
ontime:
  batch:
    cleaned_object: out.parquet
    normalized_object: out.parquet
`
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.env"), config.EmbeddedConfig(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.env"), config.EmbeddedConfig("ontime: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal embedded config")
}

func TestOsEnvironmentExpander_Defaults(t *testing.T) {
	t.Setenv("ONTIME_TEST_SET", "gcs")
	t.Setenv("ONTIME_TEST_EMPTY", "")

	out, err := config.NewOsEnvironmentExpander().Expand([]byte("a: ${ONTIME_TEST_SET:-local}\nb: ${ONTIME_TEST_EMPTY:-./data}\nc: ${ONTIME_TEST_UNSET}\nd: $ONTIME_TEST_SET"))
	require.NoError(t, err)
	assert.Equal(t, "a: gcs\nb: ./data\nc: \nd: gcs", string(out))
}
