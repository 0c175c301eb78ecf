package app_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/ontime/internal/app"
	"github.com/tigerroll/ontime/internal/domain/entity"
	_ "github.com/tigerroll/ontime/pkg/batch/adapter/database/gorm/sqlite"
	_ "github.com/tigerroll/ontime/pkg/batch/adapter/storage/local"
	"github.com/tigerroll/ontime/pkg/batch/core/config"
)

const appYAML = `
ontime:
  batch:
    storage_ref: work
    input_object: raw/ontime.csv
  storage:
    work:
      type: local
      base_dir: ${ONTIME_TEST_BASE_DIR}
  database:
    metadata:
      type: sqlite
      database: ":memory:"
      pool:
        max_open_conns: 1
        max_idle_conns: 1
`

func writeInput(t *testing.T, row string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ONTIME_TEST_BASE_DIR", dir)

	cols := []string{entity.ColFlDate, entity.ColOpUniqueCarrier, entity.ColOpCarrierFlNum,
		entity.ColOriginAirportID, entity.ColDestAirportID, entity.ColCancelled, entity.ColDiverted}
	var rest []string
	for _, c := range entity.OutputColumns {
		found := false
		for _, p := range cols {
			found = found || p == c
		}
		if !found {
			rest = append(rest, c)
		}
	}
	content := strings.Join(append(cols, rest...), ",") + "\n" + row + strings.Repeat(",", len(rest)) + "\n"

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "raw"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "raw", "ontime.csv"), []byte(content), 0o644))
	return dir
}

func TestRunApplication_ExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		row      string
		wantCode int
		wantFile bool
	}{
		{"valid input", "1/10/2024 12:00:00 AM,AA,100,12345,67890,0,0", 0, true},
		{"domain violation", "1/10/2024 12:00:00 AM,AA,100,12345,67890,7,0", 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeInput(t, tt.row)
			envFile := filepath.Join(t.TempDir(), "missing.env")

			code := app.RunApplication(context.Background(), envFile, config.EmbeddedConfig(appYAML))
			assert.Equal(t, tt.wantCode, code)

			_, err := os.Stat(filepath.Join(dir, "normalized", "ontime_normalized.parquet"))
			assert.Equal(t, tt.wantFile, err == nil)
		})
	}
}

func TestRunApplication_InvalidConfig(t *testing.T) {
	code := app.RunApplication(context.Background(), "", config.EmbeddedConfig("ontime: [not, a, map]"))
	assert.Equal(t, 1, code)
}
