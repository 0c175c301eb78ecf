package writer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/ontime/pkg/batch/adapter/storage"
	_ "github.com/tigerroll/ontime/pkg/batch/adapter/storage/local"
	"github.com/tigerroll/ontime/pkg/batch/component/step/reader"
	"github.com/tigerroll/ontime/pkg/batch/component/step/writer"
	"github.com/tigerroll/ontime/pkg/batch/core/application/port"
	"github.com/tigerroll/ontime/pkg/batch/core/config"
)

type sampleRow struct {
	Carrier *string  `parquet:"name=carrier, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Minutes *float64 `parquet:"name=minutes, type=DOUBLE, repetitiontype=OPTIONAL"`
	Flag    int64    `parquet:"name=flag, type=INT64"`
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func newProvider(t *testing.T) *storage.StorageProvider {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Ontime.StorageConfigs["work"] = map[string]interface{}{"type": "local", "base_dir": t.TempDir()}
	p := storage.NewStorageProvider(cfg)
	t.Cleanup(func() { p.CloseAll() })
	return p
}

func TestParquetWriter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	provider := newProvider(t)

	w, err := writer.NewParquetWriter[sampleRow]("sampleWriter", writer.ParquetWriterConfig{
		StorageRef: "work",
		ObjectName: "out/sample.parquet",
	}, provider)
	require.NoError(t, err)
	require.NoError(t, w.Open(ctx))
	require.NoError(t, w.Write(ctx, []sampleRow{
		{Carrier: strPtr("AA"), Minutes: floatPtr(20), Flag: 1},
		{Carrier: nil, Minutes: nil, Flag: 0},
	}))
	require.NoError(t, w.Write(ctx, []sampleRow{{Carrier: strPtr("DL"), Minutes: floatPtr(3.5), Flag: 0}}))
	require.NoError(t, w.Close(ctx))

	r, err := reader.NewParquetReader[sampleRow]("sampleReader", reader.ParquetReaderConfig{
		StorageRef: "work",
		ObjectName: "out/sample.parquet",
	}, provider)
	require.NoError(t, err)
	require.NoError(t, r.Open(ctx))
	defer r.Close(ctx)

	var got []sampleRow
	for {
		row, err := r.Read(ctx)
		if err == port.ErrNoMoreItems {
			break
		}
		require.NoError(t, err)
		got = append(got, row)
	}
	require.Len(t, got, 3)
	assert.Equal(t, "AA", *got[0].Carrier)
	assert.Equal(t, 20.0, *got[0].Minutes)
	assert.Nil(t, got[1].Carrier)
	assert.Nil(t, got[1].Minutes)
	assert.Equal(t, "DL", *got[2].Carrier)
	assert.Equal(t, int64(0), got[2].Flag)
}

func TestNewParquetWriter_Validation(t *testing.T) {
	provider := newProvider(t)

	_, err := writer.NewParquetWriter[sampleRow]("w", writer.ParquetWriterConfig{ObjectName: "x.parquet"}, provider)
	assert.Error(t, err)

	_, err = writer.NewParquetWriter[sampleRow]("w", writer.ParquetWriterConfig{StorageRef: "work"}, provider)
	assert.Error(t, err)

	_, err = writer.NewParquetWriter[sampleRow]("w", writer.ParquetWriterConfig{StorageRef: "work", ObjectName: "x.parquet", CompressionType: "LZ77"}, provider)
	assert.ErrorContains(t, err, "invalid compression type")
}

func TestParquetWriter_OpenFailsForUnknownStorage(t *testing.T) {
	provider := newProvider(t)
	w, err := writer.NewParquetWriter[sampleRow]("w", writer.ParquetWriterConfig{StorageRef: "missing", ObjectName: "x.parquet"}, provider)
	require.NoError(t, err)
	assert.Error(t, w.Open(context.Background()))
}
