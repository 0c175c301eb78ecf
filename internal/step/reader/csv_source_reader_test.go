package reader_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/ontime/internal/step/reader"
	"github.com/tigerroll/ontime/pkg/batch/support/util/exception"
	batchtest "github.com/tigerroll/ontime/pkg/batch/test"
)

func upload(t *testing.T, name, objectName, content string) *reader.CSVSourceReader {
	t.Helper()
	provider, _ := batchtest.NewLocalStorageProvider(t, name)
	conn, err := provider.ResolveStorageConnection(context.Background(), name)
	require.NoError(t, err)
	require.NoError(t, conn.Upload(context.Background(), "", objectName, strings.NewReader(content), "text/csv"))

	r, err := reader.NewCSVSourceReader(reader.CSVSourceReaderConfig{StorageRef: name, ObjectName: objectName}, provider)
	require.NoError(t, err)
	return r
}

func TestCSVSourceReader_KeepsCodesAsText(t *testing.T) {
	r := upload(t, "local", "raw/ontime.csv", "OP_UNIQUE_CARRIER,ORIGIN_STATE_ABR,CRS_DEP_TIME\n9E,NY,0915\nAA,NaN,2400\n")

	df, err := r.Read(context.Background())
	require.NoError(t, err)

	rows, cols := df.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, "9E", df.Col("OP_UNIQUE_CARRIER").Elem(0).String())
	assert.Equal(t, "0915", df.Col("CRS_DEP_TIME").Elem(0).String())
	assert.True(t, df.Col("ORIGIN_STATE_ABR").Elem(1).IsNA())
}

func TestCSVSourceReader_HeaderOnlyIsAnError(t *testing.T) {
	r := upload(t, "local", "raw/empty.csv", "FL_DATE,OP_UNIQUE_CARRIER\n")

	_, err := r.Read(context.Background())
	require.Error(t, err)
	var be *exception.BatchError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "reader", be.Module)
}

func TestCSVSourceReader_MissingObject(t *testing.T) {
	provider, _ := batchtest.NewLocalStorageProvider(t, "local")
	r, err := reader.NewCSVSourceReader(reader.CSVSourceReaderConfig{StorageRef: "local", ObjectName: "raw/none.csv"}, provider)
	require.NoError(t, err)

	_, err = r.Read(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to download 'raw/none.csv'")
}

func TestNewCSVSourceReader_RequiresObject(t *testing.T) {
	_, err := reader.NewCSVSourceReader(reader.CSVSourceReaderConfig{StorageRef: "local"}, nil)
	assert.Error(t, err)
}
