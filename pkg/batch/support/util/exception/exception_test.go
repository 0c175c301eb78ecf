package exception_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/ontime/pkg/batch/support/util/exception"
)

func TestBatchError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := exception.NewBatchError("writer", "failed to upload", cause, false, true)

	assert.Equal(t, "[writer] failed to upload: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, err.IsRetryable())
	assert.False(t, err.IsSkippable())
	assert.NotEmpty(t, err.StackTrace)

	noCause := exception.NewBatchError("config", "missing job name", nil, false, false)
	assert.Equal(t, "[config] missing job name", noCause.Error())
}

func TestNewBatchErrorf(t *testing.T) {
	cause := errors.New("no such column")
	err := exception.NewBatchErrorf("reader", "column %s not found", "FL_DATE", cause)

	assert.Equal(t, "column FL_DATE not found", err.Message)
	assert.ErrorIs(t, err, cause)
	assert.True(t, exception.IsFatal(err))
}

func TestIsFatal(t *testing.T) {
	assert.False(t, exception.IsFatal(nil))
	assert.True(t, exception.IsFatal(errors.New("plain")))
	assert.False(t, exception.IsFatal(exception.NewBatchError("reader", "retry", nil, false, true)))
	assert.False(t, exception.IsFatal(exception.NewBatchError("reader", "skip", nil, true, false)))

	wrapped := fmt.Errorf("step failed: %w", exception.NewBatchError("validator", "bad rows", nil, false, false))
	assert.True(t, exception.IsFatal(wrapped))
	assert.True(t, exception.IsBatchError(wrapped))
}

func TestExtractErrorMessage(t *testing.T) {
	require.Equal(t, "", exception.ExtractErrorMessage(nil))
	assert.Equal(t, "bad rows", exception.ExtractErrorMessage(exception.NewBatchError("validator", "bad rows", errors.New("x"), false, false)))
	assert.Equal(t, "plain", exception.ExtractErrorMessage(errors.New("plain")))
}
