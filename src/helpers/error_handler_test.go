package helpers

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-analyzer/src/logger"
)

// -----------------------------------------------------------------------------

func TestStatusOf(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, StatusOK},
		{"missing argument", NewMissingArgumentError("series is required"), StatusMissingArgument},
		{"handle", NewHandleError("unknown handle %d", 7), StatusMissingArgument},
		{"validation", NewValidationError("empty series"), StatusInvalidBounds},
		{"range", NewRangeError("bad range"), StatusInvalidBounds},
		{"allocation", NewAllocationError("budget exceeded"), StatusAllocationError},
		{"value", NewValueError("NaN at index %d", 3), StatusInvalidValue},
		{"unrecognized", errors.New("plain"), StatusInvalidBounds},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StatusOf(tc.err))
		})
	}
}

// -----------------------------------------------------------------------------

func TestStatusOfWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("request failed: %w", NewAllocationError("budget exceeded"))
	assert.Equal(t, StatusAllocationError, StatusOf(wrapped))
}

// -----------------------------------------------------------------------------

func TestAnalyzerErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := &DatabaseError{AnalyzerError{Message: "save failed", Cause: cause}}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "save failed")
	assert.Contains(t, err.Error(), "disk full")
}

// -----------------------------------------------------------------------------

func TestRetryWithBackoff(t *testing.T) {
	log := logger.NewLogger("ERROR", "RetryTest")

	attempts := 0
	err := RetryWithBackoff(log, "flaky op", 3, time.Millisecond, func() error {
		attempts++
		if attempts < 2 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)

	attempts = 0
	err = RetryWithBackoff(log, "doomed op", 3, time.Millisecond, func() error {
		attempts++
		return errors.New("permanent")
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)

	var dbErr *DatabaseError
	assert.True(t, errors.As(err, &dbErr))
}
