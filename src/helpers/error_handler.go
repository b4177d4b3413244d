package helpers

import (
	"errors"
	"fmt"
	"time"

	"stock-analyzer/src/logger"
)

// -----------------------------------------------------------------------------
// Status Codes
// -----------------------------------------------------------------------------

// Machine-checkable status codes paired with every operation result.
// The categories are disjoint; diagnostic text is never required to
// distinguish them.
const (
	StatusOK              = 0
	StatusMissingArgument = -1 // nil/absent required argument or handle
	StatusInvalidBounds   = -2 // bad length, window size, range, or index
	StatusAllocationError = -3 // result would exceed the memory budget
	StatusInvalidValue    = -4 // NaN or infinite input element
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type AnalyzerError struct {
	Message string
	Cause   error
}

func (e *AnalyzerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AnalyzerError) Unwrap() error {
	return e.Cause
}

// MissingArgumentError reports a nil or absent required argument.
type MissingArgumentError struct{ AnalyzerError }

// ValidationError reports an out-of-bounds length or window size.
type ValidationError struct{ AnalyzerError }

// RangeError reports a malformed query range or result index.
type RangeError struct{ AnalyzerError }

// AllocationError reports that a result could not be allocated
// within the configured memory budget.
type AllocationError struct{ AnalyzerError }

// ValueError reports a non-finite input element.
type ValueError struct{ AnalyzerError }

// HandleError reports an absent or already-released handle.
type HandleError struct{ AnalyzerError }

type ConfigurationError struct{ AnalyzerError }
type DatabaseError struct{ AnalyzerError }

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

func NewMissingArgumentError(format string, args ...interface{}) error {
	return &MissingArgumentError{AnalyzerError{Message: fmt.Sprintf(format, args...)}}
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{AnalyzerError{Message: fmt.Sprintf(format, args...)}}
}

func NewRangeError(format string, args ...interface{}) error {
	return &RangeError{AnalyzerError{Message: fmt.Sprintf(format, args...)}}
}

func NewAllocationError(format string, args ...interface{}) error {
	return &AllocationError{AnalyzerError{Message: fmt.Sprintf(format, args...)}}
}

func NewValueError(format string, args ...interface{}) error {
	return &ValueError{AnalyzerError{Message: fmt.Sprintf(format, args...)}}
}

func NewHandleError(format string, args ...interface{}) error {
	return &HandleError{AnalyzerError{Message: fmt.Sprintf(format, args...)}}
}

// -----------------------------------------------------------------------------
// Status Mapping
// -----------------------------------------------------------------------------

// StatusOf maps an error to its boundary status code. Handle errors share
// code -1 with missing arguments: an absent handle is a missing required
// argument at the boundary.
func StatusOf(err error) int {
	if err == nil {
		return StatusOK
	}

	var missingErr *MissingArgumentError
	var validationErr *ValidationError
	var rangeErr *RangeError
	var allocErr *AllocationError
	var valueErr *ValueError
	var handleErr *HandleError

	switch {
	case errors.As(err, &missingErr), errors.As(err, &handleErr):
		return StatusMissingArgument
	case errors.As(err, &validationErr), errors.As(err, &rangeErr):
		return StatusInvalidBounds
	case errors.As(err, &allocErr):
		return StatusAllocationError
	case errors.As(err, &valueErr):
		return StatusInvalidValue
	default:
		return StatusInvalidBounds
	}
}

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

// RetryWithBackoff attempts to execute the operation up to maxRetries times
// with exponential backoff. Used for storage connection setup only; failed
// computations are never retried, the caller re-invokes with corrected input.
func RetryWithBackoff(log *logger.Logger, operation string, maxRetries int, baseDelay time.Duration, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == maxRetries-1 {
			break
		}

		delay := baseDelay * (1 << attempt)
		log.Warning("Attempt %d/%d failed for %s: %v. Retrying in %v", attempt+1, maxRetries, operation, lastErr, delay)
		time.Sleep(delay)
	}

	return &DatabaseError{AnalyzerError{Message: fmt.Sprintf("%s failed after %d attempts", operation, maxRetries), Cause: lastErr}}
}
