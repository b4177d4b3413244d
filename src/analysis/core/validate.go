package core

import (
	"math"

	"stock-analyzer/src/helpers"
)

// -----------------------------------------------------------------------------

// DefaultMaxSeriesLength bounds allocation risk when no explicit limit is
// configured (10M elements).
const DefaultMaxSeriesLength = 10000000

// -----------------------------------------------------------------------------

// ValidateSeries rejects series the analytics cannot operate on: nil, empty,
// longer than maxLength, or containing a NaN/infinite element. Validation
// runs before any allocation, so a rejected series never leaks partial
// working storage. maxLength <= 0 falls back to DefaultMaxSeriesLength.
func ValidateSeries(prices []float64, maxLength int) error {
	if prices == nil {
		return helpers.NewMissingArgumentError("price series is required")
	}

	if maxLength <= 0 {
		maxLength = DefaultMaxSeriesLength
	}

	if len(prices) == 0 {
		return helpers.NewValidationError("price series is empty")
	}
	if len(prices) > maxLength {
		return helpers.NewValidationError("price series length %d exceeds maximum %d", len(prices), maxLength)
	}

	for i, p := range prices {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return helpers.NewValueError("invalid price value at index %d", i)
		}
	}

	return nil
}
