package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-analyzer/src/helpers"
)

// -----------------------------------------------------------------------------

func TestComputeSpansWorkedExample(t *testing.T) {
	prices := []float64{100, 80, 60, 70, 60, 75, 85}

	spans, err := ComputeSpans(prices, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 1, 2, 1, 4, 6}, spans)
}

// -----------------------------------------------------------------------------

func TestComputeSpansEqualPricesDoNotBlock(t *testing.T) {
	spans, err := ComputeSpans([]float64{50, 50, 50}, 0)
	require.NoError(t, err)

	// A run of equal prices extends the span all the way back
	assert.Equal(t, []int{1, 2, 3}, spans)
}

// -----------------------------------------------------------------------------

func TestComputeSpansMonotonicSequences(t *testing.T) {
	increasing, err := ComputeSpans([]float64{1, 2, 3, 4, 5}, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, increasing)

	decreasing, err := ComputeSpans([]float64{5, 4, 3, 2, 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 1, 1, 1}, decreasing)
}

// -----------------------------------------------------------------------------

func TestComputeSpansSingleElement(t *testing.T) {
	spans, err := ComputeSpans([]float64{42.5}, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, spans)
}

// -----------------------------------------------------------------------------

func TestComputeSpansMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	prices := make([]float64, 500)
	for i := range prices {
		prices[i] = 50 + rng.Float64()*100
	}

	spans, err := ComputeSpans(prices, 0)
	require.NoError(t, err)
	require.Len(t, spans, len(prices))

	for i := range prices {
		expected := 1
		for j := i - 1; j >= 0 && prices[j] <= prices[i]; j-- {
			expected++
		}
		require.Equal(t, expected, spans[i], "span mismatch at index %d", i)

		// 1 <= span[i] <= i+1 always holds
		assert.GreaterOrEqual(t, spans[i], 1)
		assert.LessOrEqual(t, spans[i], i+1)
	}
}

// -----------------------------------------------------------------------------

func TestComputeSpansRejections(t *testing.T) {
	_, err := ComputeSpans(nil, 0)
	assert.Equal(t, helpers.StatusMissingArgument, helpers.StatusOf(err))

	_, err = ComputeSpans([]float64{}, 0)
	assert.Equal(t, helpers.StatusInvalidBounds, helpers.StatusOf(err))

	_, err = ComputeSpans([]float64{1, 2, 3}, 2)
	assert.Equal(t, helpers.StatusInvalidBounds, helpers.StatusOf(err))

	_, err = ComputeSpans([]float64{1, math.NaN(), 3}, 0)
	assert.Equal(t, helpers.StatusInvalidValue, helpers.StatusOf(err))

	_, err = ComputeSpans([]float64{1, math.Inf(1)}, 0)
	assert.Equal(t, helpers.StatusInvalidValue, helpers.StatusOf(err))
}
