package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-analyzer/src/helpers"
	"stock-analyzer/src/models"
)

// -----------------------------------------------------------------------------

func TestAnalyzeWindowsCountAndAccess(t *testing.T) {
	prices := []float64{100, 80, 60, 70, 60, 75, 85}

	result, err := AnalyzeWindows(prices, 3, 0)
	require.NoError(t, err)

	assert.Equal(t, 5, result.NumWindows())
	assert.Equal(t, 3, result.WindowSize())

	first, err := result.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, first.Max)
	assert.Equal(t, 60.0, first.Min)
	assert.InDelta(t, 80.0, first.Avg, 1e-9)

	_, err = result.Get(5)
	assert.Equal(t, helpers.StatusInvalidBounds, helpers.StatusOf(err))

	_, err = result.Get(-1)
	assert.Equal(t, helpers.StatusInvalidBounds, helpers.StatusOf(err))
}

// -----------------------------------------------------------------------------

func TestAnalyzeWindowsWindowEqualsLength(t *testing.T) {
	prices := []float64{3, 1, 4, 1, 5}

	result, err := AnalyzeWindows(prices, len(prices), 0)
	require.NoError(t, err)
	require.Equal(t, 1, result.NumWindows())

	stats, err := result.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, stats.Min)
	assert.Equal(t, 5.0, stats.Max)
	assert.InDelta(t, 2.8, stats.Avg, 1e-9)
}

// -----------------------------------------------------------------------------

func TestAnalyzeWindowsWindowSizeOne(t *testing.T) {
	prices := []float64{7, 2, 9}

	result, err := AnalyzeWindows(prices, 1, 0)
	require.NoError(t, err)
	require.Equal(t, 3, result.NumWindows())

	for i, p := range prices {
		stats, err := result.Get(i)
		require.NoError(t, err)
		assert.Equal(t, p, stats.Min)
		assert.Equal(t, p, stats.Max)
		assert.Equal(t, p, stats.Avg)
		assert.Equal(t, models.PatternStable, stats.Pattern)
	}
}

// -----------------------------------------------------------------------------

func TestAnalyzeWindowsMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(23))

	prices := make([]float64, 400)
	for i := range prices {
		prices[i] = 10 + rng.Float64()*90
	}

	for _, windowSize := range []int{1, 2, 7, 50, len(prices)} {
		result, err := AnalyzeWindows(prices, windowSize, 0)
		require.NoError(t, err)
		require.Equal(t, len(prices)-windowSize+1, result.NumWindows())

		for w := 0; w < result.NumWindows(); w++ {
			stats, err := result.Get(w)
			require.NoError(t, err)

			min, max := prices[w], prices[w]
			sum := 0.0
			for _, p := range prices[w : w+windowSize] {
				if p < min {
					min = p
				}
				if p > max {
					max = p
				}
				sum += p
			}

			require.InDelta(t, min, stats.Min, 1e-9, "w=%d size=%d", w, windowSize)
			require.InDelta(t, max, stats.Max, 1e-9, "w=%d size=%d", w, windowSize)
			require.InDelta(t, sum/float64(windowSize), stats.Avg, 1e-9, "w=%d size=%d", w, windowSize)

			// min <= avg <= max for every window
			require.LessOrEqual(t, stats.Min, stats.Avg+1e-9)
			require.LessOrEqual(t, stats.Avg, stats.Max+1e-9)
		}
	}
}

// -----------------------------------------------------------------------------

// TestAnalyzeWindowsIncrementalDrift bounds the rounding accumulated by the
// incremental sum updates over a long oscillating series against a fresh
// per-window recomputation.
func TestAnalyzeWindowsIncrementalDrift(t *testing.T) {
	prices := make([]float64, 20000)
	for i := range prices {
		prices[i] = 100 + 50*math.Sin(float64(i)/3.7) + 0.001*float64(i%997)
	}

	const windowSize = 64
	result, err := AnalyzeWindows(prices, windowSize, 0)
	require.NoError(t, err)

	for w := 0; w < result.NumWindows(); w += 131 {
		stats, err := result.Get(w)
		require.NoError(t, err)

		sum, sumSq := 0.0, 0.0
		for _, p := range prices[w : w+windowSize] {
			sum += p
			sumSq += p * p
		}
		avg := sum / windowSize
		variance := sumSq/windowSize - avg*avg

		require.InDelta(t, avg, stats.Avg, 1e-6, "avg drift at window %d", w)

		cv := math.Sqrt(variance) / math.Abs(avg)
		if math.Abs(cv-cvThreshold) > 1e-4 {
			// Away from the threshold the drift cannot flip the label
			expected := ClassifyPattern(prices[w], prices[w+windowSize-1], variance, avg)
			require.Equal(t, expected, stats.Pattern, "pattern flip at window %d", w)
		}
	}
}

// -----------------------------------------------------------------------------

func TestAnalyzeWindowsRejections(t *testing.T) {
	prices := []float64{1, 2, 3}

	_, err := AnalyzeWindows(prices, 0, 0)
	assert.Equal(t, helpers.StatusInvalidBounds, helpers.StatusOf(err))

	_, err = AnalyzeWindows(prices, -2, 0)
	assert.Equal(t, helpers.StatusInvalidBounds, helpers.StatusOf(err))

	_, err = AnalyzeWindows(prices, 4, 0)
	assert.Equal(t, helpers.StatusInvalidBounds, helpers.StatusOf(err))

	_, err = AnalyzeWindows(nil, 2, 0)
	assert.Equal(t, helpers.StatusMissingArgument, helpers.StatusOf(err))

	_, err = AnalyzeWindows([]float64{1, math.NaN()}, 2, 0)
	assert.Equal(t, helpers.StatusInvalidValue, helpers.StatusOf(err))
}

// -----------------------------------------------------------------------------

func TestClassifyPattern(t *testing.T) {
	cases := []struct {
		name     string
		first    float64
		last     float64
		variance float64
		mean     float64
		expected models.MPattern
	}{
		{"bullish", 100, 110, 4, 105, models.PatternBullish},
		{"bearish", 100, 90, 4, 95, models.PatternBearish},
		{"volatile flat", 100, 100, 225, 100, models.PatternVolatile},
		{"stable", 100, 101, 1, 100.5, models.PatternStable},
		// Both comparisons are strict: a value exactly at the threshold
		// falls through to the next branch.
		{"change exactly at threshold", 100, 105, 1, 102.5, models.PatternStable},
		{"drop exactly at threshold", 100, 95, 1, 97.5, models.PatternStable},
		{"cv exactly at threshold", 100, 100, 100, 100, models.PatternStable},
		{"small move high variance", 100, 102, 400, 101, models.PatternVolatile},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClassifyPattern(tc.first, tc.last, tc.variance, tc.mean))
		})
	}
}
