package core

import (
	"math"

	"stock-analyzer/src/helpers"
	"stock-analyzer/src/models"
)

// -----------------------------------------------------------------------------
// Pattern classification thresholds. Fixed design constants, not
// configurable inputs.
// -----------------------------------------------------------------------------

const (
	changeThreshold = 0.05 // relative first-to-last move
	cvThreshold     = 0.1  // coefficient of variation
)

// -----------------------------------------------------------------------------

// ClassifyPattern labels one window given its boundary prices, variance and
// mean. A relative move above changeThreshold wins in the move's direction;
// otherwise the coefficient of variation sqrt(variance)/|mean| separates
// volatile from stable. Both comparisons are strict, so values exactly at a
// threshold fall through to the next branch.
func ClassifyPattern(first, last, variance, mean float64) models.MPattern {
	changePct := math.Abs((last - first) / first)

	switch {
	case changePct > changeThreshold && last > first:
		return models.PatternBullish
	case changePct > changeThreshold && last < first:
		return models.PatternBearish
	case math.Sqrt(variance)/math.Abs(mean) > cvThreshold:
		return models.PatternVolatile
	default:
		return models.PatternStable
	}
}

// -----------------------------------------------------------------------------
// WindowResult
// -----------------------------------------------------------------------------

// WindowResult is the immutable outcome of one sliding-window analysis.
// Windows are indexed 0-based by start position; freely shared for
// concurrent reads.
type WindowResult struct {
	windows    []models.MWindowStats
	windowSize int
}

// -----------------------------------------------------------------------------

// NumWindows returns length - windowSize + 1.
func (r *WindowResult) NumWindows() int {
	return len(r.windows)
}

// -----------------------------------------------------------------------------

// WindowSize returns the fixed window width used for the analysis.
func (r *WindowResult) WindowSize() int {
	return r.windowSize
}

// -----------------------------------------------------------------------------

// Get returns the statistics for the window starting at idx.
func (r *WindowResult) Get(idx int) (models.MWindowStats, error) {
	if idx < 0 || idx >= len(r.windows) {
		return models.MWindowStats{}, helpers.NewRangeError("window index %d out of bounds (%d windows)", idx, len(r.windows))
	}
	return r.windows[idx], nil
}

// -----------------------------------------------------------------------------

// All returns the full window sequence. Callers must not mutate it.
func (r *WindowResult) All() []models.MWindowStats {
	return r.windows
}

// -----------------------------------------------------------------------------

// ResultBytes estimates the backing storage of the window array.
func (r *WindowResult) ResultBytes() int {
	return len(r.windows) * windowStatsBytes
}

const windowStatsBytes = 48 // 3 float64 fields + pattern header

// -----------------------------------------------------------------------------

// AnalyzeWindows computes per-window min/max/avg plus a trend label for
// every window of windowSize consecutive prices.
//
// Two monotonic index deques track the extrema: the max deque keeps prices
// decreasing front-to-back, the min deque increasing, so each front holds
// the current window extremum. Every index enters and leaves each deque at
// most once - O(1) amortized per slide, O(n) total. Running sum and sum of
// squares are updated incrementally (subtract the leaving value, add the
// entering one) instead of rescanned; the accumulated floating error this
// trades for O(1) mean/variance is bounded by tests over long sequences.
func AnalyzeWindows(prices []float64, windowSize, maxLength int) (*WindowResult, error) {
	if err := ValidateSeries(prices, maxLength); err != nil {
		return nil, err
	}

	if windowSize <= 0 || windowSize > len(prices) {
		return nil, helpers.NewValidationError("invalid window size %d for series of length %d", windowSize, len(prices))
	}

	numWindows := len(prices) - windowSize + 1
	result := &WindowResult{
		windows:    make([]models.MWindowStats, numWindows),
		windowSize: windowSize,
	}

	maxDq := newIndexDeque(windowSize + 1)
	minDq := newIndexDeque(windowSize + 1)

	sum := 0.0
	sumSq := 0.0

	for i := 0; i < windowSize; i++ {
		sum += prices[i]
		sumSq += prices[i] * prices[i]
		admit(maxDq, minDq, prices, i)
	}

	result.windows[0] = windowStats(prices, maxDq, minDq, sum, sumSq, 0, windowSize)

	for w := 1; w < numWindows; w++ {
		outIdx := w - 1
		inIdx := w + windowSize - 1

		sum = sum - prices[outIdx] + prices[inIdx]
		sumSq = sumSq - prices[outIdx]*prices[outIdx] + prices[inIdx]*prices[inIdx]

		// Expire indices that slid out of the window
		for !maxDq.empty() && maxDq.peekFront() <= outIdx {
			maxDq.popFront()
		}
		for !minDq.empty() && minDq.peekFront() <= outIdx {
			minDq.popFront()
		}

		admit(maxDq, minDq, prices, inIdx)

		result.windows[w] = windowStats(prices, maxDq, minDq, sum, sumSq, w, windowSize)
	}

	return result, nil
}

// -----------------------------------------------------------------------------

// admit pushes index i onto both deques, evicting dominated candidates from
// the backs first (<= for the max deque, >= for the min deque).
func admit(maxDq, minDq *indexDeque, prices []float64, i int) {
	for !maxDq.empty() && prices[maxDq.peekBack()] <= prices[i] {
		maxDq.popBack()
	}
	maxDq.pushBack(i)

	for !minDq.empty() && prices[minDq.peekBack()] >= prices[i] {
		minDq.popBack()
	}
	minDq.pushBack(i)
}

// -----------------------------------------------------------------------------

func windowStats(prices []float64, maxDq, minDq *indexDeque, sum, sumSq float64, start, windowSize int) models.MWindowStats {
	avg := sum / float64(windowSize)
	variance := sumSq/float64(windowSize) - avg*avg

	return models.MWindowStats{
		Max:     prices[maxDq.peekFront()],
		Min:     prices[minDq.peekFront()],
		Avg:     avg,
		Pattern: ClassifyPattern(prices[start], prices[start+windowSize-1], variance, avg),
	}
}
