package main

import (
	"fmt"
	"math"

	"stock-analyzer/src/analysis/core"
)

// -----------------------------------------------------------------------------
// Brute-force checks. Each validator prints one PASS/FAIL line per check and
// returns the number of failed checks.
// -----------------------------------------------------------------------------

const (
	exactTolerance    = 1e-9 // min/max/avg
	varianceTolerance = 1e-6 // variance accumulates more rounding
)

// -----------------------------------------------------------------------------

func report(name string, ok bool, detail string) int {
	if ok {
		fmt.Printf("PASS  %s\n", name)
		return 0
	}
	fmt.Printf("FAIL  %s: %s\n", name, detail)
	return 1
}

// -----------------------------------------------------------------------------
// Span checks
// -----------------------------------------------------------------------------

// validateSpans recomputes every span by scanning backwards and compares
// against the stack-based result, then checks the bounds invariant.
func validateSpans(prices []float64) int {
	spans, err := core.ComputeSpans(prices, len(prices))
	if err != nil {
		return report("span/compute", false, err.Error())
	}

	failures := 0

	bad := -1
	for i := range prices {
		expected := 1
		for j := i - 1; j >= 0 && prices[j] <= prices[i]; j-- {
			expected++
		}
		if spans[i] != expected {
			bad = i
			break
		}
	}
	failures += report("span/brute-force", bad < 0,
		fmt.Sprintf("mismatch at index %d", bad))

	bad = -1
	for i, s := range spans {
		if s < 1 || s > i+1 {
			bad = i
			break
		}
	}
	failures += report("span/bounds", bad < 0,
		fmt.Sprintf("span out of [1, i+1] at index %d", bad))

	return failures
}

// -----------------------------------------------------------------------------
// Range-tree checks
// -----------------------------------------------------------------------------

// validateTree compares tree queries against direct scans for the full range,
// every single-element range and a sweep of interior ranges.
func validateTree(prices []float64) int {
	tree, err := core.BuildRangeTree(prices, len(prices))
	if err != nil {
		return report("tree/build", false, err.Error())
	}

	failures := 0
	n := len(prices)

	detail := checkRange(tree, prices, 0, n-1)
	failures += report("tree/full-range", detail == "", detail)

	detail = ""
	for i := 0; i < n && detail == ""; i++ {
		detail = checkRange(tree, prices, i, i)
	}
	failures += report("tree/single-element", detail == "", detail)

	// Interior sweep: step scales with n so large series stay fast
	step := n/64 + 1
	detail = ""
	for lo := 0; lo < n && detail == ""; lo += step {
		for hi := lo; hi < n && detail == ""; hi += step {
			detail = checkRange(tree, prices, lo, hi)
		}
	}
	failures += report("tree/range-sweep", detail == "", detail)

	return failures
}

// -----------------------------------------------------------------------------

// checkRange returns an empty string when the tree query over [lo, hi]
// matches a direct scan, otherwise a description of the first mismatch.
func checkRange(tree *core.RangeTree, prices []float64, lo, hi int) string {
	stats, err := tree.Query(lo, hi)
	if err != nil {
		return fmt.Sprintf("[%d,%d]: %v", lo, hi, err)
	}

	min, max := prices[lo], prices[lo]
	sum, sumSq := 0.0, 0.0
	for _, p := range prices[lo : hi+1] {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
		sum += p
		sumSq += p * p
	}
	count := float64(hi - lo + 1)
	avg := sum / count
	variance := sumSq/count - avg*avg

	switch {
	case math.Abs(stats.Min-min) > exactTolerance:
		return fmt.Sprintf("[%d,%d]: min %g != %g", lo, hi, stats.Min, min)
	case math.Abs(stats.Max-max) > exactTolerance:
		return fmt.Sprintf("[%d,%d]: max %g != %g", lo, hi, stats.Max, max)
	case math.Abs(stats.Avg-avg) > exactTolerance:
		return fmt.Sprintf("[%d,%d]: avg %g != %g", lo, hi, stats.Avg, avg)
	case math.Abs(stats.Variance-variance) > varianceTolerance:
		return fmt.Sprintf("[%d,%d]: variance %g != %g", lo, hi, stats.Variance, variance)
	}
	return ""
}

// -----------------------------------------------------------------------------
// Sliding-window checks
// -----------------------------------------------------------------------------

// validateWindows recomputes each window by direct scan and checks the
// min <= avg <= max ordering, extrema membership and window count.
func validateWindows(prices []float64, windowSize int) int {
	result, err := core.AnalyzeWindows(prices, windowSize, len(prices))
	if err != nil {
		return report("window/analyze", false, err.Error())
	}

	failures := 0
	expected := len(prices) - windowSize + 1
	failures += report("window/count", result.NumWindows() == expected,
		fmt.Sprintf("%d windows, want %d", result.NumWindows(), expected))

	detail := ""
	for w, stats := range result.All() {
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
		avg := sum / float64(windowSize)

		switch {
		case math.Abs(stats.Min-min) > exactTolerance:
			detail = fmt.Sprintf("window %d: min %g != %g", w, stats.Min, min)
		case math.Abs(stats.Max-max) > exactTolerance:
			detail = fmt.Sprintf("window %d: max %g != %g", w, stats.Max, max)
		case math.Abs(stats.Avg-avg) > exactTolerance:
			detail = fmt.Sprintf("window %d: avg drifted by %g", w, math.Abs(stats.Avg-avg))
		case stats.Min > stats.Avg+exactTolerance || stats.Avg > stats.Max+exactTolerance:
			detail = fmt.Sprintf("window %d: ordering violated", w)
		}
		if detail != "" {
			break
		}
	}
	failures += report("window/brute-force", detail == "", detail)

	return failures
}
