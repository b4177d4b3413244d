package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-analyzer/src/helpers"
	"stock-analyzer/src/logger"
	"stock-analyzer/src/models"
)

// -----------------------------------------------------------------------------

func testFacade() *AnalysisFacade {
	conf := &models.MConfig{
		Analysis: models.MAnalysisConfig{
			MaxSeriesLength:   1000,
			DefaultWindowSize: 3,
		},
	}
	return NewAnalysisFacade(conf, logger.NewLogger("ERROR", "FacadeTest"))
}

// -----------------------------------------------------------------------------

func TestFacadeRunFullAnalysis(t *testing.T) {
	facade := testFacade()
	prices := []float64{100, 80, 60, 70, 60, 75, 85}

	report, err := facade.RunFullAnalysis("acme", prices, 3)
	require.NoError(t, err)

	assert.Equal(t, "UPDATE", report.Type)
	assert.Equal(t, "acme", report.Dataset)
	assert.Equal(t, len(prices), report.Length)
	assert.Equal(t, 3, report.WindowSize)
	assert.Equal(t, []int{1, 1, 1, 2, 1, 4, 6}, report.Spans)
	assert.Len(t, report.Windows, 5)

	assert.Equal(t, 60.0, report.FullRange.Min)
	assert.Equal(t, 100.0, report.FullRange.Max)

	total := 0
	for _, n := range report.PatternCounts {
		total += n
	}
	assert.Equal(t, len(report.Windows), total)

	assert.Equal(t, len(prices), report.ProcessingMetrics.SeriesLength)
	assert.Equal(t, 5, report.ProcessingMetrics.WindowsProcessed)
	assert.NotZero(t, report.Timestamp)
}

// -----------------------------------------------------------------------------

func TestFacadeDefaultWindowSizeClamps(t *testing.T) {
	facade := testFacade()
	facade.Config.Analysis.DefaultWindowSize = 20

	// Series shorter than the default window: clamp to the length
	report, err := facade.RunFullAnalysis("short", []float64{1, 2, 3, 4}, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, report.WindowSize)
	assert.Len(t, report.Windows, 1)
}

// -----------------------------------------------------------------------------

func TestFacadeEnforcesConfiguredMaxLength(t *testing.T) {
	facade := testFacade()
	facade.Config.Analysis.MaxSeriesLength = 5

	tooLong := []float64{1, 2, 3, 4, 5, 6}

	assert.Error(t, facade.ValidateSeries(tooLong))

	_, err := facade.ComputeSpans(tooLong)
	assert.Equal(t, helpers.StatusInvalidBounds, helpers.StatusOf(err))

	_, err = facade.RunFullAnalysis("long", tooLong, 2)
	assert.Error(t, err)
}

// -----------------------------------------------------------------------------

func TestFacadeHandleRoundTrip(t *testing.T) {
	facade := testFacade()
	registry := testRegistry(0)
	prices := []float64{5, 3, 9, 1, 7, 2}

	treeHandle, err := facade.BuildTree(registry, prices)
	require.NoError(t, err)

	stats, err := registry.QueryTree(treeHandle, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 1.0, stats.Min)
	assert.Equal(t, 9.0, stats.Max)

	winHandle, count, err := facade.AnalyzeWindows(registry, prices, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	assert.Equal(t, 2, registry.LiveHandles())

	registry.ReleaseTree(treeHandle)
	registry.ReleaseWindows(winHandle)
	assert.Equal(t, 0, registry.LiveHandles())
}
