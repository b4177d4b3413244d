package analysis

import (
	"time"

	"stock-analyzer/src/analysis/core"
	"stock-analyzer/src/logger"
	"stock-analyzer/src/models"
)

type AnalysisFacade struct {
	Config *models.MConfig
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAnalysisFacade(cfg *models.MConfig, log *logger.Logger) *AnalysisFacade {
	return &AnalysisFacade{
		Config: cfg,
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

// ValidateSeries checks a series against the configured limits without
// computing anything.
func (a *AnalysisFacade) ValidateSeries(prices []float64) error {
	return core.ValidateSeries(prices, a.Config.Analysis.MaxSeriesLength)
}

// -----------------------------------------------------------------------------

// ComputeSpans runs the span calculation under the configured length limit.
func (a *AnalysisFacade) ComputeSpans(prices []float64) ([]int, error) {
	return core.ComputeSpans(prices, a.Config.Analysis.MaxSeriesLength)
}

// -----------------------------------------------------------------------------

// BuildTree builds a range aggregation tree and registers it, returning
// the opaque handle the caller queries and eventually releases.
func (a *AnalysisFacade) BuildTree(registry *HandleRegistry, prices []float64) (uint64, error) {
	tree, err := core.BuildRangeTree(prices, a.Config.Analysis.MaxSeriesLength)
	if err != nil {
		return 0, err
	}
	return registry.PutTree(tree)
}

// -----------------------------------------------------------------------------

// AnalyzeWindows runs the sliding-window analysis and registers the result,
// returning its handle and window count.
func (a *AnalysisFacade) AnalyzeWindows(registry *HandleRegistry, prices []float64, windowSize int) (uint64, int, error) {
	result, err := core.AnalyzeWindows(prices, windowSize, a.Config.Analysis.MaxSeriesLength)
	if err != nil {
		return 0, 0, err
	}

	handle, err := registry.PutWindows(result)
	if err != nil {
		return 0, 0, err
	}
	return handle, result.NumWindows(), nil
}

// -----------------------------------------------------------------------------

// RunFullAnalysis drives all three analytics over one series and bundles
// the results into a report. windowSize 0 selects the configured default,
// clamped to the series length. Each run is an independent one-shot batch
// computation - no state survives between invocations.
func (a *AnalysisFacade) RunFullAnalysis(name string, prices []float64, windowSize int) (models.MAnalysisReport, error) {
	start := time.Now().UTC()
	maxLen := a.Config.Analysis.MaxSeriesLength

	if windowSize == 0 {
		windowSize = a.Config.Analysis.DefaultWindowSize
		if windowSize > len(prices) {
			windowSize = len(prices)
		}
	}

	spans, err := core.ComputeSpans(prices, maxLen)
	if err != nil {
		return models.MAnalysisReport{}, err
	}

	tree, err := core.BuildRangeTree(prices, maxLen)
	if err != nil {
		return models.MAnalysisReport{}, err
	}

	fullRange, err := tree.Query(0, len(prices)-1)
	if err != nil {
		return models.MAnalysisReport{}, err
	}

	windows, err := core.AnalyzeWindows(prices, windowSize, maxLen)
	if err != nil {
		return models.MAnalysisReport{}, err
	}

	patternCounts := make(map[models.MPattern]int)
	for _, w := range windows.All() {
		patternCounts[w.Pattern]++
	}

	elapsed := time.Since(start).Seconds()
	a.Logger.Debug("Analyzed %q: %d prices, %d windows in %.4fs", name, len(prices), windows.NumWindows(), elapsed)

	return models.MAnalysisReport{
		Type:          "UPDATE",
		Dataset:       name,
		Length:        len(prices),
		WindowSize:    windowSize,
		Spans:         spans,
		FullRange:     fullRange,
		Windows:       windows.All(),
		PatternCounts: patternCounts,
		Timestamp:     time.Now().UTC().Unix(),
		ProcessingMetrics: models.MProcessingMetrics{
			AnalysisTimeSeconds: elapsed,
			SeriesLength:        len(prices),
			WindowsProcessed:    windows.NumWindows(),
		},
	}, nil
}
