package models

// MProcessingMetrics represents the performance metrics for one analysis run.
type MProcessingMetrics struct {
	AnalysisTimeSeconds float64 `json:"analysis_time_seconds"`
	SeriesLength        int     `json:"series_length"`
	WindowsProcessed    int     `json:"windows_processed"`
}
