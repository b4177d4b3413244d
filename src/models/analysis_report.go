package models

// -----------------------------------------------------------------------------
// Full analysis report (server state and websocket payload)
// -----------------------------------------------------------------------------

// MAnalysisReport bundles the results of the three analytics over one series.
type MAnalysisReport struct {
	Type              string             `json:"type"` // "INITIAL" or "UPDATE"
	Dataset           string             `json:"dataset"`
	Length            int                `json:"length"`
	WindowSize        int                `json:"window_size"`
	Spans             []int              `json:"spans"`
	FullRange         MRangeStats        `json:"full_range"`
	Windows           []MWindowStats     `json:"windows"`
	PatternCounts     map[MPattern]int   `json:"pattern_counts"`
	Timestamp         int64              `json:"timestamp"`
	ProcessingMetrics MProcessingMetrics `json:"processing_metrics"`
}

// -----------------------------------------------------------------------------
// MSubscribeCommand for websocket client messages
// -----------------------------------------------------------------------------

type MSubscribeCommand struct {
	Command  string   `json:"command"`
	Datasets []string `json:"datasets"`
}
