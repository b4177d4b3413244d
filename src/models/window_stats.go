package models

// -----------------------------------------------------------------------------
// Window pattern classification
// -----------------------------------------------------------------------------

// MPattern is the closed set of per-window trend labels.
type MPattern string

const (
	PatternBullish  MPattern = "bullish"
	PatternBearish  MPattern = "bearish"
	PatternVolatile MPattern = "volatile"
	PatternStable   MPattern = "stable"
)

// -----------------------------------------------------------------------------

// MWindowStats holds the statistics for one sliding-window position.
type MWindowStats struct {
	Max     float64  `json:"max"`
	Min     float64  `json:"min"`
	Avg     float64  `json:"avg"`
	Pattern MPattern `json:"pattern"`
}
