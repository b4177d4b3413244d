package models

// MRangeStats is the answer to one range query against an aggregation tree.
type MRangeStats struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Avg      float64 `json:"avg"`
	Variance float64 `json:"variance"`
}
