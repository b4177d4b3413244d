package models

import "time"

// MDataset is a named, immutable price series stored as analysis input.
type MDataset struct {
	Name      string    `json:"name"`
	Prices    []float64 `json:"prices"`
	CreatedAt time.Time `json:"created_at"`
}

// MDatasetInfo is the listing view of a stored dataset.
type MDatasetInfo struct {
	Name      string    `json:"name"`
	Length    int       `json:"length"`
	CreatedAt time.Time `json:"created_at"`
}
