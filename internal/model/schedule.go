package model

import (
	"time"
)

// Schedule is the complete set of request tasks for one run. Reference is the
// single shared "now" instant every task delay was computed against; it is
// captured once at construction and never re-sampled.
type Schedule struct {
	Reference time.Time      `json:"reference"`
	URL       string         `json:"url"`
	Tasks     []*RequestTask `json:"tasks"`
}

// DispatchSummary reports per-status task counts after a dispatch run.
type DispatchSummary struct {
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Canceled  int `json:"canceled"`
}
