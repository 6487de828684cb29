package domain

import "time"

// OutcomeStatus is the final state of one input record
type OutcomeStatus string

const (
	OutcomeUpdated  OutcomeStatus = "updated"
	OutcomeCreated  OutcomeStatus = "created"
	OutcomeSkipped  OutcomeStatus = "skipped_no_op"
	OutcomeNotFound OutcomeStatus = "not_found"
	OutcomeFailed   OutcomeStatus = "failed"
	OutcomeInvalid  OutcomeStatus = "invalid"
)

// OutcomeStatuses lists every status in report order
var OutcomeStatuses = []OutcomeStatus{
	OutcomeUpdated,
	OutcomeCreated,
	OutcomeSkipped,
	OutcomeNotFound,
	OutcomeFailed,
	OutcomeInvalid,
}

// NeedsAttention reports whether records with this status belong in the attention list
func (s OutcomeStatus) NeedsAttention() bool {
	switch s {
	case OutcomeNotFound, OutcomeFailed, OutcomeInvalid:
		return true
	}
	return false
}

// OutcomeRecord is the per-record result of a run.
type OutcomeRecord struct {
	SKU    string        `json:"sku" yaml:"sku"`
	Line   int           `json:"line" yaml:"line"`
	Status OutcomeStatus `json:"status" yaml:"status"`
	Detail string        `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Summary aggregates outcome counts for a run.
type Summary struct {
	RunID      string                `json:"runId" yaml:"run_id"`
	Mode       Mode                  `json:"mode" yaml:"mode"`
	StartedAt  time.Time             `json:"startedAt" yaml:"started_at"`
	FinishedAt time.Time             `json:"finishedAt,omitempty" yaml:"finished_at,omitempty"`
	Total      int                   `json:"total" yaml:"total"`
	Counts     map[OutcomeStatus]int `json:"counts" yaml:"counts"`
}
