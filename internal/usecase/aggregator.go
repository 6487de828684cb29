package usecase

import (
	"maps"
	"sync"
	"time"

	"github.com/stocksync/backend/internal/domain"
)

// OutcomeAggregator collects per-record outcomes for one run.
// Records are written by the driver only; the status server reads concurrently.
type OutcomeAggregator struct {
	mu       sync.RWMutex
	summary  domain.Summary
	outcomes []domain.OutcomeRecord
}

// NewOutcomeAggregator creates an empty aggregator for a run
func NewOutcomeAggregator(runID string, mode domain.Mode, startedAt time.Time) *OutcomeAggregator {
	counts := make(map[domain.OutcomeStatus]int, len(domain.OutcomeStatuses))
	for _, status := range domain.OutcomeStatuses {
		counts[status] = 0
	}

	return &OutcomeAggregator{
		summary: domain.Summary{
			RunID:     runID,
			Mode:      mode,
			StartedAt: startedAt,
			Counts:    counts,
		},
	}
}

// Record adds one outcome
func (a *OutcomeAggregator) Record(outcome domain.OutcomeRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.outcomes = append(a.outcomes, outcome)
	a.summary.Counts[outcome.Status]++
	a.summary.Total++
}

// Finish stamps the end of the run
func (a *OutcomeAggregator) Finish(at time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.summary.FinishedAt = at
}

// Summary returns a snapshot of the counts by status
func (a *OutcomeAggregator) Summary() domain.Summary {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s := a.summary
	s.Counts = maps.Clone(a.summary.Counts)
	return s
}

// Outcomes returns the recorded outcomes in source order, optionally
// restricted to the given statuses.
func (a *OutcomeAggregator) Outcomes(statuses ...domain.OutcomeStatus) []domain.OutcomeRecord {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if len(statuses) == 0 {
		return append([]domain.OutcomeRecord(nil), a.outcomes...)
	}

	want := make(map[domain.OutcomeStatus]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}

	var out []domain.OutcomeRecord
	for _, o := range a.outcomes {
		if want[o.Status] {
			out = append(out, o)
		}
	}
	return out
}

// Attention returns the outcomes that need follow-up
func (a *OutcomeAggregator) Attention() []domain.OutcomeRecord {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []domain.OutcomeRecord
	for _, o := range a.outcomes {
		if o.Status.NeedsAttention() {
			out = append(out, o)
		}
	}
	return out
}
