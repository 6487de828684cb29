package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/stocksync/backend/internal/domain"
)

func TestOutcomeAggregator(t *testing.T) {
	start := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	agg := NewOutcomeAggregator("run-1", domain.ModeUpdate, start)

	agg.Record(domain.OutcomeRecord{SKU: "A1", Line: 2, Status: domain.OutcomeUpdated})
	agg.Record(domain.OutcomeRecord{SKU: "B2", Line: 3, Status: domain.OutcomeNotFound})
	agg.Record(domain.OutcomeRecord{SKU: "C3", Line: 4, Status: domain.OutcomeSkipped})
	agg.Record(domain.OutcomeRecord{SKU: "D4", Line: 5, Status: domain.OutcomeFailed, Detail: "boom"})
	agg.Finish(start.Add(time.Minute))

	summary := agg.Summary()
	if summary.Total != 4 {
		t.Errorf("total = %d, want 4", summary.Total)
	}
	if summary.RunID != "run-1" || summary.Mode != domain.ModeUpdate {
		t.Errorf("summary = %+v", summary)
	}
	if summary.Counts[domain.OutcomeUpdated] != 1 || summary.Counts[domain.OutcomeCreated] != 0 {
		t.Errorf("counts = %v", summary.Counts)
	}
	if len(summary.Counts) != len(domain.OutcomeStatuses) {
		t.Errorf("counts has %d statuses, want every status listed", len(summary.Counts))
	}
	if !summary.FinishedAt.Equal(start.Add(time.Minute)) {
		t.Errorf("finished at = %v", summary.FinishedAt)
	}

	attention := agg.Attention()
	if len(attention) != 2 || attention[0].SKU != "B2" || attention[1].SKU != "D4" {
		t.Errorf("attention = %+v", attention)
	}

	if got := agg.Outcomes(domain.OutcomeSkipped); len(got) != 1 || got[0].SKU != "C3" {
		t.Errorf("skipped outcomes = %+v", got)
	}
	if got := agg.Outcomes(); len(got) != 4 {
		t.Errorf("all outcomes = %d, want 4", len(got))
	}
}

func TestOutcomeAggregator_SummaryIsASnapshot(t *testing.T) {
	agg := NewOutcomeAggregator("run", domain.ModeCheck, time.Now())
	before := agg.Summary()

	agg.Record(domain.OutcomeRecord{SKU: "A1", Status: domain.OutcomeNotFound})

	if before.Counts[domain.OutcomeNotFound] != 0 {
		t.Error("earlier summary changed after Record")
	}
}

func TestOutcomeAggregator_ConcurrentReads(t *testing.T) {
	agg := NewOutcomeAggregator("run", domain.ModeUpdate, time.Now())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			agg.Record(domain.OutcomeRecord{SKU: "A", Status: domain.OutcomeUpdated})
		}
	}()
	for i := 0; i < 100; i++ {
		_ = agg.Summary()
		_ = agg.Attention()
	}
	wg.Wait()

	if agg.Summary().Total != 100 {
		t.Errorf("total = %d, want 100", agg.Summary().Total)
	}
}
