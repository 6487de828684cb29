package usecase

import (
	"context"
	"fmt"

	"github.com/stocksync/backend/internal/domain"
	"github.com/stocksync/backend/internal/logging"
)

// Strategy is the mode-specific part of a reconciliation run. The driver
// owns resolution, dispatch and outcome bookkeeping; a strategy only decides
// what a record means in its mode.
type Strategy interface {
	Mode() domain.Mode
	// Prepare checks a record before any remote call is made
	Prepare(rec domain.InputRecord) error
	// Deltas computes the changes for a resolved entity and lists feed sizes
	// the entity does not carry
	Deltas(rec domain.InputRecord, entity *domain.RemoteEntity) ([]domain.Delta, []string, error)
	// Missing handles a SKU absent from both scopes
	Missing(ctx context.Context, rec domain.InputRecord) (domain.OutcomeStatus, string, error)
}

// SkipError marks a record the mode deliberately leaves alone
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return e.Reason
}

// NewStrategy builds the strategy for mode
func NewStrategy(mode domain.Mode, calc *DeltaCalculator, builder *ProductBuilder, dispatcher *MutationDispatcher) (Strategy, error) {
	switch mode {
	case domain.ModeUpdate:
		return &updateStrategy{calc: calc}, nil
	case domain.ModeZero:
		return &zeroStrategy{calc: calc}, nil
	case domain.ModeCheck:
		return checkStrategy{}, nil
	case domain.ModeCreate:
		return &createStrategy{builder: builder, dispatcher: dispatcher}, nil
	}
	return nil, fmt.Errorf("no strategy for mode %q", mode)
}

func notFound(rec domain.InputRecord) (domain.OutcomeStatus, string, error) {
	return domain.OutcomeNotFound, "", &domain.NotFoundError{SKU: rec.SKU()}
}

// updateStrategy sets quantities per size and the cost from the first size
type updateStrategy struct {
	calc *DeltaCalculator
}

func (s *updateStrategy) Mode() domain.Mode { return domain.ModeUpdate }

func (s *updateStrategy) Prepare(rec domain.InputRecord) error {
	_, err := ParseStockRecord(rec)
	return err
}

func (s *updateStrategy) Deltas(rec domain.InputRecord, entity *domain.RemoteEntity) ([]domain.Delta, []string, error) {
	stock, err := ParseStockRecord(rec)
	if err != nil {
		return nil, nil, err
	}
	deltas, unmatched := s.calc.ComputeDeltas(stock, entity)
	return deltas, unmatched, nil
}

func (s *updateStrategy) Missing(ctx context.Context, rec domain.InputRecord) (domain.OutcomeStatus, string, error) {
	return notFound(rec)
}

// zeroStrategy drains every variant of each listed product
type zeroStrategy struct {
	calc *DeltaCalculator
}

func (s *zeroStrategy) Mode() domain.Mode { return domain.ModeZero }

func (s *zeroStrategy) Prepare(rec domain.InputRecord) error { return nil }

func (s *zeroStrategy) Deltas(rec domain.InputRecord, entity *domain.RemoteEntity) ([]domain.Delta, []string, error) {
	return s.calc.ZeroDeltas(entity), nil, nil
}

func (s *zeroStrategy) Missing(ctx context.Context, rec domain.InputRecord) (domain.OutcomeStatus, string, error) {
	return notFound(rec)
}

// checkStrategy only resolves
type checkStrategy struct{}

func (checkStrategy) Mode() domain.Mode { return domain.ModeCheck }

func (checkStrategy) Prepare(rec domain.InputRecord) error { return nil }

func (checkStrategy) Deltas(rec domain.InputRecord, entity *domain.RemoteEntity) ([]domain.Delta, []string, error) {
	return nil, nil, nil
}

func (checkStrategy) Missing(ctx context.Context, rec domain.InputRecord) (domain.OutcomeStatus, string, error) {
	return notFound(rec)
}

// createStrategy creates drafts for products the remote does not have
type createStrategy struct {
	builder    *ProductBuilder
	dispatcher *MutationDispatcher
}

func (s *createStrategy) Mode() domain.Mode { return domain.ModeCreate }

func (s *createStrategy) Prepare(rec domain.InputRecord) error {
	if rec.Get(domain.ColumnTitle) == "" {
		return domain.NewValidationError(domain.ColumnTitle, "missing required value")
	}
	if s.builder.OutOfStock(rec) {
		return &SkipError{Reason: "marked out of stock"}
	}
	return nil
}

func (s *createStrategy) Deltas(rec domain.InputRecord, entity *domain.RemoteEntity) ([]domain.Delta, []string, error) {
	return nil, nil, nil
}

func (s *createStrategy) Missing(ctx context.Context, rec domain.InputRecord) (domain.OutcomeStatus, string, error) {
	draft, err := s.builder.Build(rec)
	if err != nil {
		return domain.OutcomeInvalid, "", err
	}

	id, err := s.dispatcher.Create(ctx, draft)
	if err != nil {
		return domain.OutcomeFailed, "", err
	}

	logging.FromContext(ctx).Info().
		Str("product_id", id).
		Str("handle", draft.Handle).
		Int("variants", len(draft.Variants)).
		Msg("created draft product")
	return domain.OutcomeCreated, id, nil
}
