package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/stocksync/backend/internal/domain"
	"github.com/stocksync/backend/internal/logging"
)

// Mutation names reported to metrics
const (
	mutationAdjustQuantity = "adjust_quantity"
	mutationUpdateCost     = "update_unit_cost"
	mutationCreateProduct  = "create_product"
)

// MutationDispatcher applies deltas through the gateway
type MutationDispatcher struct {
	gateway domain.CommerceGateway
	metrics domain.MetricsRecorder
}

// NewMutationDispatcher creates a dispatcher
func NewMutationDispatcher(gateway domain.CommerceGateway, metrics domain.MetricsRecorder) *MutationDispatcher {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &MutationDispatcher{gateway: gateway, metrics: metrics}
}

// Apply issues at most one quantity adjustment and one cost update for delta.
// The two are independent: one failing does not prevent the other.
// No-op deltas never reach the remote.
func (d *MutationDispatcher) Apply(ctx context.Context, delta domain.Delta) domain.DispatchResult {
	result := domain.DispatchResult{VariantID: delta.VariantID}
	if delta.IsNoOp() {
		result.Status = domain.DispatchSkipped
		return result
	}

	logger := logging.FromContext(ctx)
	var errs []error
	attempted := 0

	if delta.QuantityDelta != 0 {
		attempted++
		err := d.gateway.AdjustQuantity(ctx, delta)
		d.metrics.RecordMutation(mutationAdjustQuantity, err)
		if err != nil {
			errs = append(errs, fmt.Errorf("size %s quantity: %w", delta.SizeLabel, err))
		} else {
			result.QuantityApplied = true
			logger.Info().
				Str("size", delta.SizeLabel).
				Int("delta", delta.QuantityDelta).
				Msg("adjusted available quantity")
		}
	}

	if delta.CostChange != nil {
		attempted++
		err := d.gateway.UpdateUnitCost(ctx, delta.InventoryItemID, *delta.CostChange)
		d.metrics.RecordMutation(mutationUpdateCost, err)
		if err != nil {
			errs = append(errs, fmt.Errorf("size %s cost: %w", delta.SizeLabel, err))
		} else {
			result.CostApplied = true
			logger.Info().
				Str("size", delta.SizeLabel).
				Str("cost", delta.CostChange.StringFixed(2)).
				Msg("updated unit cost")
		}
	}

	result.Err = errors.Join(errs...)
	switch {
	case len(errs) == 0:
		result.Status = domain.DispatchApplied
	case len(errs) == attempted:
		result.Status = domain.DispatchFailed
	default:
		result.Status = domain.DispatchPartial
	}
	return result
}

// ApplyAll applies deltas in order and returns one result per delta
func (d *MutationDispatcher) ApplyAll(ctx context.Context, deltas []domain.Delta) []domain.DispatchResult {
	results := make([]domain.DispatchResult, 0, len(deltas))
	for _, delta := range deltas {
		results = append(results, d.Apply(ctx, delta))
	}
	return results
}

// Create submits a draft product and returns the new product id
func (d *MutationDispatcher) Create(ctx context.Context, draft domain.ProductDraft) (string, error) {
	id, err := d.gateway.CreateProduct(ctx, draft)
	d.metrics.RecordMutation(mutationCreateProduct, err)
	return id, err
}
