package domain

import "github.com/shopspring/decimal"

// Delta is the change needed to bring one variant in line with the feed.
type Delta struct {
	SKU              string
	SizeLabel        string
	VariantID        string
	InventoryItemID  string
	InventoryLevelID string
	LocationID       string
	QuantityDelta    int
	CostChange       *decimal.Decimal
}

// IsNoOp reports whether applying the delta would change nothing remotely
func (d Delta) IsNoOp() bool {
	return d.QuantityDelta == 0 && d.CostChange == nil
}

// DispatchStatus is the result of applying a single delta
type DispatchStatus string

const (
	DispatchApplied DispatchStatus = "applied"
	DispatchSkipped DispatchStatus = "skipped_no_op"
	DispatchFailed  DispatchStatus = "failed"
	DispatchPartial DispatchStatus = "partial"
)

// DispatchResult records which of a delta's operations reached the remote.
type DispatchResult struct {
	VariantID       string
	Status          DispatchStatus
	QuantityApplied bool
	CostApplied     bool
	Err             error
}
