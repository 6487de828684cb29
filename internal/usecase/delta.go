package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stocksync/backend/internal/domain"
)

// listSeparator splits the Size and Qty columns
const listSeparator = ","

// DefaultCostTolerance is the largest cost difference treated as equal
var DefaultCostTolerance = decimal.New(1, -2)

// ParseStockRecord converts a feed row into its typed stock view.
// Sizes and quantities are paired by position and must have equal length.
func ParseStockRecord(rec domain.InputRecord) (domain.StockRecord, error) {
	stock := domain.StockRecord{SKU: rec.SKU()}
	if stock.SKU == "" {
		return stock, domain.NewValidationError(domain.ColumnSKU, "missing required value")
	}

	stock.Sizes = splitList(rec.Get(domain.ColumnSize))
	rawQty := splitList(rec.Get(domain.ColumnQty))
	if len(stock.Sizes) != len(rawQty) {
		return stock, domain.NewValidationError(domain.ColumnQty,
			fmt.Sprintf("%d sizes but %d quantities", len(stock.Sizes), len(rawQty)))
	}

	stock.Quantities = make([]int, len(rawQty))
	for i, raw := range rawQty {
		if stock.Sizes[i] == "" {
			return stock, domain.NewValidationError(domain.ColumnSize, fmt.Sprintf("empty size at position %d", i+1))
		}
		qty, err := strconv.Atoi(raw)
		if err != nil {
			return stock, domain.NewValidationError(domain.ColumnQty, fmt.Sprintf("invalid quantity %q for size %s", raw, stock.Sizes[i]))
		}
		if qty < 0 {
			return stock, domain.NewValidationError(domain.ColumnQty, fmt.Sprintf("negative quantity %d for size %s", qty, stock.Sizes[i]))
		}
		stock.Quantities[i] = qty
	}

	cost, err := parseDecimal(rec.Get(domain.ColumnUnitCost))
	if err != nil {
		return stock, domain.NewValidationError(domain.ColumnUnitCost, err.Error())
	}
	stock.UnitCost = cost

	return stock, nil
}

// DeltaCalculator derives per-variant changes from a stock record
type DeltaCalculator struct {
	tolerance decimal.Decimal
}

// NewDeltaCalculator creates a calculator. A non-positive tolerance uses DefaultCostTolerance.
func NewDeltaCalculator(tolerance decimal.Decimal) *DeltaCalculator {
	if !tolerance.IsPositive() {
		tolerance = DefaultCostTolerance
	}
	return &DeltaCalculator{tolerance: tolerance}
}

// ComputeDeltas returns one delta per size matched to a variant, in size order,
// plus the sizes no variant carries. Only the first size of the record may
// carry a cost change. No-op deltas are included; the dispatcher skips them.
// When a size repeats, its first occurrence wins.
func (c *DeltaCalculator) ComputeDeltas(stock domain.StockRecord, entity *domain.RemoteEntity) (deltas []domain.Delta, unmatched []string) {
	if !entity.Found() {
		return nil, nil
	}

	variants := indexVariants(entity.Variants)
	seen := make(map[string]struct{}, len(stock.Sizes))

	for i, size := range stock.Sizes {
		if _, dup := seen[size]; dup {
			continue
		}
		seen[size] = struct{}{}

		variant, ok := variants[size]
		if !ok {
			unmatched = append(unmatched, size)
			continue
		}

		delta := newDelta(entity.SKU, variant)
		delta.QuantityDelta = stock.Quantities[i] - variant.AvailableQuantity
		if i == 0 && c.costDiffers(variant.UnitCost, stock.UnitCost) {
			cost := stock.UnitCost
			delta.CostChange = &cost
		}
		deltas = append(deltas, delta)
	}

	return deltas, unmatched
}

// ZeroDeltas brings every variant of entity down to zero available
func (c *DeltaCalculator) ZeroDeltas(entity *domain.RemoteEntity) []domain.Delta {
	if !entity.Found() {
		return nil
	}

	deltas := make([]domain.Delta, 0, len(entity.Variants))
	for _, variant := range entity.Variants {
		delta := newDelta(entity.SKU, variant)
		delta.QuantityDelta = -variant.AvailableQuantity
		deltas = append(deltas, delta)
	}
	return deltas
}

func (c *DeltaCalculator) costDiffers(existing, desired decimal.Decimal) bool {
	return existing.Sub(desired).Abs().GreaterThan(c.tolerance)
}

func newDelta(sku string, v domain.RemoteVariant) domain.Delta {
	return domain.Delta{
		SKU:              sku,
		SizeLabel:        v.SizeLabel,
		VariantID:        v.VariantID,
		InventoryItemID:  v.InventoryItemID,
		InventoryLevelID: v.InventoryLevelID,
		LocationID:       v.LocationID,
	}
}

// indexVariants keys variants by exact size label; the first variant with a label wins
func indexVariants(variants []domain.RemoteVariant) map[string]domain.RemoteVariant {
	index := make(map[string]domain.RemoteVariant, len(variants))
	for _, v := range variants {
		if _, ok := index[v.SizeLabel]; !ok {
			index[v.SizeLabel] = v
		}
	}
	return index
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, listSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseDecimal accepts plain and currency-formatted amounts such as "$1,200.50"
func parseDecimal(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}
