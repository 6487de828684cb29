package usecase

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stocksync/backend/internal/domain"
)

func stockFields(size, qty, cost string) map[string]string {
	return map[string]string{
		domain.ColumnSKU:      "A1",
		domain.ColumnSize:     size,
		domain.ColumnQty:      qty,
		domain.ColumnUnitCost: cost,
	}
}

func TestParseStockRecord(t *testing.T) {
	t.Run("parses paired lists", func(t *testing.T) {
		stock, err := ParseStockRecord(record(2, stockFields("S, M", "3,5", "10.00")))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(stock.Sizes) != 2 || stock.Sizes[1] != "M" {
			t.Errorf("sizes = %v", stock.Sizes)
		}
		if stock.Quantities[0] != 3 || stock.Quantities[1] != 5 {
			t.Errorf("quantities = %v", stock.Quantities)
		}
		if !stock.UnitCost.Equal(dec("10")) {
			t.Errorf("unit cost = %s", stock.UnitCost)
		}
	})

	t.Run("accepts currency formatting", func(t *testing.T) {
		stock, err := ParseStockRecord(record(2, stockFields("S", "1", "$1,200.50")))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !stock.UnitCost.Equal(dec("1200.50")) {
			t.Errorf("unit cost = %s", stock.UnitCost)
		}
	})

	invalid := []struct {
		name   string
		fields map[string]string
		field  string
	}{
		{"length mismatch", stockFields("S,M", "3", "10"), domain.ColumnQty},
		{"non-numeric quantity", stockFields("S", "three", "10"), domain.ColumnQty},
		{"negative quantity", stockFields("S", "-1", "10"), domain.ColumnQty},
		{"empty size", stockFields("S,,M", "1,2,3", "10"), domain.ColumnSize},
		{"bad cost", stockFields("S", "1", "ten"), domain.ColumnUnitCost},
		{"missing sku", map[string]string{domain.ColumnSize: "S"}, domain.ColumnSKU},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStockRecord(record(2, tt.fields))
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %s, want %s", verr.Field, tt.field)
			}
		})
	}
}

func TestComputeDeltas_Scenario(t *testing.T) {
	calc := NewDeltaCalculator(decimal.Zero)
	stock := domain.StockRecord{SKU: "A1", Sizes: []string{"S", "M"}, Quantities: []int{3, 5}, UnitCost: dec("10.00")}

	deltas, unmatched := calc.ComputeDeltas(stock, entityA1(domain.StatusActive))

	if len(unmatched) != 0 {
		t.Errorf("unmatched = %v", unmatched)
	}
	if len(deltas) != 2 {
		t.Fatalf("deltas = %d, want 2", len(deltas))
	}

	s, m := deltas[0], deltas[1]
	if s.VariantID != "vS" || s.QuantityDelta != 2 {
		t.Errorf("S delta = %+v, want +2", s)
	}
	if s.CostChange == nil || !s.CostChange.Equal(dec("10")) {
		t.Errorf("S cost change = %v, want 10.00", s.CostChange)
	}
	if m.QuantityDelta != 0 || m.CostChange != nil || !m.IsNoOp() {
		t.Errorf("M delta = %+v, want no-op", m)
	}
}

func TestComputeDeltas_CostTolerance(t *testing.T) {
	calc := NewDeltaCalculator(decimal.Zero)

	tests := []struct {
		name    string
		cost    string
		changed bool
	}{
		{"within tolerance", "9.505", false},
		{"exactly at tolerance", "9.51", false},
		{"above tolerance", "9.52", true},
		{"lower", "9.40", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stock := domain.StockRecord{SKU: "A1", Sizes: []string{"S"}, Quantities: []int{1}, UnitCost: dec(tt.cost)}
			deltas, _ := calc.ComputeDeltas(stock, entityA1(domain.StatusActive))
			if got := deltas[0].CostChange != nil; got != tt.changed {
				t.Errorf("cost changed = %v, want %v", got, tt.changed)
			}
		})
	}
}

func TestComputeDeltas_CostOnlyFromFirstSize(t *testing.T) {
	calc := NewDeltaCalculator(decimal.Zero)

	t.Run("later sizes never carry cost", func(t *testing.T) {
		stock := domain.StockRecord{SKU: "A1", Sizes: []string{"M", "S"}, Quantities: []int{5, 1}, UnitCost: dec("20")}
		deltas, _ := calc.ComputeDeltas(stock, entityA1(domain.StatusActive))

		costs := 0
		for _, d := range deltas {
			if d.CostChange != nil {
				costs++
				if d.SizeLabel != "M" {
					t.Errorf("cost change on %s, want M", d.SizeLabel)
				}
			}
		}
		if costs != 1 {
			t.Errorf("cost changes = %d, want 1", costs)
		}
	})

	t.Run("unmatched first size means no cost change", func(t *testing.T) {
		stock := domain.StockRecord{SKU: "A1", Sizes: []string{"XL", "S"}, Quantities: []int{1, 1}, UnitCost: dec("20")}
		deltas, unmatched := calc.ComputeDeltas(stock, entityA1(domain.StatusActive))

		if len(unmatched) != 1 || unmatched[0] != "XL" {
			t.Errorf("unmatched = %v, want [XL]", unmatched)
		}
		if len(deltas) != 1 || deltas[0].CostChange != nil {
			t.Errorf("deltas = %+v, want one delta without cost", deltas)
		}
	})
}

func TestComputeDeltas_Matching(t *testing.T) {
	calc := NewDeltaCalculator(decimal.Zero)

	t.Run("size labels are case-sensitive", func(t *testing.T) {
		stock := domain.StockRecord{SKU: "A1", Sizes: []string{"s"}, Quantities: []int{4}, UnitCost: dec("9.50")}
		deltas, unmatched := calc.ComputeDeltas(stock, entityA1(domain.StatusActive))
		if len(deltas) != 0 || len(unmatched) != 1 {
			t.Errorf("deltas = %d, unmatched = %v", len(deltas), unmatched)
		}
	})

	t.Run("duplicate size keeps first occurrence", func(t *testing.T) {
		stock := domain.StockRecord{SKU: "A1", Sizes: []string{"S", "S"}, Quantities: []int{3, 9}, UnitCost: dec("9.50")}
		deltas, _ := calc.ComputeDeltas(stock, entityA1(domain.StatusActive))
		if len(deltas) != 1 || deltas[0].QuantityDelta != 2 {
			t.Errorf("deltas = %+v, want one +2 delta", deltas)
		}
	})

	t.Run("not found entity yields nothing", func(t *testing.T) {
		stock := domain.StockRecord{SKU: "A1", Sizes: []string{"S"}, Quantities: []int{3}}
		deltas, _ := calc.ComputeDeltas(stock, &domain.RemoteEntity{SKU: "A1", Status: domain.StatusNotFound})
		if deltas != nil {
			t.Errorf("deltas = %+v, want nil", deltas)
		}
	})
}

func TestZeroDeltas(t *testing.T) {
	calc := NewDeltaCalculator(decimal.Zero)

	deltas := calc.ZeroDeltas(entityA1(domain.StatusDraft))

	if len(deltas) != 2 {
		t.Fatalf("deltas = %d, want 2", len(deltas))
	}
	if deltas[0].QuantityDelta != -1 || deltas[1].QuantityDelta != -5 {
		t.Errorf("deltas = %d, %d, want -1, -5", deltas[0].QuantityDelta, deltas[1].QuantityDelta)
	}
	for _, d := range deltas {
		if d.CostChange != nil {
			t.Error("zero deltas must not change cost")
		}
	}
}
