package usecase

import (
	"errors"
	"testing"

	"github.com/stocksync/backend/internal/domain"
)

func createFields() map[string]string {
	return map[string]string{
		domain.ColumnSKU:            "A1",
		domain.ColumnSupplierSKU:    "SUP-A1",
		domain.ColumnTitle:          `  "classic"  LEATHER boot `,
		domain.ColumnVendor:         "Acme",
		domain.ColumnCategory:       "Shoes",
		domain.ColumnTags:           "boots, leather,",
		domain.ColumnSize:           "38,39,38",
		domain.ColumnQty:            "2,x,7",
		domain.ColumnRetailPrice:    "120",
		domain.ColumnCompareAtPrice: "150",
		domain.ColumnUnitCost:       "45.5",
		domain.ColumnImages:         "https://img/1.jpg, ,https://img/2.jpg",
		domain.ColumnMaterial:       "Leather",
		domain.ColumnCountry:        "-",
		domain.ColumnYear:           "0",
		domain.ColumnGender:         "WOMEN",
	}
}

func TestProductBuilder_Build(t *testing.T) {
	b := NewProductBuilder()

	draft, err := b.Build(record(2, createFields()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if draft.Title != "Classic Leather Boot" {
		t.Errorf("title = %q", draft.Title)
	}
	if draft.Handle != "classic-leather-boot" {
		t.Errorf("handle = %q", draft.Handle)
	}
	if draft.DescriptionHTML != defaultDescription {
		t.Errorf("description = %q", draft.DescriptionHTML)
	}
	if draft.OptionName != "Size" {
		t.Errorf("option = %q", draft.OptionName)
	}
	if len(draft.Tags) != 2 || draft.Tags[1] != "leather" {
		t.Errorf("tags = %v", draft.Tags)
	}

	if len(draft.Variants) != 2 {
		t.Fatalf("variants = %d, want 2", len(draft.Variants))
	}
	first, second := draft.Variants[0], draft.Variants[1]
	if first.Size != "38" || first.Quantity != 2 || first.SKU != "SUP-A1" {
		t.Errorf("first variant = %+v", first)
	}
	if second.Quantity != 0 {
		t.Errorf("unparsable quantity = %d, want 0", second.Quantity)
	}
	if first.Price == nil || first.Price.StringFixed(2) != "120.00" || first.Cost.StringFixed(2) != "45.50" {
		t.Errorf("prices = %v / %v", first.Price, first.Cost)
	}

	if len(draft.Images) != 2 || draft.Images[0].Alt != draft.Title {
		t.Errorf("images = %+v", draft.Images)
	}

	keys := map[string]string{}
	for _, m := range draft.Metafields {
		keys[m.Key] = m.Value
	}
	if _, ok := keys["made_in"]; ok {
		t.Error("placeholder '-' should not become a metafield")
	}
	if _, ok := keys["year"]; ok {
		t.Error("placeholder '0' should not become a metafield")
	}
	if keys["gender"] != "Women" {
		t.Errorf("gender = %q, want Women", keys["gender"])
	}
	if keys["supplier_sku"] != "A1" || keys["details"] != "Leather" {
		t.Errorf("metafields = %v", keys)
	}
}

func TestProductBuilder_BuildInvalid(t *testing.T) {
	b := NewProductBuilder()

	tests := []struct {
		name   string
		mutate func(map[string]string)
		field  string
	}{
		{"missing title", func(f map[string]string) { f[domain.ColumnTitle] = "" }, domain.ColumnTitle},
		{"no sizes", func(f map[string]string) { f[domain.ColumnSize] = "" }, domain.ColumnSize},
		{"bad price", func(f map[string]string) { f[domain.ColumnRetailPrice] = "free" }, domain.ColumnRetailPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := createFields()
			tt.mutate(fields)

			_, err := b.Build(record(2, fields))
			var verr *domain.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("error = %v, want ValidationError on %s", err, tt.field)
			}
		})
	}
}

func TestProductBuilder_FallsBackToSKU(t *testing.T) {
	fields := createFields()
	delete(fields, domain.ColumnSupplierSKU)

	draft, err := NewProductBuilder().Build(record(2, fields))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.Variants[0].SKU != "A1" {
		t.Errorf("variant sku = %q, want A1", draft.Variants[0].SKU)
	}
}

func TestProductBuilder_OutOfStock(t *testing.T) {
	b := NewProductBuilder()

	if !b.OutOfStock(record(2, map[string]string{domain.ColumnInventory: "OUT OF STOCK"})) {
		t.Error("expected out of stock")
	}
	if b.OutOfStock(record(2, map[string]string{domain.ColumnInventory: "IN STOCK"})) {
		t.Error("expected in stock")
	}
}

func TestHandle(t *testing.T) {
	if got := Handle("Wool  Coat Long"); got != "wool-coat-long" {
		t.Errorf("Handle() = %q", got)
	}
}
