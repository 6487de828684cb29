package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Column names used by the supplier feed
const (
	ColumnSKU            = "SKU"
	ColumnSupplierSKU    = "Supplier SKU"
	ColumnSize           = "Size"
	ColumnQty            = "Qty"
	ColumnUnitCost       = "Unit Cost"
	ColumnRetailPrice    = "Retail Price"
	ColumnCompareAtPrice = "Compare At Price"
	ColumnTitle          = "Product Title"
	ColumnVendor         = "Vendor"
	ColumnDescription    = "Description"
	ColumnCategory       = "Product Category"
	ColumnTags           = "Tags"
	ColumnImages         = "Clean Images"
	ColumnInventory      = "Inventory"
	ColumnMaterial       = "Material"
	ColumnCountry        = "Country"
	ColumnColor          = "Color detail"
	ColumnColorSupplier  = "Color Supplier"
	ColumnSeason         = "Season"
	ColumnYear           = "Year"
	ColumnSizingStandard = "Sizing Standard"
	ColumnFit            = "Fit"
	ColumnGender         = "gender"
	ColumnDepartment     = "Department"
)

// InputRecord is one row of the feed: field name to trimmed string value.
// It is read once and never modified.
type InputRecord struct {
	Source string            `json:"source"`
	Line   int               `json:"line"`
	Fields map[string]string `json:"fields"`
}

// Get returns the trimmed value of a field, or "" when the column is absent.
func (r InputRecord) Get(field string) string {
	return strings.TrimSpace(r.Fields[field])
}

// SKU returns the stock-keeping identifier of the record.
func (r InputRecord) SKU() string {
	return r.Get(ColumnSKU)
}

// StockRecord is the typed view of an InputRecord used by the delta calculator.
// Sizes and Quantities are positionally paired and always the same length.
type StockRecord struct {
	SKU        string
	Sizes      []string
	Quantities []int
	UnitCost   decimal.Decimal
}
