package domain

import "fmt"

// Mode selects which deltas a reconciliation run computes
type Mode string

const (
	// ModeUpdate sets quantities per size and the unit cost from the first size
	ModeUpdate Mode = "update"
	// ModeZero adjusts every variant of each listed product down to zero
	ModeZero Mode = "zero"
	// ModeCheck only resolves; absent SKUs end up in the attention list
	ModeCheck Mode = "check"
	// ModeCreate creates draft products for SKUs absent from both scopes
	ModeCreate Mode = "create"
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeUpdate, ModeZero, ModeCheck, ModeCreate:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// RequiredColumns returns the columns a record must carry in this mode
func (m Mode) RequiredColumns() []string {
	switch m {
	case ModeUpdate:
		return []string{ColumnSKU, ColumnSize, ColumnQty, ColumnUnitCost}
	case ModeCreate:
		return []string{ColumnSKU, ColumnTitle}
	default:
		return []string{ColumnSKU}
	}
}
