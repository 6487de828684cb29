package domain

import "github.com/shopspring/decimal"

// EntityStatus is the publication scope a product was resolved in
type EntityStatus string

const (
	StatusActive   EntityStatus = "active"
	StatusDraft    EntityStatus = "draft"
	StatusNotFound EntityStatus = "not_found"
)

// Scope selects which publication partition a lookup searches
type Scope string

const (
	ScopeActive Scope = "active"
	ScopeDraft  Scope = "draft"
)

// RemoteEntity is a product as currently held by the remote platform.
// Fetched fresh for every reconciliation attempt.
type RemoteEntity struct {
	SKU       string          `json:"sku"`
	ProductID string          `json:"productId,omitempty"`
	Title     string          `json:"title,omitempty"`
	Handle    string          `json:"handle,omitempty"`
	Status    EntityStatus    `json:"status"`
	Variants  []RemoteVariant `json:"variants,omitempty"`
}

// Found reports whether the entity was resolved in either scope
func (e *RemoteEntity) Found() bool {
	return e != nil && e.Status != StatusNotFound
}

// RemoteVariant is one size of a remote product. SizeLabel is the join key
// against the record's size list and is compared case-sensitively.
type RemoteVariant struct {
	VariantID         string          `json:"variantId"`
	SizeLabel         string          `json:"sizeLabel"`
	SKU               string          `json:"sku,omitempty"`
	InventoryItemID   string          `json:"inventoryItemId"`
	InventoryLevelID  string          `json:"inventoryLevelId,omitempty"`
	LocationID        string          `json:"locationId,omitempty"`
	AvailableQuantity int             `json:"availableQuantity"`
	UnitCost          decimal.Decimal `json:"unitCost"`
}
