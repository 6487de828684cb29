package domain

import "github.com/shopspring/decimal"

// ProductDraft is the creation payload for a product absent from both scopes.
// Products are always created in draft status.
type ProductDraft struct {
	Title           string         `json:"title"`
	Handle          string         `json:"handle"`
	DescriptionHTML string         `json:"descriptionHtml"`
	Vendor          string         `json:"vendor,omitempty"`
	ProductType     string         `json:"productType,omitempty"`
	Tags            []string       `json:"tags,omitempty"`
	OptionName      string         `json:"optionName"`
	Variants        []VariantDraft `json:"variants"`
	Images          []ProductImage `json:"images,omitempty"`
	Metafields      []Metafield    `json:"metafields,omitempty"`
}

// VariantDraft is one size of a product being created
type VariantDraft struct {
	Size           string           `json:"size"`
	SKU            string           `json:"sku"`
	Quantity       int              `json:"quantity"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	CompareAtPrice *decimal.Decimal `json:"compareAtPrice,omitempty"`
	Cost           *decimal.Decimal `json:"cost,omitempty"`
}

// ProductImage is an image URL attached to a new product
type ProductImage struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Metafield is a namespaced custom attribute
type Metafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}
