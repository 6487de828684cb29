package shopify

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stocksync/backend/internal/domain"
)

// availableQuantityName is the inventory state adjusted by reconciliation
const availableQuantityName = "available"

type productsData struct {
	Products struct {
		Edges []struct {
			Node productNode `json:"node"`
		} `json:"edges"`
	} `json:"products"`
}

type productNode struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Handle   string `json:"handle"`
	Status   string `json:"status"`
	Variants struct {
		Edges []struct {
			Node variantNode `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

type variantNode struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	SKU           string `json:"sku"`
	InventoryItem struct {
		ID       string `json:"id"`
		UnitCost *struct {
			Amount string `json:"amount"`
		} `json:"unitCost"`
		InventoryLevels struct {
			Edges []struct {
				Node levelNode `json:"node"`
			} `json:"edges"`
		} `json:"inventoryLevels"`
	} `json:"inventoryItem"`
}

type levelNode struct {
	ID       string `json:"id"`
	Location struct {
		ID string `json:"id"`
	} `json:"location"`
	Quantities []struct {
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	} `json:"quantities"`
}

type userErrorsPayload struct {
	UserErrors []domain.UserError `json:"userErrors"`
}

type adjustData struct {
	InventoryAdjustQuantities userErrorsPayload `json:"inventoryAdjustQuantities"`
}

type itemUpdateData struct {
	InventoryItemUpdate userErrorsPayload `json:"inventoryItemUpdate"`
}

type productSetData struct {
	ProductSet struct {
		Product *struct {
			ID string `json:"id"`
		} `json:"product"`
		UserErrors []domain.UserError `json:"userErrors"`
	} `json:"productSet"`
}

// MapToRemoteEntity converts a product node into the domain entity for the scope it was found in
func MapToRemoteEntity(sku string, scope domain.Scope, node productNode) *domain.RemoteEntity {
	entity := &domain.RemoteEntity{
		SKU:       sku,
		ProductID: node.ID,
		Title:     node.Title,
		Handle:    node.Handle,
		Status:    statusForScope(scope),
	}

	for _, edge := range node.Variants.Edges {
		entity.Variants = append(entity.Variants, mapVariant(edge.Node))
	}
	return entity
}

func statusForScope(scope domain.Scope) domain.EntityStatus {
	if scope == domain.ScopeDraft {
		return domain.StatusDraft
	}
	return domain.StatusActive
}

func mapVariant(v variantNode) domain.RemoteVariant {
	variant := domain.RemoteVariant{
		VariantID:       v.ID,
		SizeLabel:       v.Title,
		SKU:             v.SKU,
		InventoryItemID: v.InventoryItem.ID,
		UnitCost:        decimal.Zero,
	}

	if v.InventoryItem.UnitCost != nil {
		if cost, err := decimal.NewFromString(strings.TrimSpace(v.InventoryItem.UnitCost.Amount)); err == nil {
			variant.UnitCost = cost
		}
	}

	if levels := v.InventoryItem.InventoryLevels.Edges; len(levels) > 0 {
		level := levels[0].Node
		variant.InventoryLevelID = level.ID
		variant.LocationID = level.Location.ID
		variant.AvailableQuantity = findQuantity(level, availableQuantityName)
	}
	return variant
}

// findQuantity returns the named quantity of an inventory level, or 0
func findQuantity(level levelNode, name string) int {
	for _, q := range level.Quantities {
		if q.Name == name {
			return q.Quantity
		}
	}
	return 0
}

// searchQuery builds the product search expression for a SKU in one scope
func searchQuery(sku string, scope domain.Scope) string {
	quoted := `"` + strings.ReplaceAll(sku, `"`, `\"`) + `"`
	return "sku:" + quoted + " AND status:" + string(scope)
}

// buildProductSetInput converts a draft into ProductSetInput variables
func buildProductSetInput(draft domain.ProductDraft, locationID string) map[string]any {
	optionValues := make([]map[string]any, 0, len(draft.Variants))
	variants := make([]map[string]any, 0, len(draft.Variants))

	for _, v := range draft.Variants {
		optionValues = append(optionValues, map[string]any{"name": v.Size})

		inventoryItem := map[string]any{
			"sku":     v.SKU,
			"tracked": true,
		}
		if v.Cost != nil {
			inventoryItem["cost"] = v.Cost.StringFixed(2)
		}

		variant := map[string]any{
			"optionValues":    []map[string]any{{"optionName": draft.OptionName, "name": v.Size}},
			"inventoryItem":   inventoryItem,
			"inventoryPolicy": "DENY",
			"taxable":         true,
		}
		if v.Price != nil {
			variant["price"] = v.Price.StringFixed(2)
		}
		if v.CompareAtPrice != nil {
			variant["compareAtPrice"] = v.CompareAtPrice.StringFixed(2)
		}
		if locationID != "" {
			variant["inventoryQuantities"] = []map[string]any{{
				"locationId": locationID,
				"name":       availableQuantityName,
				"quantity":   v.Quantity,
			}}
		}
		variants = append(variants, variant)
	}

	input := map[string]any{
		"title":           draft.Title,
		"handle":          draft.Handle,
		"descriptionHtml": draft.DescriptionHTML,
		"status":          "DRAFT",
		"productOptions": []map[string]any{{
			"name":     draft.OptionName,
			"position": 1,
			"values":   optionValues,
		}},
		"variants": variants,
	}
	if draft.Vendor != "" {
		input["vendor"] = draft.Vendor
	}
	if draft.ProductType != "" {
		input["productType"] = draft.ProductType
	}
	if len(draft.Tags) > 0 {
		input["tags"] = draft.Tags
	}

	if len(draft.Metafields) > 0 {
		metafields := make([]map[string]any, 0, len(draft.Metafields))
		for _, m := range draft.Metafields {
			metafields = append(metafields, map[string]any{
				"namespace": m.Namespace,
				"key":       m.Key,
				"value":     m.Value,
				"type":      m.Type,
			})
		}
		input["metafields"] = metafields
	}

	if len(draft.Images) > 0 {
		files := make([]map[string]any, 0, len(draft.Images))
		for _, img := range draft.Images {
			files = append(files, map[string]any{
				"originalSource": img.Src,
				"alt":            img.Alt,
				"contentType":    "IMAGE",
			})
		}
		input["files"] = files
	}

	return input
}
