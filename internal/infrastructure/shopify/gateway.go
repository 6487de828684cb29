// Package shopify implements the remote commerce boundary over the Shopify Admin GraphQL API.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stocksync/backend/internal/domain"
)

// Operation names, used in logs, metrics and error messages
const (
	OpProductBySKU   = "productBySku"
	OpAdjustQuantity = "inventoryAdjustQuantities"
	OpUpdateUnitCost = "inventoryItemUpdate"
	OpCreateProduct  = "productSet"
	adjustmentReason = "correction"
)

// Gateway issues typed queries and mutations through an Executor.
type Gateway struct {
	exec       domain.Executor
	locationID string
}

// NewGateway creates a gateway. locationID is only used to seed stock on product creation.
func NewGateway(exec domain.Executor, locationID string) *Gateway {
	return &Gateway{exec: exec, locationID: locationID}
}

// FindProduct looks up the product carrying sku in one publication scope
func (g *Gateway) FindProduct(ctx context.Context, sku string, scope domain.Scope) (*domain.RemoteEntity, error) {
	op := domain.Operation{
		Kind:      domain.OperationQuery,
		Name:      OpProductBySKU,
		Document:  productBySKUQuery,
		Variables: map[string]any{"query": searchQuery(sku, scope)},
	}

	data, err := g.exec.Execute(ctx, op)
	if err != nil {
		return nil, err
	}

	var resp productsData
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &domain.RemoteError{Operation: op.Name, Detail: fmt.Sprintf("unexpected response: %v", err)}
	}
	if len(resp.Products.Edges) == 0 {
		return nil, nil
	}
	return MapToRemoteEntity(sku, scope, resp.Products.Edges[0].Node), nil
}

// AdjustQuantity applies a signed change to the variant's available quantity
func (g *Gateway) AdjustQuantity(ctx context.Context, delta domain.Delta) error {
	if delta.InventoryItemID == "" || delta.LocationID == "" {
		return &domain.RemoteError{
			Operation: OpAdjustQuantity,
			Detail:    fmt.Sprintf("variant %s has no inventory level to adjust", delta.VariantID),
		}
	}

	op := domain.Operation{
		Kind:     domain.OperationMutation,
		Name:     OpAdjustQuantity,
		Document: inventoryAdjustMutation,
		Variables: map[string]any{
			"input": map[string]any{
				"reason": adjustmentReason,
				"name":   availableQuantityName,
				"changes": []map[string]any{{
					"delta":           delta.QuantityDelta,
					"inventoryItemId": delta.InventoryItemID,
					"locationId":      delta.LocationID,
				}},
			},
		},
	}

	data, err := g.exec.Execute(ctx, op)
	if err != nil {
		return err
	}

	var resp adjustData
	if err := json.Unmarshal(data, &resp); err != nil {
		return &domain.RemoteError{Operation: op.Name, Detail: fmt.Sprintf("unexpected response: %v", err)}
	}
	return userErrors(op.Name, resp.InventoryAdjustQuantities.UserErrors)
}

// UpdateUnitCost sets the unit cost of an inventory item
func (g *Gateway) UpdateUnitCost(ctx context.Context, inventoryItemID string, cost decimal.Decimal) error {
	op := domain.Operation{
		Kind:     domain.OperationMutation,
		Name:     OpUpdateUnitCost,
		Document: inventoryItemUpdateMutation,
		Variables: map[string]any{
			"id":    inventoryItemID,
			"input": map[string]any{"cost": cost.StringFixed(2)},
		},
	}

	data, err := g.exec.Execute(ctx, op)
	if err != nil {
		return err
	}

	var resp itemUpdateData
	if err := json.Unmarshal(data, &resp); err != nil {
		return &domain.RemoteError{Operation: op.Name, Detail: fmt.Sprintf("unexpected response: %v", err)}
	}
	return userErrors(op.Name, resp.InventoryItemUpdate.UserErrors)
}

// CreateProduct creates a draft product and returns its id
func (g *Gateway) CreateProduct(ctx context.Context, draft domain.ProductDraft) (string, error) {
	op := domain.Operation{
		Kind:     domain.OperationCreate,
		Name:     OpCreateProduct,
		Document: productSetMutation,
		Variables: map[string]any{
			"synchronous": true,
			"input":       buildProductSetInput(draft, g.locationID),
		},
	}

	data, err := g.exec.Execute(ctx, op)
	if err != nil {
		return "", err
	}

	var resp productSetData
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", &domain.RemoteError{Operation: op.Name, Detail: fmt.Sprintf("unexpected response: %v", err)}
	}
	if err := userErrors(op.Name, resp.ProductSet.UserErrors); err != nil {
		return "", err
	}
	if resp.ProductSet.Product == nil {
		return "", &domain.RemoteError{Operation: op.Name, Detail: "no product returned"}
	}
	return resp.ProductSet.Product.ID, nil
}

func userErrors(operation string, errs []domain.UserError) error {
	if len(errs) == 0 {
		return nil
	}
	return &domain.RemoteValidationError{Operation: operation, UserErrors: errs}
}
