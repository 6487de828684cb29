package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/stocksync/backend/internal/domain"
)

// resolutionOrder is the order scopes are searched in. Drafts are invisible
// to an active-scope search, so skipping the second pass misreports them as absent.
var resolutionOrder = []domain.Scope{domain.ScopeActive, domain.ScopeDraft}

// EntityResolver maps a SKU to the remote product holding it
type EntityResolver struct {
	gateway domain.CommerceGateway
}

// NewEntityResolver creates a resolver over gateway
func NewEntityResolver(gateway domain.CommerceGateway) *EntityResolver {
	return &EntityResolver{gateway: gateway}
}

// Resolve searches the active scope, then the draft scope. When neither
// matches it returns an entity with StatusNotFound and a nil error.
// An empty SKU is a validation failure and never reaches the remote.
func (r *EntityResolver) Resolve(ctx context.Context, sku string) (*domain.RemoteEntity, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, domain.NewValidationError(domain.ColumnSKU, "empty stock-keeping identifier")
	}

	for _, scope := range resolutionOrder {
		entity, err := r.gateway.FindProduct(ctx, sku, scope)
		if err != nil {
			return nil, fmt.Errorf("resolve %s in %s scope: %w", sku, scope, err)
		}
		if entity != nil {
			return entity, nil
		}
	}

	return &domain.RemoteEntity{SKU: sku, Status: domain.StatusNotFound}, nil
}
