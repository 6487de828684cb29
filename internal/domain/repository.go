package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Executor runs one remote operation and returns the raw response data.
// Implementations fail with ThrottledError, RemoteError or TransportError.
type Executor interface {
	Execute(ctx context.Context, op Operation) (json.RawMessage, error)
}

// CommerceGateway defines the typed queries and mutations the reconciler issues
type CommerceGateway interface {
	// FindProduct returns nil, nil when the scope has no product for the SKU
	FindProduct(ctx context.Context, sku string, scope Scope) (*RemoteEntity, error)
	AdjustQuantity(ctx context.Context, delta Delta) error
	UpdateUnitCost(ctx context.Context, inventoryItemID string, cost decimal.Decimal) error
	CreateProduct(ctx context.Context, draft ProductDraft) (string, error)
}

// MetricsRecorder receives run counters. All methods must be cheap and non-blocking.
type MetricsRecorder interface {
	RecordOutcome(status OutcomeStatus)
	RecordMutation(operation string, err error)
	RecordThrottle(kind OperationKind, wait time.Duration)
}

// ReportWriter persists the outcomes that need attention
type ReportWriter interface {
	WriteOutcome(outcome OutcomeRecord) error
	Close() error
}
