package usecase

import (
	"context"
	"encoding/json"
	"iter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stocksync/backend/internal/domain"
)

type findCall struct {
	sku   string
	scope domain.Scope
}

type costCall struct {
	itemID string
	cost   decimal.Decimal
}

// MockGateway is an in-memory implementation of domain.CommerceGateway.
// Mutations are applied to the stored products so repeated runs converge.
type MockGateway struct {
	products map[domain.Scope]map[string]*domain.RemoteEntity

	findCalls   []findCall
	adjustCalls []domain.Delta
	costCalls   []costCall
	created     []domain.ProductDraft

	findErr   error
	adjustErr error
	costErr   error
	createErr error
}

func NewMockGateway() *MockGateway {
	return &MockGateway{
		products: map[domain.Scope]map[string]*domain.RemoteEntity{
			domain.ScopeActive: {},
			domain.ScopeDraft:  {},
		},
	}
}

func (m *MockGateway) add(scope domain.Scope, entity *domain.RemoteEntity) {
	m.products[scope][entity.SKU] = entity
}

func (m *MockGateway) mutations() int {
	return len(m.adjustCalls) + len(m.costCalls) + len(m.created)
}

func (m *MockGateway) FindProduct(ctx context.Context, sku string, scope domain.Scope) (*domain.RemoteEntity, error) {
	m.findCalls = append(m.findCalls, findCall{sku: sku, scope: scope})
	if m.findErr != nil {
		return nil, m.findErr
	}
	entity, ok := m.products[scope][sku]
	if !ok {
		return nil, nil
	}
	copied := *entity
	copied.Variants = append([]domain.RemoteVariant(nil), entity.Variants...)
	return &copied, nil
}

func (m *MockGateway) AdjustQuantity(ctx context.Context, delta domain.Delta) error {
	m.adjustCalls = append(m.adjustCalls, delta)
	if m.adjustErr != nil {
		return m.adjustErr
	}
	m.eachVariant(func(v *domain.RemoteVariant) {
		if v.VariantID == delta.VariantID {
			v.AvailableQuantity += delta.QuantityDelta
		}
	})
	return nil
}

func (m *MockGateway) UpdateUnitCost(ctx context.Context, itemID string, cost decimal.Decimal) error {
	m.costCalls = append(m.costCalls, costCall{itemID: itemID, cost: cost})
	if m.costErr != nil {
		return m.costErr
	}
	m.eachVariant(func(v *domain.RemoteVariant) {
		if v.InventoryItemID == itemID {
			v.UnitCost = cost
		}
	})
	return nil
}

func (m *MockGateway) CreateProduct(ctx context.Context, draft domain.ProductDraft) (string, error) {
	m.created = append(m.created, draft)
	if m.createErr != nil {
		return "", m.createErr
	}
	return "gid://shopify/Product/new", nil
}

func (m *MockGateway) eachVariant(fn func(v *domain.RemoteVariant)) {
	for _, scope := range m.products {
		for _, entity := range scope {
			for i := range entity.Variants {
				fn(&entity.Variants[i])
			}
		}
	}
}

// MockMetrics counts what it is told
type MockMetrics struct {
	outcomes  map[domain.OutcomeStatus]int
	mutations map[string]int
	failures  map[string]int
	throttles []time.Duration
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		outcomes:  map[domain.OutcomeStatus]int{},
		mutations: map[string]int{},
		failures:  map[string]int{},
	}
}

func (m *MockMetrics) RecordOutcome(status domain.OutcomeStatus) {
	m.outcomes[status]++
}

func (m *MockMetrics) RecordMutation(operation string, err error) {
	m.mutations[operation]++
	if err != nil {
		m.failures[operation]++
	}
}

func (m *MockMetrics) RecordThrottle(kind domain.OperationKind, wait time.Duration) {
	m.throttles = append(m.throttles, wait)
}

// MockReport keeps written outcomes in memory
type MockReport struct {
	written  []domain.OutcomeRecord
	writeErr error
	closed   bool
}

func (m *MockReport) WriteOutcome(outcome domain.OutcomeRecord) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written = append(m.written, outcome)
	return nil
}

func (m *MockReport) Close() error {
	m.closed = true
	return nil
}

// sliceSource replays fixed records, each paired with an optional error
type sliceSource struct {
	records []domain.InputRecord
	errs    map[int]error
}

func (s sliceSource) Records() iter.Seq2[domain.InputRecord, error] {
	return func(yield func(domain.InputRecord, error) bool) {
		for i, rec := range s.records {
			if !yield(rec, s.errs[i]) {
				return
			}
		}
	}
}

type allowList map[string]bool

func (a allowList) Allows(sku string) bool { return a[sku] }

// scriptedExecutor returns queued responses per operation name
type scriptedExecutor struct {
	responses map[string][]scriptedResponse
	calls     []domain.Operation
}

type scriptedResponse struct {
	data string
	err  error
}

func (e *scriptedExecutor) Execute(ctx context.Context, op domain.Operation) (json.RawMessage, error) {
	e.calls = append(e.calls, op)
	queue := e.responses[op.Name]
	if len(queue) == 0 {
		return nil, &domain.RemoteError{Operation: op.Name, Detail: "unexpected call"}
	}
	next := queue[0]
	if len(queue) > 1 {
		e.responses[op.Name] = queue[1:]
	}
	if next.err != nil {
		return nil, next.err
	}
	return json.RawMessage(next.data), nil
}

func (e *scriptedExecutor) count(name string) int {
	n := 0
	for _, op := range e.calls {
		if op.Name == name {
			n++
		}
	}
	return n
}

func record(line int, fields map[string]string) domain.InputRecord {
	return domain.InputRecord{Source: "feed.csv", Line: line, Fields: fields}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// entityA1 is a product with sizes S (available 1) and M (available 5) at cost 9.50
func entityA1(status domain.EntityStatus) *domain.RemoteEntity {
	return &domain.RemoteEntity{
		SKU:       "A1",
		ProductID: "p1",
		Status:    status,
		Variants: []domain.RemoteVariant{
			{VariantID: "vS", SizeLabel: "S", InventoryItemID: "iS", InventoryLevelID: "lS", LocationID: "loc", AvailableQuantity: 1, UnitCost: dec("9.50")},
			{VariantID: "vM", SizeLabel: "M", InventoryItemID: "iM", InventoryLevelID: "lM", LocationID: "loc", AvailableQuantity: 5, UnitCost: dec("9.50")},
		},
	}
}
