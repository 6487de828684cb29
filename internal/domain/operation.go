package domain

// OperationKind classifies a remote call. It picks the default throttle backoff.
type OperationKind string

const (
	OperationQuery    OperationKind = "query"
	OperationMutation OperationKind = "mutation"
	OperationCreate   OperationKind = "create"
)

// Operation is a single remote query or mutation. Re-issuing the same value
// re-issues the identical request.
type Operation struct {
	Kind      OperationKind
	Name      string
	Document  string
	Variables map[string]any
}
