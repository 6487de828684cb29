package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/stocksync/backend/internal/domain"
	"github.com/stocksync/backend/internal/logging"
)

// BackoffConfig holds the waits used when a throttle signal carries no hint
type BackoffConfig struct {
	Create   time.Duration
	Mutation time.Duration
}

// DefaultBackoff returns the stock backoff durations
func DefaultBackoff() BackoffConfig {
	return BackoffConfig{
		Create:   4 * time.Second,
		Mutation: 2 * time.Second,
	}
}

// For returns the default wait for an operation kind. Queries share the mutation default.
func (b BackoffConfig) For(kind domain.OperationKind) time.Duration {
	if kind == domain.OperationCreate {
		return b.Create
	}
	return b.Mutation
}

// sleepFunc waits for d or until ctx is done
type sleepFunc func(ctx context.Context, d time.Duration) error

// ThrottledExecutor absorbs throttle signals from the wrapped executor by
// waiting and re-issuing the identical operation. Attempts are unbounded and
// strictly serial. Every other error is returned as-is.
type ThrottledExecutor struct {
	next    domain.Executor
	backoff BackoffConfig
	metrics domain.MetricsRecorder
	sleep   sleepFunc
}

// NewThrottledExecutor wraps next. Zero backoff durations fall back to the defaults.
func NewThrottledExecutor(next domain.Executor, backoff BackoffConfig, metrics domain.MetricsRecorder) *ThrottledExecutor {
	defaults := DefaultBackoff()
	if backoff.Create <= 0 {
		backoff.Create = defaults.Create
	}
	if backoff.Mutation <= 0 {
		backoff.Mutation = defaults.Mutation
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &ThrottledExecutor{
		next:    next,
		backoff: backoff,
		metrics: metrics,
		sleep:   sleepContext,
	}
}

// Execute runs op until it completes without a throttle signal
func (e *ThrottledExecutor) Execute(ctx context.Context, op domain.Operation) (json.RawMessage, error) {
	logger := logging.FromContext(ctx)

	for attempt := 1; ; attempt++ {
		data, err := e.next.Execute(ctx, op)

		var throttled *domain.ThrottledError
		if !errors.As(err, &throttled) {
			return data, err
		}

		wait := throttled.RetryAfter
		if wait <= 0 {
			wait = e.backoff.For(op.Kind)
		}

		logger.Warn().
			Str("operation", op.Name).
			Str("kind", string(op.Kind)).
			Int("attempt", attempt).
			Dur("retry_after", wait).
			Msg("throttled, waiting before retry")
		e.metrics.RecordThrottle(op.Kind, wait)

		if err := e.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type noopMetrics struct{}

func (noopMetrics) RecordOutcome(domain.OutcomeStatus) {}
func (noopMetrics) RecordMutation(string, error) {}
func (noopMetrics) RecordThrottle(domain.OperationKind, time.Duration) {}
