package usecase

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/stocksync/backend/internal/domain"
	"github.com/stocksync/backend/internal/logging"
)

// RecordSource yields feed records in source order
type RecordSource interface {
	Records() iter.Seq2[domain.InputRecord, error]
}

// RecordFilter restricts which SKUs a run processes
type RecordFilter interface {
	Allows(sku string) bool
}

// DriverOptions holds the collaborators of a run
type DriverOptions struct {
	Source     RecordSource
	Filter     RecordFilter
	Resolver   *EntityResolver
	Dispatcher *MutationDispatcher
	Strategy   Strategy
	Aggregator *OutcomeAggregator
	Report     domain.ReportWriter
	Metrics    domain.MetricsRecorder
}

// Driver reconciles records one at a time, in source order.
// One record's failure never stops the run.
type Driver struct {
	source     RecordSource
	filter     RecordFilter
	resolver   *EntityResolver
	dispatcher *MutationDispatcher
	strategy   Strategy
	aggregator *OutcomeAggregator
	report     domain.ReportWriter
	metrics    domain.MetricsRecorder
	now        func() time.Time
}

// NewDriver creates a driver
func NewDriver(opts DriverOptions) *Driver {
	metrics := opts.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &Driver{
		source:     opts.Source,
		filter:     opts.Filter,
		resolver:   opts.Resolver,
		dispatcher: opts.Dispatcher,
		strategy:   opts.Strategy,
		aggregator: opts.Aggregator,
		report:     opts.Report,
		metrics:    metrics,
		now:        time.Now,
	}
}

// Run reconciles every record of the source. It returns the run summary and
// a non-nil error only when the feed could not be read, the report could not
// be written, or ctx was cancelled. Cancellation takes effect between records.
func (d *Driver) Run(ctx context.Context) (domain.Summary, error) {
	summary := d.aggregator.Summary()
	ctx = logging.WithFields(ctx, "run_id", summary.RunID, "mode", string(d.strategy.Mode()))
	logger := logging.FromContext(ctx)

	logger.Info().Msg("reconciliation started")

	var runErr error
	for rec, err := range d.source.Records() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			runErr = ctxErr
			break
		}
		if err != nil && !errors.Is(err, domain.ErrInvalidRecord) {
			runErr = fmt.Errorf("read feed: %w", err)
			break
		}
		if sku := rec.SKU(); sku != "" && d.filter != nil && !d.filter.Allows(sku) {
			continue
		}

		var outcome domain.OutcomeRecord
		if err != nil {
			outcome = domain.OutcomeRecord{SKU: rec.SKU(), Line: rec.Line, Status: domain.OutcomeInvalid, Detail: err.Error()}
		} else {
			outcome = d.reconcile(ctx, rec)
			if ctxErr := ctx.Err(); ctxErr != nil {
				logger.Warn().Str("sku", rec.SKU()).Msg("interrupted, record left for the next run")
				runErr = ctxErr
				break
			}
		}

		if err := d.record(ctx, outcome); err != nil {
			runErr = err
			break
		}
	}

	d.aggregator.Finish(d.now())
	summary = d.aggregator.Summary()

	event := logger.Info()
	if runErr != nil {
		event = logger.Error().Err(runErr)
	}
	for _, status := range domain.OutcomeStatuses {
		event = event.Int(string(status), summary.Counts[status])
	}
	event.Int("total", summary.Total).
		Dur("elapsed", summary.FinishedAt.Sub(summary.StartedAt)).
		Msg("reconciliation finished")

	return summary, runErr
}

// reconcile walks one record through validation, resolution, delta
// computation and dispatch
func (d *Driver) reconcile(ctx context.Context, rec domain.InputRecord) domain.OutcomeRecord {
	sku := rec.SKU()
	logger := logging.FromContext(ctx).With().Str("sku", sku).Int("line", rec.Line).Logger()
	ctx = logging.WithLogger(ctx, &logger)

	outcome := domain.OutcomeRecord{SKU: sku, Line: rec.Line}
	finish := func(status domain.OutcomeStatus, detail string, err error) domain.OutcomeRecord {
		outcome.Status = status
		outcome.Detail = detail
		if err != nil {
			outcome.Status = classify(status, err)
			outcome.Detail = err.Error()
		}
		return outcome
	}

	if err := d.strategy.Prepare(rec); err != nil {
		var skip *SkipError
		if errors.As(err, &skip) {
			return finish(domain.OutcomeSkipped, skip.Reason, nil)
		}
		return finish(domain.OutcomeInvalid, "", err)
	}

	entity, err := d.resolver.Resolve(ctx, sku)
	if err != nil {
		return finish(domain.OutcomeFailed, "", err)
	}
	if !entity.Found() {
		status, detail, err := d.strategy.Missing(ctx, rec)
		return finish(status, detail, err)
	}
	logger.Debug().
		Str("status", string(entity.Status)).
		Str("product_id", entity.ProductID).
		Int("variants", len(entity.Variants)).
		Msg("resolved")

	deltas, unmatched, err := d.strategy.Deltas(rec, entity)
	if err != nil {
		return finish(domain.OutcomeInvalid, "", err)
	}
	for _, size := range unmatched {
		logger.Warn().Str("size", size).Msg("size not carried by remote product, skipped")
	}

	pending := deltas[:0:0]
	for _, delta := range deltas {
		if !delta.IsNoOp() {
			pending = append(pending, delta)
		}
	}
	if len(pending) == 0 {
		return finish(domain.OutcomeSkipped, inSyncDetail(entity, unmatched), nil)
	}

	results := d.dispatcher.ApplyAll(ctx, pending)
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	// Dispatch errors are never record errors, whatever they wrap
	if len(errs) > 0 {
		return finish(domain.OutcomeFailed, failedDetail(results, errors.Join(errs...)), nil)
	}
	return finish(domain.OutcomeUpdated, appliedDetail(results), nil)
}

func (d *Driver) record(ctx context.Context, outcome domain.OutcomeRecord) error {
	d.aggregator.Record(outcome)
	d.metrics.RecordOutcome(outcome.Status)

	logger := logging.FromContext(ctx)
	event := logger.Info()
	if outcome.Status.NeedsAttention() {
		event = logger.Warn()
	}
	event.Str("sku", outcome.SKU).
		Int("line", outcome.Line).
		Str("status", string(outcome.Status)).
		Str("detail", outcome.Detail).
		Msg("record reconciled")

	if d.report == nil || !outcome.Status.NeedsAttention() {
		return nil
	}
	if err := d.report.WriteOutcome(outcome); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// classify maps an error onto the outcome status it implies
func classify(fallback domain.OutcomeStatus, err error) domain.OutcomeStatus {
	switch {
	case errors.Is(err, domain.ErrInvalidRecord):
		return domain.OutcomeInvalid
	case errors.Is(err, domain.ErrNotFound):
		return domain.OutcomeNotFound
	case fallback == domain.OutcomeInvalid:
		return fallback
	}
	return domain.OutcomeFailed
}

func inSyncDetail(entity *domain.RemoteEntity, unmatched []string) string {
	detail := fmt.Sprintf("in sync, %s product", entity.Status)
	if len(unmatched) > 0 {
		detail += ", unmatched sizes: " + strings.Join(unmatched, ",")
	}
	return detail
}

// failedDetail says what reached the remote before the failure, so a re-run
// is expected to apply only the remainder
func failedDetail(results []domain.DispatchResult, err error) string {
	for _, r := range results {
		if r.Status == domain.DispatchApplied || r.Status == domain.DispatchPartial {
			return "partially applied (" + appliedDetail(results) + "): " + err.Error()
		}
	}
	return err.Error()
}

func appliedDetail(results []domain.DispatchResult) string {
	quantities, costs := 0, 0
	for _, r := range results {
		if r.QuantityApplied {
			quantities++
		}
		if r.CostApplied {
			costs++
		}
	}
	return fmt.Sprintf("%d quantity adjustment(s), %d cost update(s)", quantities, costs)
}
