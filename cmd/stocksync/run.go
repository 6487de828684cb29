package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/stocksync/backend/config"
	httpDelivery "github.com/stocksync/backend/internal/delivery/http"
	"github.com/stocksync/backend/internal/domain"
	"github.com/stocksync/backend/internal/infrastructure/feed"
	"github.com/stocksync/backend/internal/infrastructure/metrics"
	"github.com/stocksync/backend/internal/infrastructure/report"
	"github.com/stocksync/backend/internal/infrastructure/shopify"
	"github.com/stocksync/backend/internal/logging"
	"github.com/stocksync/backend/internal/usecase"
)

// run loads configuration, wires one reconciliation run and executes it
func run(ctx context.Context, mode domain.Mode, flags *pflag.FlagSet, stdout io.Writer) error {
	cfg, err := config.Load(mode, flags)
	if err != nil {
		return err
	}

	logger := logging.Configure(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	ctx = logging.WithLogger(ctx, &logger)

	runID := uuid.NewString()
	logger.Info().
		Str("version", version).
		Str("run_id", runID).
		Str("mode", string(mode)).
		Strs("inputs", cfg.Input.Paths).
		Msg("starting stocksync")

	var filter usecase.RecordFilter
	if cfg.Input.FilterPath != "" {
		f, err := feed.LoadFilter(cfg.Input.FilterPath, feed.FilterMode(cfg.Input.FilterMode))
		if err != nil {
			return err
		}
		logger.Info().Str("path", cfg.Input.FilterPath).Str("filter_mode", cfg.Input.FilterMode).Int("skus", f.Len()).Msg("sku filter loaded")
		filter = f
	}

	endpoint := cfg.Shop.Endpoint
	if endpoint == "" {
		endpoint = shopify.Endpoint(cfg.Shop.Name, cfg.Shop.APIVersion)
	}

	recorder := metrics.NewRecorder()
	client := shopify.NewClient(endpoint, cfg.Shop.AccessToken, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	executor := usecase.NewThrottledExecutor(client, usecase.BackoffConfig{
		Create:   cfg.Backoff.Create,
		Mutation: cfg.Backoff.Mutation,
	}, recorder)
	gateway := shopify.NewGateway(executor, cfg.Shop.LocationID)

	dispatcher := usecase.NewMutationDispatcher(gateway, recorder)
	strategy, err := usecase.NewStrategy(mode, usecase.NewDeltaCalculator(usecase.DefaultCostTolerance), usecase.NewProductBuilder(), dispatcher)
	if err != nil {
		return err
	}
	aggregator := usecase.NewOutcomeAggregator(runID, mode, time.Now())

	var sink domain.ReportWriter
	if cfg.Output.Path != "" {
		w, err := report.NewCSVWriter(cfg.Output.Path)
		if err != nil {
			return err
		}
		defer func() {
			if err := w.Close(); err != nil {
				logger.Error().Err(err).Str("path", cfg.Output.Path).Msg("failed to close report")
			}
		}()
		sink = w
	}

	if cfg.Server.StatusAddr != "" {
		statusLogger := logger.With().Str("run_id", runID).Str("component", "status").Logger()
		router := httpDelivery.SetupRouter(cfg, httpDelivery.NewHandler(aggregator, version), recorder.Handler(), &statusLogger)
		srv := httpDelivery.NewServer(cfg.Server.StatusAddr, router)
		if _, err := srv.Start(ctx); err != nil {
			return fmt.Errorf("start status server: %w", err)
		}
		defer srv.Shutdown()
	}

	driver := usecase.NewDriver(usecase.DriverOptions{
		Source:     feed.NewStream(cfg.Input.Paths, mode.RequiredColumns()),
		Filter:     filter,
		Resolver:   usecase.NewEntityResolver(gateway),
		Dispatcher: dispatcher,
		Strategy:   strategy,
		Aggregator: aggregator,
		Report:     sink,
		Metrics:    recorder,
	})

	summary, runErr := driver.Run(ctx)

	if err := report.PrintSummary(stdout, summary); err != nil {
		logger.Warn().Err(err).Msg("failed to print summary")
	}
	if cfg.Output.SummaryPath != "" {
		if err := report.WriteSummary(cfg.Output.SummaryPath, summary); err != nil {
			logger.Error().Err(err).Str("path", cfg.Output.SummaryPath).Msg("failed to write summary")
			if runErr == nil {
				runErr = err
			}
		}
	}
	if attention := len(aggregator.Attention()); attention > 0 && sink == nil {
		logger.Warn().Int("records", attention).Msg("records need attention, set --output to keep a report")
	}

	return runErr
}
