package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/stocksync/backend/internal/domain"
)

// newRootCommand creates the root command with one subcommand per mode
func newRootCommand(stdout io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "stocksync",
		Short:   "Reconcile a CSV inventory feed against a Shopify store",
		Version: version,
		Long: `stocksync reads one or more CSV feeds and brings the store in line with them,
one record at a time. Records that could not be reconciled are written to the
output report so they can be fixed and the run repeated.

Settings come from flags, STOCKSYNC_* environment variables (also read from
.env and .env.local) and an optional stocksync.yaml, in that order.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: applyVerbose,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is ./stocksync.yaml)")
	flags.String("shop", "", "store name, as in <shop>.myshopify.com")
	flags.String("token", "", "admin API access token")
	flags.String("api-version", "", "admin API version (default 2024-07)")
	flags.String("endpoint", "", "GraphQL endpoint, overrides --shop and --api-version")
	flags.String("location", "", "stock location id for created products")
	flags.StringSliceP("input", "i", nil, "input CSV file(s), processed in order")
	flags.String("filter", "", "CSV file of SKUs restricting which records are processed")
	flags.String("filter-mode", "", "include or exclude the SKUs in --filter (default include)")
	flags.StringP("output", "o", "", "CSV report of records that need attention")
	flags.String("summary", "", "write the run summary as YAML to this file")
	flags.Duration("backoff-create", 0, "throttle wait for product creation when no hint is given (default 4s)")
	flags.Duration("backoff-mutation", 0, "throttle wait for other requests when no hint is given (default 2s)")
	flags.Float64("rps", 0, "client-side request rate limit (default 2)")
	flags.Int("burst", 0, "client-side request burst (default 4)")
	flags.String("status-addr", "", "serve run status and metrics on this address")
	flags.String("log-level", "", "log level: debug, info, warn, error (default info)")
	flags.String("log-format", "", "log format: auto, console, json (default auto)")
	flags.BoolP("verbose", "v", false, "shortcut for --log-level=debug")

	rootCmd.AddCommand(
		newModeCommand(domain.ModeUpdate, stdout,
			"reconcile", "Set quantities and unit costs from the feed",
			"Sets every listed size to the feed quantity and the unit cost to the cost of\nthe first listed size. Requires the SKU, Size, Qty and Unit Cost columns.",
			"update"),
		newModeCommand(domain.ModeZero, stdout,
			"zero", "Zero the inventory of every listed product",
			"Adjusts every variant of each listed product down to zero available."),
		newModeCommand(domain.ModeCheck, stdout,
			"check", "Report SKUs missing from the store",
			"Only resolves each SKU. SKUs absent from both the active and draft scopes\nare written to the output report."),
		newModeCommand(domain.ModeCreate, stdout,
			"create", "Create draft products for missing SKUs",
			"Creates a draft product for every SKU absent from both scopes. Records\nmarked OUT OF STOCK are skipped. Use --filter to restrict creation to the\nSKUs reported by a previous check run."),
	)

	return rootCmd
}

// newModeCommand creates the subcommand running one reconciliation mode
func newModeCommand(mode domain.Mode, stdout io.Writer, use, short, long string, aliases ...string) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Short:   short,
		Long:    long,
		Aliases: aliases,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), mode, cmd.Flags(), stdout)
		},
	}
}

// applyVerbose turns --verbose into --log-level=debug unless a level was given
func applyVerbose(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	verbose, err := flags.GetBool("verbose")
	if err != nil || !verbose || flags.Changed("log-level") {
		return nil
	}
	return flags.Set("log-level", "debug")
}
