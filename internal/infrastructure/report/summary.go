package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/olekukonko/tablewriter"
	"github.com/stocksync/backend/internal/domain"
)

// WriteSummary writes the run summary as YAML to path
func WriteSummary(path string, summary domain.Summary) error {
	data, err := MarshalSummary(summary)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// MarshalSummary renders the summary as YAML
func MarshalSummary(summary domain.Summary) ([]byte, error) {
	data, err := yaml.MarshalWithOptions(summary, yaml.Indent(2))
	if err != nil {
		return nil, fmt.Errorf("marshaling summary: %w", err)
	}
	return data, nil
}

// PrintSummary writes a human-readable count table
func PrintSummary(w io.Writer, summary domain.Summary) error {
	rows := [][]any{
		{"run", summary.RunID},
		{"mode", string(summary.Mode)},
	}
	for _, status := range domain.OutcomeStatuses {
		rows = append(rows, []any{string(status), summary.Counts[status]})
	}
	rows = append(rows, []any{"total", summary.Total})
	if !summary.FinishedAt.IsZero() {
		rows = append(rows, []any{"elapsed", summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond).String()})
	}

	table := tablewriter.NewTable(w)
	table.Header("Summary", "Value")
	for _, row := range rows {
		if err := table.Append(row...); err != nil {
			return fmt.Errorf("render summary: %w", err)
		}
	}
	return table.Render()
}
