// Package report persists run results: the attention list and the run summary.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/stocksync/backend/internal/domain"
)

// Header is the first row of the attention list. SKU comes first so the file
// can be fed back as a filter file.
var Header = []string{"SKU", "Status", "Line", "Detail"}

// CSVWriter appends outcomes to a CSV file, flushing after every row so an
// interrupted run keeps what it wrote.
type CSVWriter struct {
	mu     sync.Mutex
	w      *csv.Writer
	closer io.Closer
}

// NewCSVWriter creates (or truncates) path and writes the header
func NewCSVWriter(path string) (*CSVWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create report directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	w, err := newCSVWriter(f, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// NewCSVWriterTo writes the attention list to w. Closing it does not close w.
func NewCSVWriterTo(w io.Writer) (*CSVWriter, error) {
	return newCSVWriter(w, nil)
}

func newCSVWriter(w io.Writer, closer io.Closer) (*CSVWriter, error) {
	cw := &CSVWriter{w: csv.NewWriter(w), closer: closer}
	if err := cw.write(Header); err != nil {
		return nil, fmt.Errorf("write report header: %w", err)
	}
	return cw, nil
}

// WriteOutcome appends one outcome row
func (c *CSVWriter) WriteOutcome(outcome domain.OutcomeRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.write([]string{
		outcome.SKU,
		string(outcome.Status),
		strconv.Itoa(outcome.Line),
		outcome.Detail,
	})
}

// Close flushes pending rows and closes the underlying file
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.w.Flush()
	err := c.w.Error()
	if c.closer != nil {
		if cerr := c.closer.Close(); err == nil {
			err = cerr
		}
		c.closer = nil
	}
	return err
}

func (c *CSVWriter) write(row []string) error {
	if err := c.w.Write(row); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}
