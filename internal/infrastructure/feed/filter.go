package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/stocksync/backend/internal/domain"
)

// FilterMode decides what membership in the filter set means
type FilterMode string

const (
	FilterInclude FilterMode = "include"
	FilterExclude FilterMode = "exclude"
)

// Filter is an order-independent set of SKUs restricting which records are processed.
// A nil Filter allows everything.
type Filter struct {
	mode FilterMode
	skus map[string]struct{}
}

// LoadFilter reads SKUs from the SKU column of a CSV file, or from its first
// column when there is no SKU header.
func LoadFilter(path string, mode FilterMode) (*Filter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open filter: %w", err)
	}
	defer f.Close()
	return ParseFilter(f, mode)
}

// ParseFilter reads a filter set from r
func ParseFilter(r io.Reader, mode FilterMode) (*Filter, error) {
	if mode != FilterInclude && mode != FilterExclude {
		return nil, fmt.Errorf("unknown filter mode %q", mode)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	filter := &Filter{mode: mode, skus: make(map[string]struct{})}

	header, err := reader.Read()
	if err == io.EOF {
		return filter, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read filter header: %w", err)
	}

	col := 0
	hasHeader := false
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(name, utf8BOM)), domain.ColumnSKU) {
			col = i
			hasHeader = true
			break
		}
	}
	if !hasHeader {
		filter.add(header, col)
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read filter: %w", err)
		}
		filter.add(row, col)
	}
	return filter, nil
}

func (f *Filter) add(row []string, col int) {
	if col >= len(row) {
		return
	}
	if sku := strings.TrimSpace(strings.TrimPrefix(row[col], utf8BOM)); sku != "" {
		f.skus[sku] = struct{}{}
	}
}

// Allows reports whether a record with this SKU should be processed
func (f *Filter) Allows(sku string) bool {
	if f == nil {
		return true
	}
	_, listed := f.skus[sku]
	if f.mode == FilterExclude {
		return !listed
	}
	return listed
}

// Len returns the number of SKUs in the set
func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.skus)
}
