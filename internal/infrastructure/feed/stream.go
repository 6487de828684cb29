// Package feed streams supplier feed rows as domain records.
package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/stocksync/backend/internal/domain"
)

const utf8BOM = "\ufeff"

// Stream is a lazy, single-pass, ordered sequence of records over one or more CSV files.
type Stream struct {
	paths    []string
	required []string
}

// NewStream creates a stream over paths. Rows missing any required column value
// are yielded with a ValidationError instead of being dropped.
func NewStream(paths []string, required []string) *Stream {
	return &Stream{paths: paths, required: required}
}

// Records yields every row of every file in order. A ValidationError marks a
// malformed row and the sequence continues; any other error ends it.
func (s *Stream) Records() iter.Seq2[domain.InputRecord, error] {
	return func(yield func(domain.InputRecord, error) bool) {
		for _, path := range s.paths {
			f, err := os.Open(path)
			if err != nil {
				yield(domain.InputRecord{Source: path}, fmt.Errorf("open feed: %w", err))
				return
			}
			more := s.readFile(path, f, yield)
			f.Close()
			if !more {
				return
			}
		}
	}
}

// readFile returns false when the caller stopped or the file could not be read.
func (s *Stream) readFile(source string, r io.Reader, yield func(domain.InputRecord, error) bool) bool {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return true
	}
	if err != nil {
		yield(domain.InputRecord{Source: source}, fmt.Errorf("read header of %s: %w", source, err))
		return false
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], utf8BOM))
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return true
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			rec := domain.InputRecord{Source: source, Line: parseErr.StartLine}
			if !yield(rec, domain.NewValidationError("", parseErr.Err.Error())) {
				return false
			}
			continue
		}
		if err != nil {
			yield(domain.InputRecord{Source: source}, fmt.Errorf("read %s: %w", source, err))
			return false
		}

		if isBlank(row) {
			continue
		}

		line, _ := reader.FieldPos(0)
		rec := domain.InputRecord{
			Source: source,
			Line:   line,
			Fields: make(map[string]string, len(header)),
		}
		for i, name := range header {
			if i < len(row) {
				rec.Fields[name] = strings.TrimSpace(row[i])
			} else {
				rec.Fields[name] = ""
			}
		}

		if !yield(rec, s.validate(rec)) {
			return false
		}
	}
}

func (s *Stream) validate(rec domain.InputRecord) error {
	for _, col := range s.required {
		if rec.Get(col) == "" {
			return domain.NewValidationError(col, "missing required value")
		}
	}
	return nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
