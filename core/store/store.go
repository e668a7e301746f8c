package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/enertrack/meterd/core/logger"
)

// Column names expected in the source file header.
const (
	datetimeColumn = "DateTime"
	usageColumn    = "EnergyUsage"
)

// LoadStats summarizes a completed load.
type LoadStats struct {
	RowsLoaded  int
	RowsSkipped int
	Unparsable  int
}

// Store is an immutable, insertion-ordered sequence of consumption records.
// It is built once at startup and is safe for concurrent readers.
type Store struct {
	records []Record
	stats   LoadStats
}

// New builds a Store from already-assembled records, preserving their order.
func New(records []Record) *Store {
	st := &Store{records: records}
	for _, r := range records {
		st.stats.RowsLoaded++
		if r.Parsed == nil {
			st.stats.Unparsable++
		}
	}
	return st
}

// Load reads consumption records from the CSV file at path. Rows with an
// unparsable usage value are dropped with a warning; rows with an unparsable
// datetime are kept with a nil parsed timestamp. An unreadable file or a
// header missing a required column fails the load.
func Load(path string, log logger.Logger) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening source file: %w", err)
	}
	defer f.Close()
	st, err := Read(f, log)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return st, nil
}

// Read parses CSV records from r. See Load for row-level semantics.
func Read(r io.Reader, log logger.Logger) (*Store, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	dtIdx, usageIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case datetimeColumn:
			dtIdx = i
		case usageColumn:
			usageIdx = i
		}
	}
	if dtIdx < 0 || usageIdx < 0 {
		return nil, fmt.Errorf("header missing %s or %s column", datetimeColumn, usageColumn)
	}

	st := &Store{}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", line, err)
		}
		if dtIdx >= len(row) || usageIdx >= len(row) {
			st.stats.RowsSkipped++
			log.Warnf("skipping row %d: missing fields: %v", line, row)
			continue
		}
		usage, err := strconv.ParseFloat(strings.TrimSpace(row[usageIdx]), 64)
		if err != nil || math.IsNaN(usage) || math.IsInf(usage, 0) {
			st.stats.RowsSkipped++
			log.Warnf("skipping row %d: invalid energy usage %q", line, row[usageIdx])
			continue
		}
		rec := Record{Datetime: row[dtIdx], EnergyUsage: usage}
		if t, err := ParseTimestamp(row[dtIdx]); err != nil {
			st.stats.Unparsable++
			log.Warnf("invalid datetime format %q on row %d, record kept without timestamp", row[dtIdx], line)
		} else {
			rec.Parsed = &t
		}
		st.records = append(st.records, rec)
		st.stats.RowsLoaded++
	}
	return st, nil
}

// Len reports the number of stored records.
func (s *Store) Len() int { return len(s.records) }

// Stats reports load-time counters.
func (s *Store) Stats() LoadStats { return s.stats }

// Records returns the stored records in source order. The returned slice
// must not be mutated.
func (s *Store) Records() []Record { return s.records }

// Filter returns, in store order, the records whose parsed timestamp falls
// within the inclusive [start, end] range. A nil bound leaves that side
// unbounded. Records without a parsed timestamp never match.
func (s *Store) Filter(start, end *time.Time) []Record {
	var out []Record
	for _, r := range s.records {
		if r.Parsed == nil {
			continue
		}
		if start != nil && r.Parsed.Before(*start) {
			continue
		}
		if end != nil && r.Parsed.After(*end) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Coverage reports the earliest and latest parsed timestamps in the store,
// or nils when no record carries one.
func (s *Store) Coverage() (first, last *time.Time) {
	for i := range s.records {
		t := s.records[i].Parsed
		if t == nil {
			continue
		}
		if first == nil || t.Before(*first) {
			first = t
		}
		if last == nil || t.After(*last) {
			last = t
		}
	}
	return first, last
}
