package metrics

import "time"

// QueryEvent describes one evaluated consumption query.
type QueryEvent struct {
	// Outcome is "ok", "invalid_argument" or "internal".
	Outcome  string
	Records  int
	Duration time.Duration
	Time     time.Time
}

// LoadEvent describes the one-time record store load.
type LoadEvent struct {
	RowsLoaded  int
	RowsSkipped int
	Unparsable  int
	Duration    time.Duration
	Time        time.Time
}

// Sink records query and load events for observability purposes.
type Sink interface {
	RecordQuery(ev QueryEvent) error
	RecordLoad(ev LoadEvent) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordQuery(QueryEvent) error { return nil }
func (NopSink) RecordLoad(LoadEvent) error   { return nil }
