package query

import (
	"time"

	"github.com/enertrack/meterd/core/logger"
	"github.com/enertrack/meterd/core/metrics"
	"github.com/enertrack/meterd/core/store"
)

// Service validates caller-supplied bounds and evaluates range queries
// against the record store. It is stateless and safe for concurrent use.
type Service struct {
	store *store.Store
	log   logger.Logger
	sink  metrics.Sink
}

// New creates a query Service over the given store. A nil sink disables
// metric recording.
func New(st *store.Store, log logger.Logger, sink metrics.Sink) *Service {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Service{store: st, log: log, sink: sink}
}

// ParseBound parses an optional query bound. An empty string means "no
// bound". The parameter name is carried into the error for reporting.
func ParseBound(param, value string) (*time.Time, *Error) {
	if value == "" {
		return nil, nil
	}
	t, err := store.ParseTimestamp(value)
	if err != nil {
		return nil, InvalidArgumentf(param, "invalid %s: %q is not an ISO-8601 datetime", param, value)
	}
	return &t, nil
}

// ValidateBounds checks a pair of optional bound strings without evaluating
// a query: both must parse and the resulting range must not be inverted.
func ValidateBounds(startStr, endStr string) *Error {
	start, qerr := ParseBound("start_datetime", startStr)
	if qerr != nil {
		return qerr
	}
	end, qerr := ParseBound("end_datetime", endStr)
	if qerr != nil {
		return qerr
	}
	if start != nil && end != nil && start.After(*end) {
		return InvalidArgumentf("start_datetime", "start_datetime must not be after end_datetime")
	}
	return nil
}

// Query returns the records whose timestamp falls within the inclusive
// range described by the two optional ISO-8601 bound strings, in store
// order. Malformed bounds and inverted ranges yield an InvalidArgument
// *Error.
func (s *Service) Query(startStr, endStr string) ([]store.Record, error) {
	began := time.Now()
	records, qerr := s.eval(startStr, endStr)
	if qerr != nil {
		s.record(metrics.QueryEvent{Outcome: qerr.Kind.String(), Duration: time.Since(began), Time: began})
		s.log.Warnf("rejected query: %s", qerr.Message)
		return nil, qerr
	}
	s.record(metrics.QueryEvent{Outcome: "ok", Records: len(records), Duration: time.Since(began), Time: began})
	s.log.Debugf("query returned %d records", len(records))
	return records, nil
}

func (s *Service) eval(startStr, endStr string) ([]store.Record, *Error) {
	start, qerr := ParseBound("start_datetime", startStr)
	if qerr != nil {
		return nil, qerr
	}
	end, qerr := ParseBound("end_datetime", endStr)
	if qerr != nil {
		return nil, qerr
	}
	if start != nil && end != nil && start.After(*end) {
		return nil, InvalidArgumentf("start_datetime", "start_datetime must not be after end_datetime")
	}
	return s.store.Filter(start, end), nil
}

func (s *Service) record(ev metrics.QueryEvent) {
	if err := s.sink.RecordQuery(ev); err != nil {
		s.log.Errorf("record query metric: %v", err)
	}
}
