package metrics

import (
	coremetrics "github.com/enertrack/meterd/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records query and load events in Prometheus metrics.
type PromSink struct {
	queries   *prometheus.CounterVec
	returned  prometheus.Counter
	latency   *prometheus.HistogramVec
	loaded    prometheus.Gauge
	skipped   prometheus.Gauge
	undatable prometheus.Gauge
}

// NewPromSink registers consumption metrics on the provided Prometheus
// registerer. If reg is nil, the default registerer is used. If the
// collectors are already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "consumption_queries_total",
		Help: "Total number of consumption queries by outcome",
	}, []string{"outcome"})
	returned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "consumption_records_returned_total",
		Help: "Total number of records returned to callers",
	})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "consumption_query_duration_seconds",
		Help:    "Time spent evaluating a consumption query",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	loaded := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "consumption_records_loaded",
		Help: "Number of records held by the store after load",
	})
	skipped := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "consumption_rows_skipped",
		Help: "Number of source rows dropped during load",
	})
	undatable := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "consumption_records_unparsable_datetime",
		Help: "Number of stored records without a parsed timestamp",
	})

	sink := &PromSink{queries: queries, returned: returned, latency: latency, loaded: loaded, skipped: skipped, undatable: undatable}
	if err := register(reg, &sink.queries); err != nil {
		return nil, err
	}
	if err := register(reg, &sink.latency); err != nil {
		return nil, err
	}
	if err := register(reg, &sink.returned); err != nil {
		return nil, err
	}
	if err := register(reg, &sink.loaded); err != nil {
		return nil, err
	}
	if err := register(reg, &sink.skipped); err != nil {
		return nil, err
	}
	if err := register(reg, &sink.undatable); err != nil {
		return nil, err
	}
	return sink, nil
}

// register registers *collector, swapping in the already-registered
// collector when one exists.
func register[C prometheus.Collector](reg prometheus.Registerer, collector *C) error {
	if err := reg.Register(*collector); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return err
		}
		existing, ok := are.ExistingCollector.(C)
		if !ok {
			return err
		}
		*collector = existing
	}
	return nil
}

// RecordQuery increments the per-outcome counters and latency histogram.
func (s *PromSink) RecordQuery(ev coremetrics.QueryEvent) error {
	s.queries.WithLabelValues(ev.Outcome).Inc()
	s.latency.WithLabelValues(ev.Outcome).Observe(ev.Duration.Seconds())
	if ev.Records > 0 {
		s.returned.Add(float64(ev.Records))
	}
	return nil
}

// RecordLoad sets the store gauges after the one-time load.
func (s *PromSink) RecordLoad(ev coremetrics.LoadEvent) error {
	s.loaded.Set(float64(ev.RowsLoaded))
	s.skipped.Set(float64(ev.RowsSkipped))
	s.undatable.Set(float64(ev.Unparsable))
	return nil
}
