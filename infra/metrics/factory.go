package metrics

import (
	"fmt"

	"github.com/enertrack/meterd/core/logger"
	coremetrics "github.com/enertrack/meterd/core/metrics"
)

// FromConfig assembles the configured metric sinks. With no sink enabled a
// NopSink is returned.
func FromConfig(cfg coremetrics.Config, log logger.Logger) (coremetrics.Sink, error) {
	var sinks []coremetrics.Sink
	if cfg.PrometheusEnabled {
		sink, err := NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, NewInfluxSinkWithFallback(cfg, log))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return NewMultiSink(sinks...), nil
	}
}
