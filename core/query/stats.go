package query

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// UsageStats aggregates the energy usage of a filtered record set.
type UsageStats struct {
	Count    int     `json:"count"`
	TotalKWh float64 `json:"total_kwh"`
	MeanKWh  float64 `json:"mean_kwh"`
	StdDev   float64 `json:"std_dev_kwh"`
	MinKWh   float64 `json:"min_kwh"`
	MaxKWh   float64 `json:"max_kwh"`
}

// Stats evaluates the same range query as Query and aggregates the usage
// values of the matching records. An empty result yields zero statistics.
func (s *Service) Stats(startStr, endStr string) (UsageStats, error) {
	records, err := s.Query(startStr, endStr)
	if err != nil {
		return UsageStats{}, err
	}
	if len(records) == 0 {
		return UsageStats{}, nil
	}
	xs := make([]float64, len(records))
	for i, r := range records {
		xs[i] = r.EnergyUsage
	}
	st := UsageStats{
		Count:    len(xs),
		TotalKWh: floats.Sum(xs),
		MeanKWh:  stat.Mean(xs, nil),
		MinKWh:   floats.Min(xs),
		MaxKWh:   floats.Max(xs),
	}
	if len(xs) > 1 {
		st.StdDev = stat.StdDev(xs, nil)
	}
	return st, nil
}
