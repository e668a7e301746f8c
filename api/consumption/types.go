package consumption

import "github.com/enertrack/meterd/core/store"

// RecordDTO is the wire shape of one consumption record. Datetime carries
// the raw source string, never a reformatted instant.
type RecordDTO struct {
	Datetime    string  `json:"datetime"`
	EnergyUsage float64 `json:"energy_usage"`
}

// RecordsResponse is the data service response for a range query.
type RecordsResponse struct {
	Records []RecordDTO `json:"records"`
}

// ErrorResponse is the error body returned by both services.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Param   string `json:"param,omitempty"`
}

// ToDTO maps store records to their wire shape, preserving order.
func ToDTO(records []store.Record) []RecordDTO {
	out := make([]RecordDTO, len(records))
	for i, r := range records {
		out[i] = RecordDTO{Datetime: r.Datetime, EnergyUsage: r.EnergyUsage}
	}
	return out
}
