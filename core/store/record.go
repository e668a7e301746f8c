package store

import (
	"strings"
	"time"
)

// Record is a single consumption observation loaded from the source file.
type Record struct {
	// Datetime is the raw source string, preserved verbatim for responses.
	Datetime string
	// EnergyUsage is the metered consumption in kWh.
	EnergyUsage float64
	// Parsed is the resolved instant used for range filtering. It is nil
	// when the raw string is not valid ISO-8601; such records are kept in
	// the store but never match a range query.
	Parsed *time.Time
}

// Layouts accepted for source timestamps and query bounds. Offset-less
// forms are resolved as UTC.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04-07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 extended timestamp. A trailing literal
// "Z" is accepted as the UTC offset "+00:00".
func ParseTimestamp(s string) (time.Time, error) {
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
