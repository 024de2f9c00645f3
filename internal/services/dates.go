package services

import (
	"errors"
	"time"
)

// isoLayouts covers the timestamp shapes clients actually send: full
// RFC 3339, a zone-less variant and a bare calendar date.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseISODate parses an ISO 8601 date or date-time string.
func ParseISODate(value string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format: " + value)
}
