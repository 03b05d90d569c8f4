package timeline

import (
	"errors"
	"strings"
	"time"
)

// CanonicalLayout is the key format used to compare holiday dates.
const CanonicalLayout = "2006-01-02"

// DayLayout is the pt-BR label used when grouping records by day.
const DayLayout = "02/01/2006"

var ErrInvalidDate = errors.New("timeline: unrecognized date format")

var acceptedLayouts = []string{
	CanonicalLayout,
	DayLayout,
	"02-01-2006",
	"2006/01/02",
	time.RFC3339,
}

// NormalizeDate converts any accepted input ("2026-02-14", "14/02/2026",
// "14-02-2026", "2026/02/14" or a full RFC3339 timestamp) into YYYY-MM-DD.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(CanonicalLayout), nil
		}
	}
	return "", ErrInvalidDate
}
