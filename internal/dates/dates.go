// Package dates normalizes heterogeneous date strings to canonical
// calendar dates. The storage sink only accepts plain dates, so any
// time-of-day or zone component is stripped.
package dates

import (
	"strings"
	"time"
)

// Layout is the canonical calendar-date form.
const Layout = "2006-01-02"

var layouts = []string{
	Layout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"02 Jan 2006",
	"Monday, January 2, 2006",
}

// Parse returns the canonical YYYY-MM-DD form of input, or ok=false when
// the input is empty or matches no known layout. Callers treat a failed
// parse as "drop the record" for start dates and "no end date" otherwise.
func Parse(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	for _, layout := range layouts {
		if ts, err := time.Parse(layout, input); err == nil {
			return ts.Format(Layout), true
		}
	}
	return "", false
}

// Day converts an already-canonical date back to a time for comparisons.
func Day(canonical string) (time.Time, bool) {
	ts, err := time.Parse(Layout, canonical)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
