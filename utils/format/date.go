package format

import (
	"strings"
	"time"
)

// InvalidDate is returned by the string date formatters when the input cannot be parsed
const InvalidDate = "Invalid Date"

const (
	dateLayout     = "January 2, 2006"
	dateTimeLayout = "Jan 2, 2006, 03:04 PM"
)

// inputLayouts are tried in order by the string formatters.
// Layouts without a zone are read as UTC.
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// Date renders t as "January 15, 2024" in t's own location.
func Date(t time.Time) string {
	return t.Format(dateLayout)
}

// DateString parses an ISO-style date and renders it like Date.
// Unparseable input yields InvalidDate rather than an error.
func DateString(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return InvalidDate
	}
	return Date(t)
}

// DateTime renders t as "Jan 15, 2024, 02:30 PM".
func DateTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}

// DateTimeString parses an ISO-style timestamp and renders it like DateTime.
func DateTimeString(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return InvalidDate
	}
	return DateTime(t)
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
