package helpers

import (
	"strings"
	"time"
)

// CleanText collapses runs of whitespace (including non-breaking spaces)
// into single spaces and trims the result.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// Timestamp formats t as ISO 8601 with millisecond precision, the format
// the corpus file has always carried.
func Timestamp(t time.Time) string {
	return t.Format("2006-01-02T15:04:05.000-07:00")
}
