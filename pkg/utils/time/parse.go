// ABOUTME: Time parsing utilities for flexible date/time parsing
// ABOUTME: Handles the publication date formats reported by search engines

package time

import (
	"strings"
	"time"
)

// Common time formats reported by search engines, most specific first
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseFlexibleTime attempts to parse a time string using various formats.
// It returns the zero time when no format matches.
func ParseFlexibleTime(timeStr string) time.Time {
	timeStr = strings.TrimSpace(timeStr)
	if timeStr == "" {
		return time.Time{}
	}

	for _, format := range timeFormats {
		if t, err := time.Parse(format, timeStr); err == nil {
			return t
		}
	}

	// Engines sometimes append fractional seconds or zone names after a date;
	// fall back to the leading calendar date.
	if len(timeStr) > 10 {
		if t, err := time.Parse("2006-01-02", timeStr[:10]); err == nil {
			return t
		}
	}

	return time.Time{}
}

// ParseDate parses a publication date and truncates it to a UTC calendar day.
// It returns nil when the value is empty or unparseable.
func ParseDate(timeStr string) *time.Time {
	parsed := ParseFlexibleTime(timeStr)
	if parsed.IsZero() {
		return nil
	}
	day := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	return &day
}
