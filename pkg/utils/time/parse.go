// ABOUTME: Time parsing utilities for publication dates found in extracted articles
// ABOUTME: Produces the display string used in the reader header meta line

package time

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// HeaderDateLayout is how publication dates are shown in reader documents.
const HeaderDateLayout = "January 2, 2006"

// publishedTimeLayouts are tried in order; the first that parses wins.
var publishedTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00", // ISO 8601 with fractional seconds
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParsePublishedTime parses a raw published-time string from article
// metadata. Strict ISO 8601 forms are tried first, then a lenient parse.
func ParsePublishedTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range publishedTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	if t, err := dateparse.ParseStrict(raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FormatHeaderDate returns the header display string for raw. Strings that
// cannot be parsed are used verbatim.
func FormatHeaderDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if t, ok := ParsePublishedTime(raw); ok {
		return t.Format(HeaderDateLayout)
	}
	return raw
}

// FormatRecordDate formats a stored publication date, or "" for nil.
func FormatRecordDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(HeaderDateLayout)
}
