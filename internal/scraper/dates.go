package scraper

import (
	"time"
)

const (
	dateOnlyLayout = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// isoLayouts are tried in order. Fractional seconds are accepted by
// time.Parse after a seconds field even though the layouts omit them.
var isoLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04-0700",
	"2006-01-02T15:04Z07",
	"2006-01-02T15:04",
	"2006-01-02T15Z07:00",
	"2006-01-02T15Z07",
	"2006-01-02T15",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-0700",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04",
	"2006-01-02 15",
	"2006-01-02",
	"20060102",
}

// ParseTimestamp parses an upstream ISO-8601 timestamp. Values without an
// offset are read as UTC. A nil, empty or malformed value reports false;
// surrounding whitespace counts as malformed.
func ParseTimestamp(raw *string) (time.Time, bool) {
	if raw == nil || *raw == "" {
		return time.Time{}, false
	}
	value := *raw
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ToDateOnly renders raw as YYYY-MM-DD, or "" when it cannot be parsed.
func ToDateOnly(raw *string) string {
	t, ok := ParseTimestamp(raw)
	if !ok {
		return ""
	}
	return t.Format(dateOnlyLayout)
}

// ToDateTime renders raw as YYYY-MM-DD HH:MM, or "" when it cannot be parsed.
// The wall clock of the parsed value is kept; no zone conversion happens.
func ToDateTime(raw *string) string {
	t, ok := ParseTimestamp(raw)
	if !ok {
		return ""
	}
	return t.Format(dateTimeLayout)
}
