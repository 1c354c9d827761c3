package feed

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrParseDate = errors.New("date parsing error")

const (
	allDayDateLayout = "2006-01-02"
	allDayDateLength = 10
)

// Layouts carrying their own offset are tried first so an explicit offset
// always wins over the feed zone.
var notionOffsetFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04Z07:00",
}

// Bare layouts are interpreted in the feed zone.
var notionLocalFormats = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Fallback layouts for the second, zone-less parse attempt. These yield
// UTC, which can silently shift a malformed local timestamp; kept because
// subscribers rely on the historical behavior.
var notionFallbackFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"20060102T150405",
	allDayDateLayout,
}

// parseNotionDateTime parses a Notion date-time string. The first attempt
// honors an explicit offset, or assumes zone for bare strings; when that
// fails the string is parsed once more without a timezone hint. Only a
// string failing both attempts is malformed.
func parseNotionDateTime(d string, zone *time.Location) (time.Time, error) {
	d = strings.TrimSpace(d)

	for _, f := range notionOffsetFormats {
		t, err := time.Parse(f, d)
		if err == nil {
			return t, nil
		}
	}

	for _, f := range notionLocalFormats {
		t, err := time.ParseInLocation(f, d, zone)
		if err == nil {
			return t, nil
		}
	}

	for _, f := range notionFallbackFormats {
		t, err := time.Parse(f, d)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %s is not a valid date", ErrParseDate, d)
}

// parseNotionDate parses a date-only string as midnight in zone.
func parseNotionDate(d string, zone *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(allDayDateLayout, strings.TrimSpace(d), zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s is not a valid date", ErrParseDate, d)
	}
	return t, nil
}
