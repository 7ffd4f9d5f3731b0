package timecalc

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the only date format the backend accepts for report dates.
const DateLayout = "2006-01-02"

// FormatReportDate formats t as a backend report date (YYYY-MM-DD) in t's own location.
func FormatReportDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseReportDate parses a report date in loc. Besides YYYY-MM-DD it accepts
// the RFC 3339 timestamps the backend returns for stored records, which are
// converted to loc before the calendar day is taken.
func ParseReportDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty report date")
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return StartOfDay(t.In(loc)), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid report date %q: want YYYY-MM-DD", s)
}

// NormalizeReportDate round-trips s through ParseReportDate so that every
// accepted spelling maps to the canonical YYYY-MM-DD form.
func NormalizeReportDate(s string, loc *time.Location) (string, error) {
	t, err := ParseReportDate(s, loc)
	if err != nil {
		return "", err
	}
	return FormatReportDate(t), nil
}

// ParseClock parses a time of day like "09:30" and returns hour and minute.
func ParseClock(s string) (int, int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q: want HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

// FormatDuration formats seconds as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
