// Package schedule partitions a workday into fixed reporting periods and
// classifies an instant against them.
package schedule

import (
	"fmt"
	"time"
)

// GraceMinutes is how long after a period's end hour it stays editable.
const GraceMinutes = 30

// Period is a fixed daily reporting window [StartHour, EndHour) on the local clock.
type Period struct {
	Label     string `json:"label" yaml:"label" mapstructure:"label"`
	Name      string `json:"name" yaml:"name" mapstructure:"name"`
	StartHour int    `json:"start_hour" yaml:"start_hour" mapstructure:"start_hour"`
	EndHour   int    `json:"end_hour" yaml:"end_hour" mapstructure:"end_hour"`
}

// DefaultPeriods returns the standard three-period day spanning 09:00-18:00.
func DefaultPeriods() []Period {
	return []Period{
		{Label: "9am-12pm", Name: "Session 1", StartHour: 9, EndHour: 12},
		{Label: "12pm-3pm", Name: "Session 2", StartHour: 12, EndHour: 15},
		{Label: "3pm-6pm", Name: "Session 3", StartHour: 15, EndHour: 18},
	}
}

// Validate checks that periods are non-empty, uniquely labelled, in range and
// contiguous (each period ends where the next one starts).
func Validate(periods []Period) error {
	if len(periods) == 0 {
		return fmt.Errorf("no reporting periods configured")
	}
	seen := make(map[string]bool, len(periods))
	for i, p := range periods {
		if p.Label == "" {
			return fmt.Errorf("period %d has no label", i+1)
		}
		if seen[p.Label] {
			return fmt.Errorf("duplicate period label %q", p.Label)
		}
		seen[p.Label] = true
		if p.StartHour < 0 || p.StartHour > 23 || p.EndHour > 24 {
			return fmt.Errorf("period %q: hours must be within 0-24, got %d-%d", p.Label, p.StartHour, p.EndHour)
		}
		if p.StartHour >= p.EndHour {
			return fmt.Errorf("period %q: start hour %d must be before end hour %d", p.Label, p.StartHour, p.EndHour)
		}
		if i > 0 && periods[i-1].EndHour != p.StartHour {
			return fmt.Errorf("period %q starts at %d but %q ends at %d", p.Label, p.StartHour, periods[i-1].Label, periods[i-1].EndHour)
		}
	}
	return nil
}

// Find returns the period with the given label.
func Find(periods []Period, label string) (Period, bool) {
	for _, p := range periods {
		if p.Label == label {
			return p, true
		}
	}
	return Period{}, false
}

// Classification is the position of an instant relative to one period.
type Classification struct {
	// Open is the strict reporting window.
	Open bool
	// Future means the period has not started yet.
	Future bool
	// Grace is Open extended by GraceMinutes past the end hour.
	Grace bool
}

// Classify places now relative to p using now's wall clock.
//
// The window includes the whole start hour, and the end hour only at minute 0.
// The grace extension then keeps the period editable until end:30.
func Classify(p Period, now time.Time) Classification {
	h, m := now.Hour(), now.Minute()

	open := (p.StartHour < h && h < p.EndHour) ||
		h == p.StartHour ||
		(h == p.EndHour && m == 0)

	return Classification{
		Open:   open,
		Future: h < p.StartHour,
		Grace:  open || (h == p.EndHour && m <= GraceMinutes),
	}
}

// Editable reports whether p accepts input at now.
func Editable(p Period, now time.Time) bool {
	return Classify(p, now).Grace
}

// GraceEnds returns the last editable instant of p on now's calendar day.
func GraceEnds(p Period, now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), p.EndHour, GraceMinutes, 59, 0, now.Location())
}
