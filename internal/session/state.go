// Package session derives the per-period submission status of a report day
// and keeps it current.
package session

import (
	"time"

	"github.com/Tiliavir/sitelog/internal/model"
	"github.com/Tiliavir/sitelog/internal/schedule"
)

// Status is the derived state of one period.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSubmitted Status = "submitted"
	StatusMissed    Status = "missed"
)

// PeriodState is the status of one period at one instant.
type PeriodState struct {
	Period  schedule.Period
	Status  Status
	CanEdit bool
	// Report is set when Status is StatusSubmitted.
	Report *model.ExistingReport
}

// Snapshot is the full status of a report day at instant At.
type Snapshot struct {
	Date   string
	At     time.Time
	States []PeriodState
}

// Active returns the active period state, if any.
func (s Snapshot) Active() (PeriodState, bool) {
	for _, st := range s.States {
		if st.Status == StatusActive {
			return st, true
		}
	}
	return PeriodState{}, false
}

// ByLabel returns the state of the period with the given label.
func (s Snapshot) ByLabel(label string) (PeriodState, bool) {
	for _, st := range s.States {
		if st.Period.Label == label {
			return st, true
		}
	}
	return PeriodState{}, false
}

// Compute derives the status of every period. It is a pure function of its
// inputs and returns states in period order.
//
// Contiguous periods overlap during the grace window: at 12:10 the 9-12
// period is still editable while the 12-15 period has already opened. Only
// the earliest unsubmitted editable period is active; a later one reports
// pending until the earlier grace window closes or it is submitted.
func Compute(periods []schedule.Period, reports []model.ExistingReport, now time.Time) []PeriodState {
	byLabel := make(map[string]model.ExistingReport, len(reports))
	for _, r := range reports {
		if _, dup := byLabel[r.TimePeriod]; !dup {
			byLabel[r.TimePeriod] = r
		}
	}

	states := make([]PeriodState, len(periods))
	activeTaken := false
	for i, p := range periods {
		st := PeriodState{Period: p}
		c := schedule.Classify(p, now)

		switch r, found := byLabel[p.Label]; {
		case found:
			st.Status = StatusSubmitted
			st.Report = &r
		case c.Future:
			st.Status = StatusPending
		case c.Grace && !activeTaken:
			st.Status = StatusActive
			st.CanEdit = true
			activeTaken = true
		case c.Grace:
			st.Status = StatusPending
		default:
			st.Status = StatusMissed
		}
		states[i] = st
	}
	return states
}

// Changed reports whether any period's status differs between a and b, or
// an active period left its open window for the grace window.
func Changed(a, b Snapshot) bool {
	if a.Date != b.Date || len(a.States) != len(b.States) {
		return true
	}
	for i := range a.States {
		pa, pb := a.States[i], b.States[i]
		if pa.Period.Label != pb.Period.Label || pa.Status != pb.Status {
			return true
		}
		if pb.Status == StatusActive &&
			schedule.Classify(pa.Period, a.At).Open != schedule.Classify(pb.Period, b.At).Open {
			return true
		}
	}
	return false
}
