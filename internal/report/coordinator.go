// Package report submits and edits hourly period reports.
//
// A submission passes through a fixed sequence of checks before anything is
// sent: credential, active period, required fields, duplicate, conditional
// fields. Once the report is stored the daily aggregate is updated and the
// session state is re-fetched; failures in those two later steps are
// returned as warnings because the report itself is already committed.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/sitelog/internal/aggregate"
	"github.com/Tiliavir/sitelog/internal/model"
	"github.com/Tiliavir/sitelog/internal/schedule"
	"github.com/Tiliavir/sitelog/internal/session"
)

// Backend stores hourly reports.
type Backend interface {
	CreateReport(ctx context.Context, p model.ReportPayload) (model.ID, error)
	UpdateReport(ctx context.Context, id model.ID, p model.ReportPayload) error
}

// Aggregator folds a stored report into the daily aggregate.
type Aggregator interface {
	Reconcile(ctx context.Context, c aggregate.Contribution) (model.DailyAggregate, error)
}

// Actor is the user a request is made for.
type Actor struct {
	EmployeeID   string
	EmployeeName string
	Token        *oauth2.Token
}

func (a Actor) authenticated() bool {
	return a.Token != nil && a.Token.Valid()
}

// SubmitRequest is a new report for the active period. An empty PeriodLabel
// is rejected by validation.
type SubmitRequest struct {
	Actor       Actor
	ReportDate  string
	PeriodLabel string
	Entry       model.HourlyEntry
	Header      model.Header
}

// SubmitResult describes a committed submission.
type SubmitResult struct {
	ReportID model.ID
	Period   schedule.Period
	Payload  model.ReportPayload
	// Aggregate is nil when reconciliation failed.
	Aggregate *model.DailyAggregate
	Snapshot  session.Snapshot
	// Warnings holds non-fatal failures after the report was stored.
	Warnings []error
}

// EditRequest replaces every field of an existing report.
type EditRequest struct {
	Actor       Actor
	ReportID    model.ID
	ReportDate  string
	PeriodLabel string
	Entry       model.HourlyEntry
	Header      model.Header
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithLogger overrides the default discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// Coordinator runs submissions against one tracker.
type Coordinator struct {
	backend    Backend
	tracker    *session.Tracker
	aggregator Aggregator
	logger     *slog.Logger
}

// NewCoordinator wires a coordinator. aggregator may be nil, in which case
// no daily aggregate is maintained.
func NewCoordinator(b Backend, tracker *session.Tracker, aggregator Aggregator, opts ...Option) *Coordinator {
	c := &Coordinator{
		backend:    b,
		tracker:    tracker,
		aggregator: aggregator,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Submit stores req as the report of the currently active period.
func (c *Coordinator) Submit(ctx context.Context, req SubmitRequest) (SubmitResult, error) {
	if !req.Actor.authenticated() {
		return SubmitResult{}, ErrUnauthenticated
	}

	date := strings.TrimSpace(req.ReportDate)
	label := strings.TrimSpace(req.PeriodLabel)

	snap, err := c.snapshotFor(ctx, date)
	if err != nil {
		return SubmitResult{}, err
	}
	target, err := selectPeriod(snap, label)
	if err != nil {
		return SubmitResult{}, err
	}

	if err := validationError(requiredProblems(date, label, req.Entry, req.Header)); err != nil {
		return SubmitResult{}, err
	}
	if target.Status == session.StatusSubmitted {
		return SubmitResult{}, fmt.Errorf("%w: %s on %s", ErrDuplicateSubmission, target.Period.Label, date)
	}
	if err := validationError(conditionalProblems(req.Entry)); err != nil {
		return SubmitResult{}, err
	}

	payload := model.NewReportPayload(date, target.Period.Label, target.Period.Name,
		req.Entry, req.Header, req.Actor.EmployeeID, req.Actor.EmployeeName)
	id, err := c.backend.CreateReport(ctx, payload)
	if err != nil {
		return SubmitResult{}, classify("submitting report", err)
	}
	c.logger.Info("report submitted", "id", id, "date", date, "period", target.Period.Label)

	res := SubmitResult{ReportID: id, Period: target.Period, Payload: payload}

	if c.aggregator != nil {
		agg, err := c.aggregator.Reconcile(ctx, aggregate.Contribution{
			Date:        date,
			PeriodLabel: target.Period.Label,
			Entry:       req.Entry,
			Header:      req.Header,
		})
		if err != nil {
			c.logger.Warn("daily aggregate reconciliation failed", "date", date, "period", target.Period.Label, "error", err)
			res.Warnings = append(res.Warnings, &ReconcileWarning{
				Date:    date,
				Period:  target.Period.Label,
				Project: req.Header.ProjectName,
				Err:     err,
			})
		} else {
			res.Aggregate = &agg
		}
	}

	snap, err = c.tracker.Refresh(ctx)
	if err != nil {
		c.logger.Warn("refreshing session state failed", "date", date, "error", err)
		res.Warnings = append(res.Warnings, fmt.Errorf("refreshing session state: %w", err))
	}
	res.Snapshot = snap
	return res, nil
}

// Edit replaces an existing report. Edits are not bound to the period's
// time window.
func (c *Coordinator) Edit(ctx context.Context, req EditRequest) (model.ReportPayload, error) {
	if !req.Actor.authenticated() {
		return model.ReportPayload{}, ErrUnauthenticated
	}

	date := strings.TrimSpace(req.ReportDate)
	label := strings.TrimSpace(req.PeriodLabel)
	problems := requiredProblems(date, label, req.Entry, req.Header)
	if strings.TrimSpace(req.ReportID.String()) == "" {
		problems = append([]string{"report id is required"}, problems...)
	}
	period, known := schedule.Find(c.tracker.Periods(), label)
	if label != "" && !known {
		problems = append(problems, fmt.Sprintf("unknown time period %q", label))
	}
	problems = append(problems, conditionalProblems(req.Entry)...)
	if err := validationError(problems); err != nil {
		return model.ReportPayload{}, err
	}

	payload := model.NewReportPayload(date, period.Label, period.Name,
		req.Entry, req.Header, req.Actor.EmployeeID, req.Actor.EmployeeName)
	if err := c.backend.UpdateReport(ctx, req.ReportID, payload); err != nil {
		return model.ReportPayload{}, classify("updating report "+req.ReportID.String(), err)
	}
	c.logger.Info("report updated", "id", req.ReportID, "date", date, "period", period.Label)

	if c.tracker.Date() == date {
		if _, err := c.tracker.Refresh(ctx); err != nil {
			c.logger.Warn("refreshing session state failed", "date", date, "error", err)
		}
	}
	return payload, nil
}

// snapshotFor returns the current snapshot of date, loading the tracker when
// it holds another day. An empty date uses whatever the tracker holds.
func (c *Coordinator) snapshotFor(ctx context.Context, date string) (session.Snapshot, error) {
	if date != "" && c.tracker.Date() != date {
		snap, err := c.tracker.Load(ctx, date)
		if err != nil {
			return snap, classify("loading session state", err)
		}
		return snap, nil
	}
	return c.tracker.Recompute(), nil
}

// selectPeriod picks the period a submission targets. A named period must be
// active, or submitted while still inside its editable window so the caller
// can report a duplicate.
func selectPeriod(snap session.Snapshot, label string) (session.PeriodState, error) {
	if label == "" {
		st, ok := snap.Active()
		if !ok {
			return session.PeriodState{}, ErrNoActiveSession
		}
		return st, nil
	}

	st, ok := snap.ByLabel(label)
	if !ok {
		return session.PeriodState{}, fmt.Errorf("%w: unknown period %q", ErrNoActiveSession, label)
	}
	switch {
	case st.Status == session.StatusActive:
		return st, nil
	case st.Status == session.StatusSubmitted && schedule.Editable(st.Period, snap.At):
		return st, nil
	}
	if active, ok := snap.Active(); ok {
		return session.PeriodState{}, fmt.Errorf("%w: %s is %s, the active period is %s",
			ErrNoActiveSession, label, st.Status, active.Period.Label)
	}
	return session.PeriodState{}, fmt.Errorf("%w: %s is %s", ErrNoActiveSession, label, st.Status)
}
