package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Tiliavir/sitelog/internal/model"
	"github.com/Tiliavir/sitelog/internal/schedule"
)

// DefaultInterval is the recompute cadence of a started Tracker.
const DefaultInterval = time.Minute

// ErrAlreadyRunning is returned by Start on a running Tracker.
var ErrAlreadyRunning = errors.New("session: tracker already running")

// Fetcher loads the reports already stored for a report date.
type Fetcher interface {
	FetchReports(ctx context.Context, date string) ([]model.ExistingReport, error)
}

// Listener is called after a recompute changed at least one period status
// or moved the active period into its grace window.
type Listener func(prev, next Snapshot)

// Option customizes a Tracker.
type Option func(*Tracker)

// WithClock allows tests to control the current time.
func WithClock(clock func() time.Time) Option {
	return func(t *Tracker) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// WithLocation sets the timezone whose wall clock defines the periods.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// WithInterval overrides the one-minute recompute cadence.
func WithInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithLogger overrides the default discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// OnChange registers a listener for status transitions.
func OnChange(l Listener) Option {
	return func(t *Tracker) {
		if l != nil {
			t.listeners = append(t.listeners, l)
		}
	}
}

// Tracker owns the report set of one report date and the snapshot derived
// from it. Recomputation happens on Load/Refresh and, once started, on every
// tick of its own scheduler task.
type Tracker struct {
	fetcher   Fetcher
	periods   []schedule.Period
	clock     func() time.Time
	loc       *time.Location
	interval  time.Duration
	logger    *slog.Logger
	listeners []Listener

	mu      sync.Mutex
	date    string
	reports []model.ExistingReport
	snap    Snapshot

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTracker creates a tracker for the given period set.
func NewTracker(fetcher Fetcher, periods []schedule.Period, opts ...Option) *Tracker {
	t := &Tracker{
		fetcher:  fetcher,
		periods:  append([]schedule.Period(nil), periods...),
		clock:    time.Now,
		loc:      time.Local,
		interval: DefaultInterval,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Periods returns the configured period set.
func (t *Tracker) Periods() []schedule.Period {
	return append([]schedule.Period(nil), t.periods...)
}

// Now returns the tracker's current time in its location.
func (t *Tracker) Now() time.Time {
	return t.clock().In(t.loc)
}

// Date returns the loaded report date, or "" before the first Load.
func (t *Tracker) Date() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.date
}

// Load fetches the reports for date, replacing the cached set wholesale, and
// recomputes the snapshot.
func (t *Tracker) Load(ctx context.Context, date string) (Snapshot, error) {
	reports, err := t.fetcher.FetchReports(ctx, date)
	if err != nil {
		return t.Snapshot(), fmt.Errorf("fetching reports for %s: %w", date, err)
	}
	t.logger.Debug("reports loaded", "date", date, "count", len(reports))

	t.mu.Lock()
	t.date = date
	t.reports = append([]model.ExistingReport(nil), reports...)
	t.mu.Unlock()
	return t.Recompute(), nil
}

// Refresh re-fetches the reports of the loaded date.
func (t *Tracker) Refresh(ctx context.Context) (Snapshot, error) {
	date := t.Date()
	if date == "" {
		return Snapshot{}, errors.New("session: no report date loaded")
	}
	return t.Load(ctx, date)
}

// Recompute derives a fresh snapshot from the cached reports and the clock,
// notifying listeners when any status changed.
func (t *Tracker) Recompute() Snapshot {
	now := t.Now()

	t.mu.Lock()
	prev := t.snap
	next := Snapshot{
		Date:   t.date,
		At:     now,
		States: Compute(t.periods, t.reports, now),
	}
	t.snap = next
	t.mu.Unlock()

	if Changed(prev, next) {
		for _, l := range t.listeners {
			l(prev, next)
		}
	}
	return next
}

// Snapshot returns the latest computed snapshot.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.snap
	s.States = append([]PeriodState(nil), t.snap.States...)
	return s
}

// Start launches the scheduler task that recomputes once per interval until
// Stop is called or ctx is cancelled.
func (t *Tracker) Start(ctx context.Context) error {
	t.runMu.Lock()
	defer t.runMu.Unlock()
	if t.cancel != nil {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				t.Recompute()
			}
		}
	}()
	t.logger.Debug("tracker started", "interval", t.interval)
	return nil
}

// Stop cancels the scheduler task and waits for it to exit. It is a no-op on
// a tracker that is not running.
func (t *Tracker) Stop() {
	t.runMu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	t.logger.Debug("tracker stopped")
}
