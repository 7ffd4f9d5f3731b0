package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Tiliavir/sitelog/internal/model"
)

// Store is the part of the backend holding daily aggregate records.
type Store interface {
	CheckReportDate(ctx context.Context, date, project string) (model.DateCheck, error)
	GetDailyTarget(ctx context.Context, id model.ID) (model.DailyAggregate, error)
	CreateDailyTarget(ctx context.Context, rec model.DailyAggregate) (model.ID, error)
	UpdateDailyTarget(ctx context.Context, id model.ID, rec model.DailyAggregate) error
}

// Reconciler maintains one aggregate record per project and date.
//
// Reconcile is a plain read-merge-write: two concurrent contributions for the
// same project and date can read the same record and the later write drops
// the earlier fragment.
type Reconciler struct {
	store  Store
	logger *slog.Logger
}

// NewReconciler creates a reconciler backed by store. A nil logger discards.
func NewReconciler(store Store, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reconciler{store: store, logger: logger}
}

// Reconcile folds c into the stored aggregate for (project, date), creating
// the record on the first contribution of the day.
func (r *Reconciler) Reconcile(ctx context.Context, c Contribution) (model.DailyAggregate, error) {
	prev, err := r.current(ctx, c.Date, c.Header.ProjectName)
	if err != nil {
		return model.DailyAggregate{}, err
	}

	merged := Merge(prev, c)
	if prev == nil {
		id, err := r.store.CreateDailyTarget(ctx, merged)
		if err != nil {
			return model.DailyAggregate{}, fmt.Errorf("creating daily aggregate: %w", err)
		}
		merged.ID = id
		r.logger.Info("daily aggregate created", "date", c.Date, "project", c.Header.ProjectName, "period", c.PeriodLabel)
		return merged, nil
	}

	if err := r.store.UpdateDailyTarget(ctx, prev.ID, merged); err != nil {
		return model.DailyAggregate{}, fmt.Errorf("updating daily aggregate %s: %w", prev.ID, err)
	}
	r.logger.Info("daily aggregate merged", "id", prev.ID, "date", c.Date, "period", c.PeriodLabel)
	return merged, nil
}

// Current returns the stored aggregate for (project, date), or nil.
func (r *Reconciler) Current(ctx context.Context, date, project string) (*model.DailyAggregate, error) {
	return r.current(ctx, date, project)
}

func (r *Reconciler) current(ctx context.Context, date, project string) (*model.DailyAggregate, error) {
	check, err := r.store.CheckReportDate(ctx, date, project)
	if err != nil {
		return nil, fmt.Errorf("checking daily aggregate for %s: %w", date, err)
	}
	if !check.Exists || check.ID == "" {
		return nil, nil
	}

	rec, err := r.store.GetDailyTarget(ctx, check.ID)
	if err != nil {
		return nil, fmt.Errorf("loading daily aggregate %s: %w", check.ID, err)
	}
	if rec.ID == "" {
		rec.ID = check.ID
	}
	// Servers that look up by date alone may hand back another project's record.
	if project != "" && rec.ProjectName != "" && !strings.EqualFold(strings.TrimSpace(rec.ProjectName), strings.TrimSpace(project)) {
		r.logger.Debug("ignoring aggregate of other project", "id", rec.ID, "project", rec.ProjectName, "want", project)
		return nil, nil
	}
	return &rec, nil
}
