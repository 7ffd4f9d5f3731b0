package aggregate_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/Tiliavir/sitelog/internal/aggregate"
	"github.com/Tiliavir/sitelog/internal/model"
)

// memStore is an in-memory daily-target endpoint that, like the backend,
// answers date checks by date only.
type memStore struct {
	records   map[model.ID]model.DailyAggregate
	nextID    int
	creates   int
	updates   int
	updateErr error
}

func newMemStore() *memStore {
	return &memStore{records: map[model.ID]model.DailyAggregate{}}
}

func (m *memStore) CheckReportDate(_ context.Context, date, _ string) (model.DateCheck, error) {
	for id, rec := range m.records {
		if rec.ReportDate == date {
			return model.DateCheck{Exists: true, ID: id}, nil
		}
	}
	return model.DateCheck{}, nil
}

func (m *memStore) GetDailyTarget(_ context.Context, id model.ID) (model.DailyAggregate, error) {
	rec, ok := m.records[id]
	if !ok {
		return model.DailyAggregate{}, errors.New("not found")
	}
	return rec, nil
}

func (m *memStore) CreateDailyTarget(_ context.Context, rec model.DailyAggregate) (model.ID, error) {
	m.nextID++
	m.creates++
	id := model.ID(strconv.Itoa(m.nextID))
	rec.ID = id
	m.records[id] = rec
	return id, nil
}

func (m *memStore) UpdateDailyTarget(_ context.Context, id model.ID, rec model.DailyAggregate) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates++
	rec.ID = id
	m.records[id] = rec
	return nil
}

func TestReconcileCreatesThenMerges(t *testing.T) {
	store := newMemStore()
	r := aggregate.NewReconciler(store, nil)
	ctx := context.Background()

	first, err := r.Reconcile(ctx, contribution("9am-12pm", "Installed panel A"))
	if err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}
	if first.ID == "" || first.DailyTargetAchieved != "Installed panel A" {
		t.Fatalf("first = %+v", first)
	}

	second, err := r.Reconcile(ctx, contribution("12pm-3pm", "Installed panel B"))
	if err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second merged into %q, want %q", second.ID, first.ID)
	}
	if store.creates != 1 || store.updates != 1 {
		t.Errorf("creates=%d updates=%d, want 1/1", store.creates, store.updates)
	}
	stored := store.records[first.ID]
	if want := "Installed panel A. 12pm-3pm: Installed panel B"; stored.DailyTargetAchieved != want {
		t.Errorf("stored achieved = %q, want %q", stored.DailyTargetAchieved, want)
	}
}

// The reconciler has no idempotency guard: a retried call appends the
// fragment a second time.
func TestReconcileTwiceAppendsTwice(t *testing.T) {
	store := newMemStore()
	r := aggregate.NewReconciler(store, nil)
	ctx := context.Background()

	if _, err := r.Reconcile(ctx, contribution("9am-12pm", "Installed panel A")); err != nil {
		t.Fatal(err)
	}
	c := contribution("12pm-3pm", "Installed panel B")
	for i := 0; i < 2; i++ {
		if _, err := r.Reconcile(ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	stored := store.records["1"]
	want := "Installed panel A. 12pm-3pm: Installed panel B. 12pm-3pm: Installed panel B"
	if stored.DailyTargetAchieved != want {
		t.Errorf("achieved = %q, want %q", stored.DailyTargetAchieved, want)
	}
}

func TestReconcileIgnoresOtherProjectsRecord(t *testing.T) {
	store := newMemStore()
	store.records["9"] = model.DailyAggregate{ID: "9", ReportDate: "2024-06-01", ProjectName: "Bridge", DailyTargetAchieved: "Poured deck"}
	r := aggregate.NewReconciler(store, nil)

	rec, err := r.Reconcile(context.Background(), contribution("9am-12pm", "Installed panel A"))
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID == "9" || rec.DailyTargetAchieved != "Installed panel A" {
		t.Errorf("rec = %+v, want a new record for Tower 3", rec)
	}
	if store.records["9"].DailyTargetAchieved != "Poured deck" {
		t.Error("other project's record was modified")
	}
}

func TestReconcileUpdateError(t *testing.T) {
	store := newMemStore()
	r := aggregate.NewReconciler(store, nil)
	ctx := context.Background()
	if _, err := r.Reconcile(ctx, contribution("9am-12pm", "A")); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("server down")
	store.updateErr = boom
	if _, err := r.Reconcile(ctx, contribution("12pm-3pm", "B")); !errors.Is(err, boom) {
		t.Errorf("Reconcile error = %v, want wrapped %v", err, boom)
	}
}

func TestCurrent(t *testing.T) {
	store := newMemStore()
	r := aggregate.NewReconciler(store, nil)
	ctx := context.Background()

	rec, err := r.Current(ctx, "2024-06-01", "Tower 3")
	if err != nil || rec != nil {
		t.Fatalf("Current on empty store = %+v, %v", rec, err)
	}
	if _, err := r.Reconcile(ctx, contribution("9am-12pm", "A")); err != nil {
		t.Fatal(err)
	}
	rec, err = r.Current(ctx, "2024-06-01", "tower 3")
	if err != nil || rec == nil || rec.DailyTargetAchieved != "A" {
		t.Errorf("Current = %+v, %v", rec, err)
	}
}
