package storage_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tiliavir/sitelog/internal/model"
	"github.com/Tiliavir/sitelog/internal/storage"
)

func TestLoadDraftsNotExist(t *testing.T) {
	base := t.TempDir()
	df, err := storage.LoadDrafts(base, "2026-02-27")
	if err != nil {
		t.Fatalf("LoadDrafts on missing file: %v", err)
	}
	if df.Date != "2026-02-27" {
		t.Errorf("LoadDrafts date = %q, want %q", df.Date, "2026-02-27")
	}
	if df.Drafts == nil || len(df.Drafts) != 0 {
		t.Errorf("LoadDrafts drafts = %v, want empty map", df.Drafts)
	}
}

func TestLoadDraftsInvalidDate(t *testing.T) {
	if _, err := storage.LoadDrafts(t.TempDir(), "27.02.2026"); err == nil {
		t.Fatal("expected error for invalid date")
	}
}

func TestLoadDraftsTimestampDate(t *testing.T) {
	base := t.TempDir()
	stamp := time.Date(2026, 2, 27, 10, 30, 0, 0, time.Local).Format(time.RFC3339)

	df, err := storage.LoadDrafts(base, stamp)
	if err != nil {
		t.Fatalf("LoadDrafts(%q): %v", stamp, err)
	}
	if df.Date != "2026-02-27" {
		t.Errorf("date = %q, want 2026-02-27", df.Date)
	}
}

func TestSaveDraftsAndLoadDrafts(t *testing.T) {
	base := t.TempDir()
	df := model.DraftFile{
		Date:    "2026-02-27",
		Project: "Tower 3",
		Drafts: map[string]model.HourlyEntry{
			"9am-12pm": {Activity: "Cabling", Achievement: "Floor 2 done"},
		},
	}

	if err := storage.SaveDrafts(base, df); err != nil {
		t.Fatalf("SaveDrafts: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "2026", "02", "27.json")); err != nil {
		t.Fatalf("day file missing: %v", err)
	}

	loaded, err := storage.LoadDrafts(base, "2026-02-27")
	if err != nil {
		t.Fatalf("LoadDrafts after save: %v", err)
	}
	if loaded.Project != "Tower 3" {
		t.Errorf("project = %q", loaded.Project)
	}
	if got := loaded.Drafts["9am-12pm"].Achievement; got != "Floor 2 done" {
		t.Errorf("achievement = %q, want %q", got, "Floor 2 done")
	}
}

func TestLoadDraftsCorruptBackup(t *testing.T) {
	base := t.TempDir()

	path := filepath.Join(base, "2026", "02", "27.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{bad json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := storage.LoadDrafts(base, "2026-02-27"); err == nil {
		t.Fatal("expected error for corrupt JSON, got nil")
	}
	if _, err := os.Stat(path + ".corrupt"); os.IsNotExist(err) {
		t.Error("expected backup file to exist after corrupt JSON")
	}
}

func TestUpdateAndClearDraft(t *testing.T) {
	base := t.TempDir()
	date := "2026-02-27"

	entry := model.HourlyEntry{Activity: "Cabling"}
	if _, err := storage.UpdateDraft(base, date, "9am-12pm", entry); err != nil {
		t.Fatalf("UpdateDraft (insert): %v", err)
	}
	entry.Achievement = "Floor 2 done"
	if _, err := storage.UpdateDraft(base, date, "9am-12pm", entry); err != nil {
		t.Fatalf("UpdateDraft (update): %v", err)
	}

	df, err := storage.LoadDrafts(base, date)
	if err != nil {
		t.Fatal(err)
	}
	if len(df.Drafts) != 1 || df.Drafts["9am-12pm"] != entry {
		t.Fatalf("drafts = %+v", df.Drafts)
	}

	df, err = storage.ClearDraft(base, date, "9am-12pm")
	if err != nil {
		t.Fatalf("ClearDraft: %v", err)
	}
	got, ok := df.Drafts["9am-12pm"]
	if !ok {
		t.Fatal("cleared period lost its slot")
	}
	if !got.IsEmpty() {
		t.Errorf("cleared draft = %+v, want empty", got)
	}
}

func TestSetProjectAndAchievements(t *testing.T) {
	base := t.TempDir()
	date := "2026-02-27"
	if _, err := storage.SetProject(base, date, "  Tower 3 "); err != nil {
		t.Fatal(err)
	}
	if _, err := storage.UpdateDraft(base, date, "12pm-3pm", model.HourlyEntry{Achievement: "B"}); err != nil {
		t.Fatal(err)
	}
	df, err := storage.LoadDrafts(base, date)
	if err != nil {
		t.Fatal(err)
	}
	if df.Project != "Tower 3" {
		t.Errorf("project = %q", df.Project)
	}

	got := storage.Achievements(df, []string{"9am-12pm", "12pm-3pm", "3pm-6pm"})
	want := []string{"", "B", ""}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Achievements[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
