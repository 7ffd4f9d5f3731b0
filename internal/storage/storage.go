// Package storage keeps the unsubmitted period drafts of each report date in
// small JSON files below <data_dir>/drafts.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Tiliavir/sitelog/internal/model"
	"github.com/Tiliavir/sitelog/internal/timecalc"
)

// DraftsDir returns the draft directory below dataDir.
func DraftsDir(dataDir string) string {
	return filepath.Join(dataDir, "drafts")
}

// dayFilePath returns the path for the given date's JSON file.
func dayFilePath(base string, t time.Time) string {
	return filepath.Join(base, t.Format("2006"), t.Format("01"), t.Format("02")+".json")
}

// LoadDrafts loads the drafts for date (YYYY-MM-DD). Returns an empty
// DraftFile if none were saved yet.
func LoadDrafts(base, date string) (model.DraftFile, error) {
	t, err := timecalc.ParseReportDate(date, time.Local)
	if err != nil {
		return model.DraftFile{}, err
	}
	path := dayFilePath(base, t)
	empty := model.DraftFile{Date: t.Format(timecalc.DateLayout), Drafts: map[string]model.HourlyEntry{}}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return empty, nil
	}
	if err != nil {
		return model.DraftFile{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var df model.DraftFile
	if err := json.Unmarshal(data, &df); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return model.DraftFile{}, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	if df.Drafts == nil {
		df.Drafts = map[string]model.HourlyEntry{}
	}
	if df.Date == "" {
		df.Date = empty.Date
	}
	return df, nil
}

// SaveDrafts atomically writes df to the file of df.Date.
func SaveDrafts(base string, df model.DraftFile) error {
	t, err := timecalc.ParseReportDate(df.Date, time.Local)
	if err != nil {
		return err
	}
	path := dayFilePath(base, t)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(df, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// UpdateDraft stores entry as the draft of the period label on date.
func UpdateDraft(base, date, label string, entry model.HourlyEntry) (model.DraftFile, error) {
	return modify(base, date, func(df *model.DraftFile) {
		df.Drafts[label] = entry
	})
}

// ClearDraft resets the draft of label to an empty entry. The period keeps
// its slot in the file.
func ClearDraft(base, date, label string) (model.DraftFile, error) {
	return modify(base, date, func(df *model.DraftFile) {
		df.Drafts[label] = model.HourlyEntry{}
	})
}

// SetProject records the project the drafts of date are meant for.
func SetProject(base, date, project string) (model.DraftFile, error) {
	return modify(base, date, func(df *model.DraftFile) {
		df.Project = strings.TrimSpace(project)
	})
}

func modify(base, date string, f func(*model.DraftFile)) (model.DraftFile, error) {
	df, err := LoadDrafts(base, date)
	if err != nil {
		return model.DraftFile{}, err
	}
	f(&df)
	if err := SaveDrafts(base, df); err != nil {
		return model.DraftFile{}, err
	}
	return df, nil
}

// Achievements returns the achievement text of every draft in the order of
// labels. Missing drafts contribute an empty string.
func Achievements(df model.DraftFile, labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = df.Drafts[l].Achievement
	}
	return out
}
