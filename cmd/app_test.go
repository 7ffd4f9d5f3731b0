package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/spf13/pflag"

	"github.com/Tiliavir/sitelog/internal/backend"
	"github.com/Tiliavir/sitelog/internal/journal"
	"github.com/Tiliavir/sitelog/internal/model"
	"github.com/Tiliavir/sitelog/internal/report"
	"github.com/Tiliavir/sitelog/internal/session"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{report.ErrUnauthenticated, 1},
		{fmt.Errorf("%w: 3pm-6pm is pending", report.ErrNoActiveSession), 1},
		{&report.ValidationError{Problems: []string{"x"}}, 1},
		{report.ErrDuplicateSubmission, 1},
		{backend.ErrNoCredential, 1},
		{fmt.Errorf("%w: abc", journal.ErrNotFound), 1},
		{fmt.Errorf("%w: bad date", errUsage), 1},
		{fmt.Errorf("submitting report: %w: %w", report.ErrNetworkFailure, errors.New("timeout")), 2},
		{&backend.APIError{Op: "POST /hourly-report", StatusCode: 500}, 2},
		{errors.New("disk full"), 2},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelWarn,
		"loud":  slog.LevelWarn,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestEntryFlagsApplyOnlyChanged(t *testing.T) {
	var f entryFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.register(fs)
	if err := fs.Parse([]string{"--achievement", "Panel B", "--support-engineer", "Ravi"}); err != nil {
		t.Fatal(err)
	}

	e := model.HourlyEntry{Activity: "Cabling", Achievement: "Panel A"}
	if !f.apply(fs, &e) {
		t.Fatal("apply reported no change")
	}
	if e.Activity != "Cabling" {
		t.Errorf("activity = %q, want kept", e.Activity)
	}
	if e.Achievement != "Panel B" || e.Problem.Support.EngineerName != "Ravi" {
		t.Errorf("entry = %+v", e)
	}

	var none entryFlags
	empty := pflag.NewFlagSet("empty", pflag.ContinueOnError)
	none.register(empty)
	if err := empty.Parse(nil); err != nil {
		t.Fatal(err)
	}
	if none.apply(empty, &e) {
		t.Error("apply without flags reported a change")
	}
}

func TestFirstProject(t *testing.T) {
	states := []session.PeriodState{
		{Status: session.StatusMissed},
		{Status: session.StatusSubmitted, Report: &model.ExistingReport{ProjectName: "Tower 3"}},
	}
	if got := firstProject(states); got != "Tower 3" {
		t.Errorf("firstProject = %q", got)
	}
	if got := firstProject(nil); got != "" {
		t.Errorf("firstProject(nil) = %q", got)
	}
}
