package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/Tiliavir/sitelog/internal/schedule"
)

func TestDescribePeriod(t *testing.T) {
	color.NoColor = true
	p := schedule.DefaultPeriods()[0]
	at := func(h, m int) time.Time { return time.Date(2024, 6, 1, h, m, 0, 0, time.UTC) }

	tests := []struct {
		now  time.Time
		want string
	}{
		{at(8, 59), "upcoming"},
		{at(11, 30), "open, editable for 1h 0m"},
		{at(12, 10), "grace window, editable for 20m"},
		{at(12, 31), "closed"},
	}
	for _, tt := range tests {
		if got := describePeriod(p, tt.now); !strings.HasPrefix(got, tt.want) {
			t.Errorf("describePeriod(%s) = %q, want %q", tt.now.Format("15:04"), got, tt.want)
		}
	}
}
