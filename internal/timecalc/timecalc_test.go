package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/sitelog/internal/timecalc"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{90, "1m"},
		{3600, "1h 0m"},
		{5400, "1h 30m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDuration(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestParseReportDate(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"2024-06-01", "2024-06-01", false},
		{" 2024-06-01 ", "2024-06-01", false},
		// 22:30 UTC is already the next day in Berlin.
		{"2024-05-31T22:30:00Z", "2024-06-01", false},
		{"2024-06-01T08:00:00.000Z", "2024-06-01", false},
		{"01/06/2024", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := timecalc.NormalizeReportDate(tt.input, berlin)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeReportDate(%q) = %q, want error", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeReportDate(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeReportDate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := timecalc.ParseClock("09:45")
	if err != nil {
		t.Fatalf("ParseClock: %v", err)
	}
	if h != 9 || m != 45 {
		t.Errorf("ParseClock = %d:%d, want 9:45", h, m)
	}
	if _, _, err := timecalc.ParseClock("9.45"); err == nil {
		t.Error("ParseClock(\"9.45\"): expected error")
	}
}
