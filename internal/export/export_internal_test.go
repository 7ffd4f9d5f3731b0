package export

import (
	"bytes"
	"encoding/csv"
	"testing"
)

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Rebar tying", "Rebar tying"},
		{"Grid A, Grid B", `"Grid A, Grid B"`},
		{`Crane "C2" idle`, `"Crane ""C2"" idle"`},
		{"Pump failed\nreplaced seal", "\"Pump failed\nreplaced seal\""},
		{"line\r\nbreak", "\"line\r\nbreak\""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := csvEscape(tt.input); got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestWriteCSVEscapesReportText(t *testing.T) {
	doc := Document{
		Date: "2024-06-01",
		Periods: []Row{
			{
				Date:        "2024-06-01",
				Period:      "9am-12pm",
				Status:      "submitted",
				ReportID:    "7",
				Project:     "Tower 3, Block B",
				Activity:    `Poured "M25" slab` + "\nsecond pour pending",
				Achievement: "Grid A",
				Problem:     `Vibrator "V1" broke, used spare`,
			},
			{Date: "2024-06-01", Period: "12pm-3pm", Status: "missed"},
		},
	}

	var buf bytes.Buffer
	if err := writeCSV(&buf, doc); err != nil {
		t.Fatalf("writeCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v\n%s", err, buf.String())
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want header and 2 rows", len(records))
	}
	want := doc.Periods[0].fields()
	got := records[1]
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %s = %q, want %q", csvHeader[i], got[i], want[i])
		}
	}
	if records[2][3] != "missed" || records[2][6] != "" {
		t.Errorf("second row = %q", records[2])
	}
}
