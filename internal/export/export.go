// Package export renders the state of one report day in the formats
// supported by "sitelog export".
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/sitelog/internal/model"
	"github.com/Tiliavir/sitelog/internal/session"
)

// Format is an output format name.
type Format string

const (
	CSV      Format = "csv"
	JSON     Format = "json"
	Markdown Format = "md"
	YAML     Format = "yaml"
	XLSX     Format = "xlsx"
)

// Formats lists every supported format.
var Formats = []Format{CSV, JSON, Markdown, YAML, XLSX}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "yml" {
		f = YAML
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q (use csv, json, md, yaml or xlsx)", s)
}

// Binary reports whether f should not be written to a terminal.
func (f Format) Binary() bool { return f == XLSX }

// Row is one period of the day.
type Row struct {
	Date        string `json:"date" yaml:"date"`
	Period      string `json:"period" yaml:"period"`
	Name        string `json:"name" yaml:"name"`
	Status      string `json:"status" yaml:"status"`
	ReportID    string `json:"report_id,omitempty" yaml:"report_id,omitempty"`
	Project     string `json:"project,omitempty" yaml:"project,omitempty"`
	Activity    string `json:"activity,omitempty" yaml:"activity,omitempty"`
	Achievement string `json:"achievement,omitempty" yaml:"achievement,omitempty"`
	Problem     string `json:"problem,omitempty" yaml:"problem,omitempty"`
}

// Summary is the daily aggregate record.
type Summary struct {
	ID                  string `json:"id,omitempty" yaml:"id,omitempty"`
	ProjectName         string `json:"project_name" yaml:"project_name"`
	CustomerName        string `json:"customer_name,omitempty" yaml:"customer_name,omitempty"`
	ProjectIncharge     string `json:"project_incharge,omitempty" yaml:"project_incharge,omitempty"`
	SiteLocation        string `json:"site_location,omitempty" yaml:"site_location,omitempty"`
	DailyTargetPlanned  string `json:"daily_target_planned,omitempty" yaml:"daily_target_planned,omitempty"`
	DailyTargetAchieved string `json:"daily_target_achieved" yaml:"daily_target_achieved"`
	AdditionalActivity  string `json:"additional_activity,omitempty" yaml:"additional_activity,omitempty"`
	ProblemFaced        string `json:"problem_faced,omitempty" yaml:"problem_faced,omitempty"`
}

// Document is everything exported for one day.
type Document struct {
	Date      string   `json:"date" yaml:"date"`
	Periods   []Row    `json:"periods" yaml:"periods"`
	Aggregate *Summary `json:"aggregate,omitempty" yaml:"aggregate,omitempty"`
}

// Build assembles the document of date. agg may be nil.
func Build(date string, states []session.PeriodState, agg *model.DailyAggregate) Document {
	doc := Document{Date: date, Periods: make([]Row, 0, len(states))}
	for _, st := range states {
		row := Row{
			Date:   date,
			Period: st.Period.Label,
			Name:   st.Period.Name,
			Status: string(st.Status),
		}
		if r := st.Report; r != nil {
			row.ReportID = r.ID.String()
			row.Project = r.ProjectName
			row.Activity = r.HourlyActivity
			row.Achievement = r.HourlyAchieved
			row.Problem = r.ProblemFacedByEngineerHourly
		}
		doc.Periods = append(doc.Periods, row)
	}
	if agg != nil {
		doc.Aggregate = &Summary{
			ID:                  agg.ID.String(),
			ProjectName:         agg.ProjectName,
			CustomerName:        agg.CustomerName,
			ProjectIncharge:     agg.ProjectIncharge,
			SiteLocation:        agg.SiteLocation,
			DailyTargetPlanned:  agg.DailyTargetPlanned,
			DailyTargetAchieved: agg.DailyTargetAchieved,
			AdditionalActivity:  agg.AdditionalActivity,
			ProblemFaced:        agg.ProblemFaced,
		}
	}
	return doc
}

// Write renders doc to w in format f.
func Write(w io.Writer, f Format, doc Document) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	case Markdown:
		return writeMarkdown(w, doc)
	case XLSX:
		return writeXLSX(w, doc)
	case CSV:
		return writeCSV(w, doc)
	}
	return fmt.Errorf("unknown export format %q", f)
}

var csvHeader = []string{"date", "period", "name", "status", "report_id", "project", "activity", "achievement", "problem"}

func (r Row) fields() []string {
	return []string{r.Date, r.Period, r.Name, r.Status, r.ReportID, r.Project, r.Activity, r.Achievement, r.Problem}
}

func writeCSV(w io.Writer, doc Document) error {
	if _, err := fmt.Fprintln(w, strings.Join(csvHeader, ",")); err != nil {
		return err
	}
	for _, r := range doc.Periods {
		fields := r.fields()
		for i := range fields {
			fields[i] = csvEscape(fields[i])
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, ",")); err != nil {
			return err
		}
	}
	return nil
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func mdCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "<br>"), "\n", "<br>")
}

func writeMarkdown(w io.Writer, doc Document) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Site log %s\n\n", doc.Date)
	b.WriteString("| Period | Name | Status | Project | Activity | Achievement | Problem |\n")
	b.WriteString("|--------|------|--------|---------|----------|-------------|---------|\n")
	for _, r := range doc.Periods {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			mdCell(r.Period), mdCell(r.Name), r.Status, mdCell(r.Project),
			mdCell(r.Activity), mdCell(r.Achievement), mdCell(r.Problem))
	}
	if a := doc.Aggregate; a != nil {
		fmt.Fprintf(&b, "\n## Daily summary: %s\n\n", a.ProjectName)
		for _, kv := range summaryFields(*a) {
			if kv[1] != "" {
				fmt.Fprintf(&b, "- **%s:** %s\n", kv[0], mdCell(kv[1]))
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func summaryFields(s Summary) [][2]string {
	return [][2]string{
		{"Project", s.ProjectName},
		{"Customer", s.CustomerName},
		{"Project incharge", s.ProjectIncharge},
		{"Site location", s.SiteLocation},
		{"Target planned", s.DailyTargetPlanned},
		{"Target achieved", s.DailyTargetAchieved},
		{"Additional activity", s.AdditionalActivity},
		{"Problems", s.ProblemFaced},
	}
}
