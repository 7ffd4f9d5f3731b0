// Package aggregate folds individual period reports into the single daily
// summary record kept per project and date.
package aggregate

import (
	"strings"

	"github.com/Tiliavir/sitelog/internal/model"
)

// Contribution is one submitted period as seen by the daily aggregate.
type Contribution struct {
	Date        string
	PeriodLabel string
	Entry       model.HourlyEntry
	Header      model.Header
}

// Merge folds c into prev (which may be nil) and returns the new record.
//
// Narrative fields accumulate: the first fragment is stored as-is, every
// later one is appended as ". <label>: <text>". Header fields are only
// filled when still empty. Merge does not deduplicate, so folding the same
// contribution twice appends it twice.
func Merge(prev *model.DailyAggregate, c Contribution) model.DailyAggregate {
	var rec model.DailyAggregate
	if prev != nil {
		rec = *prev
	}

	rec.DailyTargetAchieved = appendFragment(rec.DailyTargetAchieved, c.PeriodLabel, c.Entry.Achievement)
	rec.AdditionalActivity = appendFragment(rec.AdditionalActivity, c.PeriodLabel, c.Entry.Activity)
	if strings.TrimSpace(c.Entry.Problem.Description) != "" {
		rec.ProblemFaced = appendFragment(rec.ProblemFaced, c.PeriodLabel, c.Entry.Problem.Description)
	}

	backfill(&rec.ReportDate, c.Date)
	backfill(&rec.ProjectName, c.Header.ProjectName)
	backfill(&rec.CustomerName, c.Header.CustomerName)
	backfill(&rec.ProjectIncharge, c.Header.ProjectIncharge)
	backfill(&rec.SiteLocation, c.Header.SiteLocation)
	backfill(&rec.SiteStartDate, c.Header.SiteStartDate)
	backfill(&rec.SiteEndDate, c.Header.SiteEndDate)
	backfill(&rec.DailyTargetPlanned, c.Header.DailyTargetPlanned)
	return rec
}

func appendFragment(prev, label, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return prev
	}
	if prev == "" {
		return text
	}
	return prev + ". " + label + ": " + text
}

func backfill(field *string, value string) {
	if strings.TrimSpace(*field) == "" {
		*field = strings.TrimSpace(value)
	}
}
