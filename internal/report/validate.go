package report

import (
	"strconv"
	"strings"

	"github.com/Tiliavir/sitelog/internal/model"
	"github.com/Tiliavir/sitelog/internal/timecalc"
)

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// checkTime reports a missing or malformed HH:MM value of field.
func checkTime(problems []string, field, value, when string) []string {
	if blank(value) {
		return append(problems, field+" is required"+when)
	}
	if _, _, err := timecalc.ParseClock(value); err != nil {
		return append(problems, field+" must be HH:MM, got "+strconv.Quote(value))
	}
	return problems
}

func requiredProblems(date, label string, e model.HourlyEntry, h model.Header) []string {
	var problems []string
	if blank(date) {
		problems = append(problems, "report date is required")
	}
	if blank(label) {
		problems = append(problems, "time period is required")
	}
	if blank(h.ProjectName) {
		problems = append(problems, "project name is required")
	}
	if blank(e.Activity) {
		problems = append(problems, "hourly activity is required")
	}
	return problems
}

func conditionalProblems(e model.HourlyEntry) []string {
	var problems []string
	p := e.Problem
	if p.IsResolved() {
		problems = checkTime(problems, "problem start time", p.StartTime, " when the problem is resolved")
		problems = checkTime(problems, "problem end time", p.EndTime, " when the problem is resolved")
	}
	if p.Support.Required() {
		problems = checkTime(problems, "online support start time", p.Support.StartTime, "")
		problems = checkTime(problems, "online support end time", p.Support.EndTime, "")
		if blank(p.Support.EngineerName) {
			problems = append(problems, "name of the supporting engineer is required")
		}
	}
	return problems
}

func validationError(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}
