package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/sitelog/internal/schedule"
	"github.com/Tiliavir/sitelog/internal/timecalc"
)

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "Show the reporting periods and which one is open now",
	Args:  cobra.NoArgs,
	RunE:  runPeriods,
}

func runPeriods(cmd *cobra.Command, args []string) error {
	a := loadApp()
	now := a.now()

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Period"), bold.Sprint("Name"), bold.Sprint("Hours"), bold.Sprint("Now"))
	for _, p := range a.cfg.Periods {
		tbl.AddRow(p.Label, p.Name, fmt.Sprintf("%02d:00-%02d:00", p.StartHour, p.EndHour), describePeriod(p, now))
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	return nil
}

// describePeriod renders the classification of p at now.
func describePeriod(p schedule.Period, now time.Time) string {
	c := schedule.Classify(p, now)
	left := timecalc.FormatDuration(int64(schedule.GraceEnds(p, now).Sub(now).Seconds()))
	switch {
	case c.Future:
		return color.YellowString("upcoming")
	case c.Open:
		return color.GreenString("open, editable for %s", left)
	case c.Grace:
		return color.HiYellowString("grace window, editable for %s", left)
	}
	return color.RedString("closed")
}
