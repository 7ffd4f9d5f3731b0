package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/sitelog/internal/aggregate"
	"github.com/Tiliavir/sitelog/internal/session"
	"github.com/Tiliavir/sitelog/internal/storage"
)

var statusDate string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the reporting status of every period",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusDate, "date", "", "Report date YYYY-MM-DD (default today)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	a := loadApp()
	ctx := cmd.Context()

	date, err := a.reportDate(statusDate)
	if err != nil {
		fail(err)
	}

	client := a.requireClient(ctx)
	snap, err := a.tracker(client).Load(ctx, date)
	if err != nil {
		fail(err)
	}
	printSnapshot(snap)

	df, err := storage.LoadDrafts(a.draftsDir(), date)
	if err != nil {
		fail(err)
	}
	if total := aggregate.DisplayTotal(storage.Achievements(df, periodLabels(a))); total != "" {
		fmt.Println()
		fmt.Printf("Drafted achievements: %s\n", total)
	}
	return nil
}

func periodLabels(a *app) []string {
	labels := make([]string, len(a.cfg.Periods))
	for i, p := range a.cfg.Periods {
		labels[i] = p.Label
	}
	return labels
}

func statusColor(s session.Status) *color.Color {
	switch s {
	case session.StatusActive:
		return color.New(color.FgGreen, color.Bold)
	case session.StatusSubmitted:
		return color.New(color.FgCyan)
	case session.StatusMissed:
		return color.New(color.FgRed)
	}
	return color.New(color.FgYellow)
}

func printSnapshot(snap session.Snapshot) {
	bold := color.New(color.Bold)
	fmt.Fprintf(color.Output, "%s %s (as of %s)\n", bold.Sprint("Report date"), snap.Date, snap.At.Format("15:04"))

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(bold.Sprint("Period"), bold.Sprint("Name"), bold.Sprint("Status"), bold.Sprint("Report"))
	for _, st := range snap.States {
		detail := ""
		if st.Report != nil {
			detail = fmt.Sprintf("#%s %s", st.Report.ID, st.Report.HourlyAchieved)
		} else if st.CanEdit {
			detail = "open for submission"
		}
		tbl.AddRow(st.Period.Label, st.Period.Name, statusColor(st.Status).Sprint(st.Status), detail)
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}
