package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/sitelog/internal/aggregate"
	"github.com/Tiliavir/sitelog/internal/journal"
)

var (
	historyDate string
	historyAll  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the reports submitted from this machine",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <journal-id>",
	Short: "Retry the daily summary update of a submission",
	Args:  cobra.ExactArgs(1),
	RunE:  runReconcile,
}

func init() {
	historyCmd.Flags().StringVar(&historyDate, "date", "", "Report date YYYY-MM-DD (default today)")
	historyCmd.Flags().BoolVar(&historyAll, "all", false, "Show every recorded submission")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a := loadApp()
	date := ""
	if !historyAll {
		d, err := a.reportDate(historyDate)
		if err != nil {
			fail(err)
		}
		date = d
	}

	j := a.openJournal()
	defer j.Close()
	entries, err := j.List(cmd.Context(), date)
	if err != nil {
		fail(err)
	}
	if len(entries) == 0 {
		fmt.Println("No submissions recorded.")
		return nil
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 50
	tbl.AddRow(bold.Sprint("Journal ID"), bold.Sprint("Date"), bold.Sprint("Period"), bold.Sprint("Project"),
		bold.Sprint("Report"), bold.Sprint("Summary"), bold.Sprint("Submitted"))
	for _, e := range entries {
		summary := color.GreenString(string(e.Aggregate))
		if e.Aggregate == journal.AggregateFailed {
			summary = color.RedString("%s: %s", e.Aggregate, e.Message)
		}
		tbl.AddRow(e.ID, e.ReportDate, e.Period, e.Project, "#"+e.ReportID.String(), summary,
			e.CreatedAt.In(a.loc).Format("2006-01-02 15:04"))
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	return nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	a := loadApp()
	ctx := cmd.Context()

	j := a.openJournal()
	defer j.Close()
	e, err := j.Get(ctx, args[0])
	if err != nil {
		fail(err)
	}
	if e.Aggregate == journal.AggregateMerged {
		fmt.Printf("Submission %s is already part of the daily summary.\n", e.ID)
		return nil
	}

	rec, err := a.reconciler(a.requireClient(ctx)).Reconcile(ctx, aggregate.Contribution{
		Date:        e.ReportDate,
		PeriodLabel: e.Period,
		Entry:       e.Payload.Entry(),
		Header:      e.Payload.Header(),
	})
	if err != nil {
		fail(err)
	}
	if err := j.MarkMerged(ctx, e.ID); err != nil {
		fail(err)
	}
	fmt.Fprintln(color.Output, color.GreenString("Daily summary updated."))
	printAggregate(rec)
	return nil
}
