package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/sitelog/internal/aggregate"
	"github.com/Tiliavir/sitelog/internal/model"
	"github.com/Tiliavir/sitelog/internal/report"
	"github.com/Tiliavir/sitelog/internal/session"
	"github.com/Tiliavir/sitelog/internal/storage"
)

var (
	draftEntry   entryFlags
	draftProject string
	draftDate    string
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Edit the draft report of the active period",
}

var draftSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set fields of the active period's draft",
	Args:  cobra.NoArgs,
	RunE:  runDraftSet,
}

var draftShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the drafts of a day",
	Args:  cobra.NoArgs,
	RunE:  runDraftShow,
}

var draftClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset the active period's draft",
	Args:  cobra.NoArgs,
	RunE:  runDraftClear,
}

func init() {
	draftEntry.register(draftSetCmd.Flags())
	draftSetCmd.Flags().StringVar(&draftProject, "project", "", "Project the day's reports are for")
	draftShowCmd.Flags().StringVar(&draftDate, "date", "", "Report date YYYY-MM-DD (default today)")

	draftCmd.AddCommand(draftSetCmd)
	draftCmd.AddCommand(draftShowCmd)
	draftCmd.AddCommand(draftClearCmd)
}

// activeState resolves today's active period. Drafts may only change for
// that period. When the backend cannot be asked the period is derived from
// the clock alone.
func activeState(ctx context.Context, a *app) (string, session.PeriodState) {
	date := a.today()
	client, tok := a.client(ctx)
	tracker := a.tracker(client)

	snap := tracker.Recompute()
	if tok != nil {
		s, err := tracker.Load(ctx, date)
		if err != nil {
			warn("could not load submitted reports, using the clock only: %v", err)
		} else {
			snap = s
		}
	}
	st, ok := snap.Active()
	if !ok {
		fail(report.ErrNoActiveSession)
	}
	return date, st
}

func runDraftSet(cmd *cobra.Command, args []string) error {
	a := loadApp()
	date, st := activeState(cmd.Context(), a)
	df, err := storage.LoadDrafts(a.draftsDir(), date)
	if err != nil {
		fail(err)
	}

	entry := df.Drafts[st.Period.Label]
	changed := draftEntry.apply(cmd.Flags(), &entry)
	if !changed && !cmd.Flags().Changed("project") {
		fail(fmt.Errorf("%w: nothing to set; pass at least one field flag", errUsage))
	}

	if changed {
		if df, err = storage.UpdateDraft(a.draftsDir(), date, st.Period.Label, entry); err != nil {
			fail(err)
		}
	}
	if cmd.Flags().Changed("project") {
		if df, err = storage.SetProject(a.draftsDir(), date, draftProject); err != nil {
			fail(err)
		}
	}

	fmt.Printf("Draft for %s (%s) saved.\n", st.Period.Label, date)
	printDraft(st.Period.Label, df.Drafts[st.Period.Label])
	return nil
}

func runDraftShow(cmd *cobra.Command, args []string) error {
	a := loadApp()
	date, err := a.reportDate(draftDate)
	if err != nil {
		fail(err)
	}
	df, err := storage.LoadDrafts(a.draftsDir(), date)
	if err != nil {
		fail(err)
	}

	fmt.Printf("Drafts for %s", date)
	if df.Project != "" {
		fmt.Printf(" (project %s)", df.Project)
	}
	fmt.Println()
	empty := true
	for _, label := range periodLabels(a) {
		if e, ok := df.Drafts[label]; ok && !e.IsEmpty() {
			printDraft(label, e)
			empty = false
		}
	}
	if empty {
		fmt.Println("No drafts.")
		return nil
	}
	if total := aggregate.DisplayTotal(storage.Achievements(df, periodLabels(a))); total != "" {
		fmt.Printf("Total: %s\n", total)
	}
	return nil
}

func runDraftClear(cmd *cobra.Command, args []string) error {
	a := loadApp()
	date, st := activeState(cmd.Context(), a)
	if _, err := storage.ClearDraft(a.draftsDir(), date, st.Period.Label); err != nil {
		fail(err)
	}
	fmt.Printf("Draft for %s (%s) cleared.\n", st.Period.Label, date)
	return nil
}

func printDraft(label string, e model.HourlyEntry) {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 70
	_, _ = fmt.Fprintln(color.Output, bold.Sprint(label))
	rows := [][2]string{
		{"Activity", e.Activity},
		{"Achievement", e.Achievement},
		{"Problem", e.Problem.Description},
		{"Resolved", e.Problem.Resolved},
		{"Problem time", joinRange(e.Problem.StartTime, e.Problem.EndTime)},
		{"Online support", e.Problem.Support.Problem},
		{"Support time", joinRange(e.Problem.Support.StartTime, e.Problem.Support.EndTime)},
		{"Support engineer", e.Problem.Support.EngineerName},
		{"Engineer remark", e.EngineerRemark},
		{"Incharge remark", e.InchargeRemark},
	}
	for _, r := range rows {
		if r[1] != "" {
			tbl.AddRow("  "+r[0], r[1])
		}
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

func joinRange(from, to string) string {
	if from == "" && to == "" {
		return ""
	}
	return from + "-" + to
}
