package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/sitelog/internal/model"
	"github.com/Tiliavir/sitelog/internal/storage"
)

var (
	summaryDate    string
	summaryProject string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the daily summary of a project",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryDate, "date", "", "Report date YYYY-MM-DD (default today)")
	summaryCmd.Flags().StringVar(&summaryProject, "project", "", "Project name (default: the project set on the drafts)")
}

func runSummary(cmd *cobra.Command, args []string) error {
	a := loadApp()
	ctx := cmd.Context()

	date, err := a.reportDate(summaryDate)
	if err != nil {
		fail(err)
	}
	project := strings.TrimSpace(summaryProject)
	if project == "" {
		df, err := storage.LoadDrafts(a.draftsDir(), date)
		if err != nil {
			fail(err)
		}
		project = df.Project
	}
	if project == "" {
		fail(fmt.Errorf("%w: --project is required", errUsage))
	}

	rec, err := a.reconciler(a.requireClient(ctx)).Current(ctx, date, project)
	if err != nil {
		fail(err)
	}
	if rec == nil {
		fmt.Printf("No daily summary for %s on %s yet.\n", project, date)
		return nil
	}
	printAggregate(*rec)
	return nil
}

func printAggregate(rec model.DailyAggregate) {
	bold := color.New(color.Bold)
	_, _ = fmt.Fprintln(color.Output, bold.Sprintf("Daily summary #%s: %s, %s", rec.ID, rec.ProjectName, rec.ReportDate))

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 80
	rows := [][2]string{
		{"Customer", rec.CustomerName},
		{"Project incharge", rec.ProjectIncharge},
		{"Site location", rec.SiteLocation},
		{"Site dates", joinRange(rec.SiteStartDate, rec.SiteEndDate)},
		{"Target planned", rec.DailyTargetPlanned},
		{"Target achieved", rec.DailyTargetAchieved},
		{"Additional activity", rec.AdditionalActivity},
		{"Problems", rec.ProblemFaced},
	}
	for _, r := range rows {
		if r[1] != "" {
			tbl.AddRow("  "+r[0], r[1])
		}
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}
