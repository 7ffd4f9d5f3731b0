package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/sitelog/internal/export"
	"github.com/Tiliavir/sitelog/internal/model"
	"github.com/Tiliavir/sitelog/internal/session"
	"github.com/Tiliavir/sitelog/internal/storage"
)

var (
	exportFormat  string
	exportDate    string
	exportProject string
	exportOutput  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the period status and daily summary of a day",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md, yaml, xlsx")
	exportCmd.Flags().StringVar(&exportDate, "date", "", "Report date YYYY-MM-DD (default today)")
	exportCmd.Flags().StringVar(&exportProject, "project", "", "Project of the daily summary (default: the project set on the drafts)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	a := loadApp()
	ctx := cmd.Context()

	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		fail(fmt.Errorf("%w: %v", errUsage, err))
	}
	if format.Binary() && exportOutput == "" {
		fail(fmt.Errorf("%w: --format %s needs --output <file>", errUsage, format))
	}
	date, err := a.reportDate(exportDate)
	if err != nil {
		fail(err)
	}

	client := a.requireClient(ctx)
	snap, err := a.tracker(client).Load(ctx, date)
	if err != nil {
		fail(err)
	}

	project := strings.TrimSpace(exportProject)
	if project == "" {
		if df, err := storage.LoadDrafts(a.draftsDir(), date); err == nil {
			project = df.Project
		}
	}
	if project == "" {
		project = firstProject(snap.States)
	}
	var agg *model.DailyAggregate
	if project != "" {
		if agg, err = a.reconciler(client).Current(ctx, date, project); err != nil {
			warn("daily summary unavailable: %v", err)
		}
	}

	doc := export.Build(date, snap.States, agg)

	var w io.Writer = os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			fail(err)
		}
		defer f.Close()
		w = f
	}
	if err := export.Write(w, format, doc); err != nil {
		fail(err)
	}
	if exportOutput != "" {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", exportOutput)
	}
	return nil
}

// firstProject returns the project of the earliest submitted report.
func firstProject(states []session.PeriodState) string {
	for _, st := range states {
		if st.Report != nil && st.Report.ProjectName != "" {
			return st.Report.ProjectName
		}
	}
	return ""
}
