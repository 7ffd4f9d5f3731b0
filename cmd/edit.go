package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Tiliavir/sitelog/internal/model"
	"github.com/Tiliavir/sitelog/internal/report"
)

var (
	editEntry   entryFlags
	editDate    string
	editPeriod  string
	editProject string
	editTarget  string
)

var editCmd = &cobra.Command{
	Use:   "edit <report-id>",
	Short: "Replace the fields of a submitted report",
	Long: `Replace a submitted report. Fields not given on the command line keep
their stored value; the whole report is then sent again. Edits are not
limited to the period's reporting window and do not change the daily summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	registerEditFlags(editCmd.Flags())
}

func registerEditFlags(fs *pflag.FlagSet) {
	editEntry.register(fs)
	fs.StringVar(&editDate, "date", "", "Report date YYYY-MM-DD (default today)")
	fs.StringVar(&editPeriod, "period", "", "Period label (default: the stored one)")
	fs.StringVar(&editProject, "project", "", "Project name (default: the stored one)")
	fs.StringVar(&editTarget, "target", "", "Daily target planned (default: the stored one)")
}

// mergeEdit overlays the flags given in fs on the stored report. resolve
// returns the header fields of a project. The stored daily target survives
// a project change unless --target is given too.
func mergeEdit(fs *pflag.FlagSet, existing model.ExistingReport, resolve func(project string) model.Header) (model.HourlyEntry, model.Header, string) {
	entry := existing.Entry()
	editEntry.apply(fs, &entry)

	project := existing.ProjectName
	if fs.Changed("project") {
		project = editProject
	}
	header := resolve(project)
	header.DailyTargetPlanned = existing.DailyTargetPlanned
	if fs.Changed("target") {
		header.DailyTargetPlanned = editTarget
	}

	label := existing.TimePeriod
	if fs.Changed("period") {
		label = editPeriod
	}
	return entry, header, label
}

func runEdit(cmd *cobra.Command, args []string) error {
	a := loadApp()
	ctx := cmd.Context()
	id := model.ID(strings.TrimSpace(args[0]))

	date, err := a.reportDate(editDate)
	if err != nil {
		fail(err)
	}
	client, tok := a.client(ctx)
	if tok == nil {
		fail(report.ErrUnauthenticated)
	}

	reports, err := client.FetchReports(ctx, date)
	if err != nil {
		fail(err)
	}
	var existing *model.ExistingReport
	for i := range reports {
		if reports[i].ID == id {
			existing = &reports[i]
			break
		}
	}
	if existing == nil {
		fail(fmt.Errorf("%w: no report #%s on %s", errUsage, id, date))
	}

	entry, header, label := mergeEdit(cmd.Flags(), *existing, func(project string) model.Header {
		return resolveHeader(ctx, a, client, project)
	})

	coord := report.NewCoordinator(client, a.tracker(client), nil, report.WithLogger(a.logger))
	if _, err := coord.Edit(ctx, report.EditRequest{
		Actor:       a.actor(tok),
		ReportID:    id,
		ReportDate:  date,
		PeriodLabel: label,
		Entry:       entry,
		Header:      header,
	}); err != nil {
		fail(err)
	}

	fmt.Fprintln(color.Output, color.GreenString("Report #%s (%s, %s) updated.", id, label, date))
	return nil
}
