package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/sitelog/internal/backend"
	"github.com/Tiliavir/sitelog/internal/datasource"
	"github.com/Tiliavir/sitelog/internal/journal"
	"github.com/Tiliavir/sitelog/internal/model"
	"github.com/Tiliavir/sitelog/internal/report"
	"github.com/Tiliavir/sitelog/internal/storage"
)

var (
	submitDate    string
	submitProject string
	submitPeriod  string
	submitTarget  string
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit the active period's draft",
	Long: `Submit the draft of the active period to the backend.

The report is accepted only while its period is open or within 30 minutes
after it ends. After the report is stored it is folded into the project's
daily summary; if that second step fails the report stays submitted and the
merge can be retried with "sitelog reconcile".`,
	Args: cobra.NoArgs,
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&submitDate, "date", "", "Report date YYYY-MM-DD (default today)")
	submitCmd.Flags().StringVar(&submitProject, "project", "", "Project name (default: the project set on the drafts)")
	submitCmd.Flags().StringVar(&submitPeriod, "period", "", "Period label (default: the active period)")
	submitCmd.Flags().StringVar(&submitTarget, "target", "", "Daily target planned")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	a := loadApp()
	ctx := cmd.Context()

	date, err := a.reportDate(submitDate)
	if err != nil {
		fail(err)
	}
	client, tok := a.client(ctx)
	tracker := a.tracker(client)
	coord := report.NewCoordinator(client, tracker, a.reconciler(client), report.WithLogger(a.logger))

	label := strings.TrimSpace(submitPeriod)
	if label == "" && tok != nil {
		snap, err := tracker.Load(ctx, date)
		if err != nil {
			fail(err)
		}
		st, ok := snap.Active()
		if !ok {
			fail(report.ErrNoActiveSession)
		}
		label = st.Period.Label
	}

	df, err := storage.LoadDrafts(a.draftsDir(), date)
	if err != nil {
		fail(err)
	}
	project := strings.TrimSpace(submitProject)
	if project == "" {
		project = df.Project
	}
	header := resolveHeader(ctx, a, client, project)
	if submitTarget != "" {
		header.DailyTargetPlanned = submitTarget
	}

	res, err := coord.Submit(ctx, report.SubmitRequest{
		Actor:       a.actor(tok),
		ReportDate:  date,
		PeriodLabel: label,
		Entry:       df.Drafts[label],
		Header:      header,
	})
	if err != nil {
		fail(err)
	}

	fmt.Fprintln(color.Output, color.GreenString("Report #%s submitted for %s (%s).", res.ReportID, res.Period.Label, date))

	entry := journal.Entry{
		ReportDate: date,
		Period:     res.Period.Label,
		Project:    header.ProjectName,
		ReportID:   res.ReportID,
		Aggregate:  journal.AggregateMerged,
		Payload:    res.Payload,
	}
	var reconcileWarn *report.ReconcileWarning
	for _, w := range res.Warnings {
		if errors.As(w, &reconcileWarn) {
			entry.Aggregate = journal.AggregateFailed
			entry.Message = reconcileWarn.Err.Error()
		}
	}

	j := a.openJournal()
	defer j.Close()
	rec, err := j.Record(ctx, entry)
	if err != nil {
		warn("could not record the submission locally: %v", err)
	}

	if _, err := storage.ClearDraft(a.draftsDir(), date, res.Period.Label); err != nil {
		warn("could not clear the submitted draft: %v", err)
	}

	for _, w := range res.Warnings {
		warn("%v", w)
		if errors.Is(w, report.ErrAggregateReconciliationFailed) && rec.ID != "" {
			fmt.Fprintf(os.Stderr, "  Retry the daily summary with: sitelog reconcile %s\n", rec.ID)
		}
	}
	if res.Aggregate != nil {
		fmt.Printf("Daily summary: %s\n", res.Aggregate.DailyTargetAchieved)
	}
	return nil
}

// resolveHeader fills the header fields of project from the assigned
// project list. Lookup problems only cost the optional fields.
func resolveHeader(ctx context.Context, a *app, client *backend.Client, project string) model.Header {
	header := model.Header{ProjectName: project}
	if project == "" || a.cfg.Employee.ID == "" {
		return header
	}
	res, err := a.projects(client).Lookup(ctx, a.cfg.Employee.ID)
	if err != nil {
		a.logger.Warn("project lookup failed", "error", err)
		return header
	}
	if res.Degraded {
		warn("backend unreachable for project details, using the cached copy")
	}
	if p, ok := datasource.Find(res.Projects, project); ok {
		h := p.Header()
		h.ProjectName = project
		return h
	}
	return header
}
