package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/sitelog/internal/notify"
	"github.com/Tiliavir/sitelog/internal/report"
	"github.com/Tiliavir/sitelog/internal/session"
)

var watchNoNotify bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow today's periods and notify on changes",
	Long: `Keep the period status of today up to date, print every change and show
desktop notifications when a period opens, enters its grace window without a
report or is missed. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchNoNotify, "no-notify", false, "Do not show desktop notifications")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a := loadApp()
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, tok := a.client(ctx)
	if tok == nil {
		fail(report.ErrUnauthenticated)
	}

	opts := []session.Option{session.OnChange(printTransition)}
	if a.cfg.Notify.Enabled && !watchNoNotify {
		opts = append(opts, session.OnChange(notify.New(nil, a.logger).Listener()))
	}
	tracker := a.tracker(client, opts...)

	snap, err := tracker.Load(ctx, a.today())
	if err != nil {
		fail(err)
	}
	printSnapshot(snap)

	if err := tracker.Start(ctx); err != nil {
		fail(err)
	}
	defer tracker.Stop()

	ticker := time.NewTicker(a.cfg.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			fmt.Println("Stopped.")
			return nil
		case <-ticker.C:
			refresh(ctx, a, tracker)
		}
	}
}

// refresh re-fetches the submitted reports, switching to the new report
// date after midnight. Failures keep the previous data.
func refresh(ctx context.Context, a *app, tracker *session.Tracker) {
	var err error
	if today := a.today(); tracker.Date() != today {
		_, err = tracker.Load(ctx, today)
	} else {
		_, err = tracker.Refresh(ctx)
	}
	if err != nil && ctx.Err() == nil {
		warn("refresh failed: %v", err)
	}
}

func printTransition(prev, next session.Snapshot) {
	if prev.Date != next.Date {
		if prev.Date != "" {
			fmt.Fprintf(color.Output, "\nNew report date %s\n", next.Date)
		}
		return
	}
	for _, st := range next.States {
		old, ok := prev.ByLabel(st.Period.Label)
		if !ok || old.Status == st.Status {
			continue
		}
		fmt.Fprintf(color.Output, "%s  %s: %s -> %s\n", next.At.Format("15:04"), st.Period.Label,
			old.Status, statusColor(st.Status).Sprint(st.Status))
	}
}
