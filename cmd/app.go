package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/oauth2"

	"github.com/Tiliavir/sitelog/internal/aggregate"
	"github.com/Tiliavir/sitelog/internal/backend"
	"github.com/Tiliavir/sitelog/internal/config"
	"github.com/Tiliavir/sitelog/internal/datasource"
	"github.com/Tiliavir/sitelog/internal/journal"
	"github.com/Tiliavir/sitelog/internal/report"
	"github.com/Tiliavir/sitelog/internal/session"
	"github.com/Tiliavir/sitelog/internal/storage"
	"github.com/Tiliavir/sitelog/internal/timecalc"
)

// errUsage marks mistakes in the command line itself.
var errUsage = errors.New("invalid arguments")

// app bundles what every command needs after the configuration is loaded.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	loc    *time.Location
}

// loadApp reads and validates the configuration. Failures exit with code 1.
func loadApp() *app {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration in %s:\n%v\n", cfg.Path, err)
		os.Exit(1)
	}
	return &app{
		cfg:    cfg,
		logger: newLogger(cfg.Log.Level, verbose),
		loc:    cfg.Location(),
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	}
	return slog.LevelWarn
}

func newLogger(level string, verbose bool) *slog.Logger {
	lvl := parseLevel(level)
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func (a *app) now() time.Time { return time.Now().In(a.loc) }

func (a *app) today() string { return timecalc.FormatReportDate(a.now()) }

// reportDate normalizes a --date flag, defaulting to today.
func (a *app) reportDate(flag string) (string, error) {
	if strings.TrimSpace(flag) == "" {
		return a.today(), nil
	}
	d, err := timecalc.NormalizeReportDate(flag, a.loc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errUsage, err)
	}
	return d, nil
}

func (a *app) draftsDir() string { return storage.DraftsDir(a.cfg.DataDir) }

// token returns the bearer credential: SITELOG_TOKEN first, then the stored login.
func (a *app) token() (*oauth2.Token, error) {
	if a.cfg.Token != "" {
		return backend.TokenFromString(a.cfg.Token)
	}
	return backend.LoadToken(a.cfg.DataDir)
}

// client builds a backend client. A missing credential yields an
// unauthenticated client so commands can report the precondition themselves.
func (a *app) client(ctx context.Context) (*backend.Client, *oauth2.Token) {
	tok, err := a.token()
	if err != nil && !errors.Is(err, backend.ErrNoCredential) {
		a.logger.Warn("stored credential unusable", "error", err)
	}
	return backend.NewClient(ctx, a.cfg.API.BaseURL, tok,
		backend.WithTimeout(a.cfg.API.Timeout),
		backend.WithLogger(a.logger)), tok
}

// requireClient is client for commands that cannot do anything without a login.
func (a *app) requireClient(ctx context.Context) *backend.Client {
	c, tok := a.client(ctx)
	if tok == nil {
		fail(report.ErrUnauthenticated)
	}
	return c
}

func (a *app) actor(tok *oauth2.Token) report.Actor {
	return report.Actor{
		EmployeeID:   a.cfg.Employee.ID,
		EmployeeName: a.cfg.Employee.Name,
		Token:        tok,
	}
}

func (a *app) tracker(f session.Fetcher, opts ...session.Option) *session.Tracker {
	base := []session.Option{
		session.WithLocation(a.loc),
		session.WithInterval(a.cfg.RefreshInterval),
		session.WithLogger(a.logger),
	}
	return session.NewTracker(f, a.cfg.Periods, append(base, opts...)...)
}

func (a *app) reconciler(c *backend.Client) *aggregate.Reconciler {
	return aggregate.NewReconciler(c, a.logger)
}

func (a *app) projects(c *backend.Client) *datasource.Fallback {
	return datasource.WithFallback(datasource.NewLive(c), datasource.NewOffline(datasource.CacheDir(a.cfg.DataDir)), a.logger)
}

func (a *app) openJournal() *journal.Journal {
	j, err := journal.Open(journal.Path(a.cfg.DataDir))
	if err != nil {
		fail(err)
	}
	return j
}

// exitCode maps an error to the process exit status: 1 for mistakes the
// user can fix, 2 for storage and network failures.
func exitCode(err error) int {
	userErrors := []error{
		errUsage,
		report.ErrUnauthenticated,
		report.ErrNoActiveSession,
		report.ErrValidationFailed,
		report.ErrDuplicateSubmission,
		backend.ErrNoCredential,
		journal.ErrNotFound,
		datasource.ErrNoCache,
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return 1
		}
	}
	return 2
}

// fail prints err and exits with its exit code.
func fail(err error) {
	var verr *report.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(os.Stderr, "Report is incomplete:")
		for _, p := range verr.Problems {
			fmt.Fprintf(os.Stderr, "  - %s\n", p)
		}
		os.Exit(1)
	}
	if errors.Is(err, report.ErrUnauthenticated) {
		fmt.Fprintln(os.Stderr, "Not logged in. Run `sitelog login --token <token>` or set SITELOG_TOKEN.")
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(exitCode(err))
}

// warn prints a non-fatal problem to stderr.
func warn(format string, args ...any) {
	fmt.Fprintln(os.Stderr, color.YellowString("Warning: "+format, args...))
}
