package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/sitelog/internal/datasource"
	"github.com/Tiliavir/sitelog/internal/model"
)

var projectsOffline bool

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the projects you are assigned to",
	Args:  cobra.NoArgs,
	RunE:  runProjects,
}

func init() {
	projectsCmd.Flags().BoolVar(&projectsOffline, "offline", false, "Use the cached list without asking the backend")
}

func runProjects(cmd *cobra.Command, args []string) error {
	a := loadApp()
	ctx := cmd.Context()
	if a.cfg.Employee.ID == "" {
		fail(fmt.Errorf("%w: employee.id is not set in %s", errUsage, a.cfg.Path))
	}

	var projects []model.Project
	if projectsOffline {
		p, err := datasource.NewOffline(datasource.CacheDir(a.cfg.DataDir)).Projects(ctx, a.cfg.Employee.ID)
		if err != nil {
			fail(err)
		}
		projects = p
	} else {
		res, err := a.projects(a.requireClient(ctx)).Lookup(ctx, a.cfg.Employee.ID)
		if err != nil {
			fail(err)
		}
		if res.Degraded {
			warn("backend unreachable (%v); showing the cached list", res.Cause)
		}
		projects = res.Projects
	}

	if len(projects) == 0 {
		fmt.Println("No assigned projects.")
		return nil
	}
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Project"), bold.Sprint("Customer"), bold.Sprint("Incharge"),
		bold.Sprint("Site"), bold.Sprint("Dates"))
	for _, p := range projects {
		tbl.AddRow(p.ID.String(), p.ProjectName, p.CustomerName, p.ProjectIncharge, p.SiteLocation, joinRange(p.StartDate, p.EndDate))
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	return nil
}
