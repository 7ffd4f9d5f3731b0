package cmd

import (
	"github.com/spf13/pflag"

	"github.com/Tiliavir/sitelog/internal/model"
)

// entryFlags are the HourlyEntry fields settable from the command line.
type entryFlags struct {
	activity        string
	achievement     string
	problem         string
	resolved        string
	problemStart    string
	problemEnd      string
	support         string
	supportStart    string
	supportEnd      string
	supportEngineer string
	engineerRemark  string
	inchargeRemark  string
}

func (f *entryFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.activity, "activity", "", "What was worked on")
	fs.StringVar(&f.achievement, "achievement", "", "What was achieved")
	fs.StringVar(&f.problem, "problem", "", "Problem faced")
	fs.StringVar(&f.resolved, "resolved", "", `Whether the problem was resolved: "yes" or "no"`)
	fs.StringVar(&f.problemStart, "problem-start", "", "When the problem occurred (HH:MM)")
	fs.StringVar(&f.problemEnd, "problem-end", "", "When the problem was resolved (HH:MM)")
	fs.StringVar(&f.support, "support", "", "Problem online support was needed for")
	fs.StringVar(&f.supportStart, "support-start", "", "Online support start (HH:MM)")
	fs.StringVar(&f.supportEnd, "support-end", "", "Online support end (HH:MM)")
	fs.StringVar(&f.supportEngineer, "support-engineer", "", "Engineer who gave online support")
	fs.StringVar(&f.engineerRemark, "engineer-remark", "", "Engineer remark")
	fs.StringVar(&f.inchargeRemark, "incharge-remark", "", "Project incharge remark")
}

// apply copies every flag given on the command line into e.
func (f *entryFlags) apply(fs *pflag.FlagSet, e *model.HourlyEntry) (changed bool) {
	fields := []struct {
		name string
		src  string
		dst  *string
	}{
		{"activity", f.activity, &e.Activity},
		{"achievement", f.achievement, &e.Achievement},
		{"problem", f.problem, &e.Problem.Description},
		{"resolved", f.resolved, &e.Problem.Resolved},
		{"problem-start", f.problemStart, &e.Problem.StartTime},
		{"problem-end", f.problemEnd, &e.Problem.EndTime},
		{"support", f.support, &e.Problem.Support.Problem},
		{"support-start", f.supportStart, &e.Problem.Support.StartTime},
		{"support-end", f.supportEnd, &e.Problem.Support.EndTime},
		{"support-engineer", f.supportEngineer, &e.Problem.Support.EngineerName},
		{"engineer-remark", f.engineerRemark, &e.EngineerRemark},
		{"incharge-remark", f.inchargeRemark, &e.InchargeRemark},
	}
	for _, fld := range fields {
		if fs.Changed(fld.name) {
			*fld.dst = fld.src
			changed = true
		}
	}
	return changed
}
