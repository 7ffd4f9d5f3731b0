package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "sitelog",
	Short: "sitelog – periodic site reports for the project tracker",
	Long: `sitelog files the per-period activity reports of a site engineer.

A working day is split into fixed reporting periods. Each period can be
reported while it is open and for 30 minutes after it ends; every submitted
report is also folded into the project's daily summary.

Configuration lives in ~/.sitelog/config.yaml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.sitelog/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log diagnostics to stderr")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(periodsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}
