package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"

	"github.com/Tiliavir/sitelog/internal/version"
)

var (
	versionShort  bool
	versionOutput string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		resp := goversion.FuncWithOutput(versionShort, version.Version, version.Commit, version.Date, versionOutput)
		fmt.Print(resp)
	},
}

func init() {
	versionCmd.Flags().BoolVarP(&versionShort, "short", "s", false, "Print just the version number.")
	versionCmd.Flags().StringVarP(&versionOutput, "output", "o", "json", "Output format. One of 'yaml' or 'json'.")
}
