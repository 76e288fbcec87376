package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bundlex-labs/bundlex/internal/branding"
	"github.com/bundlex-labs/bundlex/internal/document"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, buildVersion)
			return nil
		}

		if versionJSON {
			return printJSON(cmd, map[string]string{
				"version":         buildVersion,
				"commit":          buildCommit,
				"date":            buildDate,
				"documentVersion": document.CurrentVersion,
			})
		}

		fmt.Fprintf(out, "%s version %s (commit: %s, built: %s, document format %s)\n",
			branding.CLIName(), buildVersion, buildCommit, buildDate, document.CurrentVersion)
		return nil
	},
}
