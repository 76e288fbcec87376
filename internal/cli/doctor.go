package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bundlex-labs/bundlex/internal/project"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the project",
	Long: `Run diagnostic checks on the project: settings, registry document, content
catalog, and asset records that no longer resolve. Nothing is modified.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		rep := project.Check(cmd.Context(), cmd.OutOrStdout(), e.settings.Layout)
		if !rep.Healthy() {
			return fmt.Errorf("doctor found %d failing checks", rep.Failures)
		}
		return nil
	},
}
