package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bundlex-labs/bundlex/internal/branding"
	"github.com/bundlex-labs/bundlex/internal/config"
	"github.com/bundlex-labs/bundlex/internal/project"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a project",
	Long: `Create the ` + branding.ProjectDir() + ` settings directory, a config file, the content root
and an empty registry document in the current directory (or --project).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(flagProject)
		if err != nil {
			return err
		}
		cfg, err := config.Load(root)
		if err != nil {
			return err
		}
		settings, err := cfg.Settings()
		if err != nil {
			return err
		}
		l := settings.Layout
		if flagDocument != "" {
			if l.Document, err = filepath.Abs(flagDocument); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Initializing project at %s\n", l.Root)
		if err := project.Init(out, l); err != nil {
			return fmt.Errorf("initializing project: %w", err)
		}
		fmt.Fprintln(out, "\nProject initialized successfully.")
		return nil
	},
}
