package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/bundlex-labs/bundlex/internal/branding"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagProject     string
	flagDocument    string
	flagMetricsFile string
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` maintains the registry of deployable content bundles for a project:
named, optionally variant-qualified bundles and the content items assigned to them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		session = nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if session != nil {
			session.writeMetrics()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagProject, "project", "", "Project root (default: nearest directory containing "+branding.ProjectDir()+")")
	pf.StringVar(&flagDocument, "document", "", "Registry document path (overrides config)")
	pf.StringVar(&flagMetricsFile, "metrics-file", "", "Write registry metrics to this file in Prometheus text format")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command with build info injected via ldflags.
// An interrupt cancels the command context.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
