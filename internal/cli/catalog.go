package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bundlex-labs/bundlex/internal/catalog"
)

var scanFix bool

func init() {
	catalogScanCmd.Flags().BoolVar(&scanFix, "fix", false, "Write sidecars with fresh identifiers for content files that lack one")
	catalogCmd.AddCommand(catalogScanCmd, catalogResolveCmd)
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the content catalog",
	Long: `Inspect the content catalog: the identifier sidecars (*` + catalog.SidecarExt + `) found under
the project's content root.`,
}

var catalogScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Rescan the content root and rebuild the catalog cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		l := e.settings.Layout
		cat, err := catalog.Rebuild(cmd.Context(), l.AssetsRoot, l.Root, l.CatalogCache)
		if err != nil {
			return fmt.Errorf("scanning %s: %w", l.AssetsRoot, err)
		}

		out := cmd.OutOrStdout()
		if scanFix {
			added, err := catalog.FixMissing(cat, l.Root)
			for _, a := range added {
				fmt.Fprintf(out, "  [FIX ] %s -> %s\n", a.Path, a.GUID)
			}
			if err != nil {
				return err
			}
			if len(added) > 0 {
				// New sidecars changed the tree; refresh the cache.
				if cat, err = catalog.Rebuild(cmd.Context(), l.AssetsRoot, l.Root, l.CatalogCache); err != nil {
					return err
				}
			}
		}

		printer.Fprintf(out, "Scanned %s: %d identified items\n", l.AssetsRoot, cat.Len())
		for _, c := range cat.Conflicts() {
			fmt.Fprintf(out, "  [WARN] %s: identifier %s already used by %s\n", c.Path, c.GUID, c.Kept)
		}
		for _, p := range cat.Invalid() {
			fmt.Fprintf(out, "  [WARN] %s: no readable identifier\n", p)
		}
		for _, p := range cat.Unidentified() {
			fmt.Fprintf(out, "  [MISS] %s has no sidecar\n", p)
		}
		return nil
	},
}

var catalogResolveCmd = &cobra.Command{
	Use:   "resolve <guid>",
	Short: "Print the content path of an identifier",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		cat, err := e.openCatalog(cmd)
		if err != nil {
			return err
		}
		path, ok := cat.ResolveGUIDToPath(args[0])
		if !ok {
			return fmt.Errorf("identifier %s is not in the catalog", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}
