package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bundlex-labs/bundlex/internal/catalog"
	"github.com/bundlex-labs/bundlex/internal/registry"
)

var (
	assetListBundle string
	assetListJSON   bool
)

func init() {
	assetListCmd.Flags().StringVar(&assetListBundle, "bundle", "", "Only list assets of this bundle")
	assetListCmd.Flags().BoolVar(&assetListJSON, "json", false, "Output in JSON format")

	assetCmd.AddCommand(assetAssignCmd, assetUnassignCmd, assetListCmd)
	rootCmd.AddCommand(assetCmd)
}

var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "Assign content items to bundles",
	Long: `Assign and unassign content items.

A content item is addressed by its identifier or by its path relative to
the project root, e.g. Assets/ui/icon.png.`,
}

var assetAssignCmd = &cobra.Command{
	Use:   "assign <guid|path> <bundle>",
	Short: "Assign a content item to a bundle",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, cat, e, err := openRegistry(cmd)
		if err != nil {
			return err
		}
		guid, err := resolveItem(r, cat, args[0])
		if err != nil {
			return err
		}
		b, err := lookupBundle(r, args[1])
		if err != nil {
			return err
		}
		if err := r.AssignAsset(guid, b.Name(), b.Variant()); err != nil {
			return err
		}
		if err := e.save(r); err != nil {
			return err
		}
		path, _ := r.AssetPath(guid)
		fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to %s\n", path, b.FullName())
		return nil
	},
}

var assetUnassignCmd = &cobra.Command{
	Use:   "unassign <guid|path>",
	Short: "Remove a content item from its bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, cat, e, err := openRegistry(cmd)
		if err != nil {
			return err
		}
		guid, err := resolveItem(r, cat, args[0])
		if err != nil {
			return err
		}
		owner, ok := r.Owner(guid)
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is not assigned to any bundle\n", args[0])
			return nil
		}
		if err := r.UnassignAsset(guid); err != nil {
			return err
		}
		if err := e.save(r); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Unassigned %s from %s\n", args[0], owner.FullName())
		return nil
	},
}

var assetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List assigned content items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, _, err := openRegistry(cmd)
		if err != nil {
			return err
		}

		var views []assetView
		if assetListBundle != "" {
			b, err := lookupBundle(r, assetListBundle)
			if err != nil {
				return err
			}
			for _, guid := range b.AssetGUIDs() {
				views = append(views, newAssetView(r, guid, b))
			}
		} else {
			for _, a := range r.Assets() {
				owner, _ := r.Owner(a.GUID())
				views = append(views, newAssetView(r, a.GUID(), owner))
			}
		}

		if assetListJSON {
			if views == nil {
				views = []assetView{}
			}
			return printJSON(cmd, views)
		}
		if len(views) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No assets assigned yet.")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "GUID\tPATH\tBUNDLE")
		for _, v := range views {
			fmt.Fprintf(w, "%s\t%s\t%s\n", v.GUID, v.Path, v.Bundle)
		}
		return w.Flush()
	},
}

// resolveItem maps a command argument to a content identifier. Known
// identifiers win over paths; identifiers already in the registry are
// accepted even when the catalog no longer knows them.
func resolveItem(r *registry.Registry, cat *catalog.Catalog, arg string) (string, error) {
	if _, ok := cat.ResolveGUIDToPath(arg); ok {
		return arg, nil
	}
	if guid, ok := cat.GUIDForPath(arg); ok {
		return guid, nil
	}
	if r.HasAsset(arg) {
		return arg, nil
	}
	return "", fmt.Errorf("%w: no content item with identifier or path %q", registry.ErrAssetUnresolvable, arg)
}
