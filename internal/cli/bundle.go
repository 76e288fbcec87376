package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bundlex-labs/bundlex/internal/registry"
)

var (
	bundleVariant  string
	bundleLoadType int
	bundlePacked   bool
	bundleGroups   []string
	renameVariant  string
)

func init() {
	bundleAddCmd.Flags().StringVar(&bundleVariant, "variant", "", "Variant of the new bundle")
	bundleAddCmd.Flags().IntVar(&bundleLoadType, "load-type", 0, "Load type code")
	bundleAddCmd.Flags().BoolVar(&bundlePacked, "packed", false, "Mark the bundle as packed")
	bundleAddCmd.Flags().StringArrayVar(&bundleGroups, "group", nil, "Resource group (repeatable)")
	bundleRenameCmd.Flags().StringVar(&renameVariant, "variant", "", "New variant (default: keep the current one)")

	addOutputFlags(bundleListCmd)
	addOutputFlags(bundleShowCmd)

	bundleGroupCmd.AddCommand(bundleGroupAddCmd, bundleGroupRmCmd, bundleGroupSetCmd)
	bundleCmd.AddCommand(
		bundleAddCmd,
		bundleRmCmd,
		bundleRenameCmd,
		bundleShowCmd,
		bundleListCmd,
		bundleSetLoadTypeCmd,
		bundleSetPackedCmd,
		bundleGroupCmd,
	)
	rootCmd.AddCommand(bundleCmd)
}

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Manage bundles",
	Long: `Create, rename, remove and inspect bundles.

Existing bundles are addressed by full name: "name" or "name.variant".`,
}

var bundleAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, e, err := openRegistry(cmd)
		if err != nil {
			return err
		}
		b, err := r.AddBundle(args[0], bundleVariant, registry.BundleOptions{
			LoadType:       registry.LoadType(bundleLoadType),
			Packed:         bundlePacked,
			ResourceGroups: bundleGroups,
		})
		if err != nil {
			return err
		}
		if err := e.save(r); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added bundle %s\n", b.FullName())
		return nil
	},
}

var bundleRmCmd = &cobra.Command{
	Use:     "rm <bundle>",
	Aliases: []string{"remove"},
	Short:   "Remove a bundle and unassign its assets",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, e, err := openRegistry(cmd)
		if err != nil {
			return err
		}
		b, err := lookupBundle(r, args[0])
		if err != nil {
			return err
		}
		n := b.AssetCount()
		if err := r.RemoveBundle(b.Name(), b.Variant()); err != nil {
			return err
		}
		if err := e.save(r); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed bundle %s (%d assets unassigned)\n", b.FullName(), n)
		return nil
	},
}

var bundleRenameCmd = &cobra.Command{
	Use:   "rename <bundle> <new-name>",
	Short: "Rename a bundle",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, e, err := openRegistry(cmd)
		if err != nil {
			return err
		}
		b, err := lookupBundle(r, args[0])
		if err != nil {
			return err
		}
		oldName, oldVariant := b.FullName(), b.Variant()
		newVariant := oldVariant
		if cmd.Flags().Changed("variant") {
			newVariant = renameVariant
		}
		if err := r.RenameBundle(b.Name(), oldVariant, args[1], newVariant); err != nil {
			return err
		}
		if err := e.save(r); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed bundle %s to %s\n", oldName, b.FullName())
		return nil
	},
}

var bundleShowCmd = &cobra.Command{
	Use:   "show <bundle>",
	Short: "Show a bundle and its assets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, _, err := openRegistry(cmd)
		if err != nil {
			return err
		}
		b, err := lookupBundle(r, args[0])
		if err != nil {
			return err
		}
		v := newBundleView(r, b, true)
		if handled, err := printStructured(cmd, v); handled {
			return err
		}
		return printBundleDetail(cmd, v)
	},
}

var bundleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bundles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, _, err := openRegistry(cmd)
		if err != nil {
			return err
		}
		views := make([]bundleView, 0, r.BundleCount())
		for _, b := range r.Bundles() {
			views = append(views, newBundleView(r, b, false))
		}
		if handled, err := printStructured(cmd, views); handled {
			return err
		}
		if len(views) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No bundles defined yet.")
			return nil
		}
		return printBundleTable(cmd, views, r.AssetCount())
	},
}

var bundleSetLoadTypeCmd = &cobra.Command{
	Use:   "set-load-type <bundle> <code>",
	Short: "Set the load type code of a bundle",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid load type %q: %w", args[1], err)
		}
		return mutateBundle(cmd, args[0], func(r *registry.Registry, b *registry.Bundle) error {
			return r.SetLoadType(b.Name(), b.Variant(), registry.LoadType(code))
		})
	},
}

var bundleSetPackedCmd = &cobra.Command{
	Use:   "set-packed <bundle> <true|false>",
	Short: "Set the packed flag of a bundle",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		packed, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("invalid packed value %q: %w", args[1], err)
		}
		return mutateBundle(cmd, args[0], func(r *registry.Registry, b *registry.Bundle) error {
			return r.SetPacked(b.Name(), b.Variant(), packed)
		})
	},
}

var bundleGroupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage the resource groups of a bundle",
}

var bundleGroupAddCmd = &cobra.Command{
	Use:   "add <bundle> <group>...",
	Short: "Append resource groups",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateBundle(cmd, args[0], func(r *registry.Registry, b *registry.Bundle) error {
			for _, g := range args[1:] {
				if err := r.AddResourceGroup(b.Name(), b.Variant(), g); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

var bundleGroupRmCmd = &cobra.Command{
	Use:   "rm <bundle> <group>...",
	Short: "Remove resource groups",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateBundle(cmd, args[0], func(r *registry.Registry, b *registry.Bundle) error {
			for _, g := range args[1:] {
				if err := r.RemoveResourceGroup(b.Name(), b.Variant(), g); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

var bundleGroupSetCmd = &cobra.Command{
	Use:   "set <bundle> [group]...",
	Short: "Replace the resource groups",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateBundle(cmd, args[0], func(r *registry.Registry, b *registry.Bundle) error {
			return r.SetResourceGroups(b.Name(), b.Variant(), args[1:])
		})
	},
}

// mutateBundle loads the registry, applies fn to the named bundle and
// saves.
func mutateBundle(cmd *cobra.Command, fullName string, fn func(*registry.Registry, *registry.Bundle) error) error {
	r, _, e, err := openRegistry(cmd)
	if err != nil {
		return err
	}
	b, err := lookupBundle(r, fullName)
	if err != nil {
		return err
	}
	if err := fn(r, b); err != nil {
		return err
	}
	if err := e.save(r); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated bundle %s\n", b.FullName())
	return nil
}
