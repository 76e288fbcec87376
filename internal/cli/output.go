package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bundlex-labs/bundlex/internal/registry"
)

var (
	outputJSON bool
	outputYAML bool
)

// printer formats counts for humans.
var printer = message.NewPrinter(language.English)

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&outputYAML, "yaml", false, "Output in YAML format")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

// bundleView is the display form of a bundle.
type bundleView struct {
	Name           string      `json:"name" yaml:"name"`
	Variant        string      `json:"variant,omitempty" yaml:"variant,omitempty"`
	FullName       string      `json:"fullName" yaml:"fullName"`
	Type           string      `json:"type" yaml:"type"`
	LoadType       int         `json:"loadType" yaml:"loadType"`
	Packed         bool        `json:"packed" yaml:"packed"`
	ResourceGroups []string    `json:"resourceGroups,omitempty" yaml:"resourceGroups,omitempty"`
	AssetCount     int         `json:"assetCount" yaml:"assetCount"`
	Assets         []assetView `json:"assets,omitempty" yaml:"assets,omitempty"`
}

// assetView is the display form of an asset.
type assetView struct {
	GUID   string `json:"guid" yaml:"guid"`
	Path   string `json:"path" yaml:"path"`
	Bundle string `json:"bundle" yaml:"bundle"`
}

func newBundleView(r *registry.Registry, b *registry.Bundle, withAssets bool) bundleView {
	v := bundleView{
		Name:           b.Name(),
		Variant:        b.Variant(),
		FullName:       b.FullName(),
		Type:           b.Type().String(),
		LoadType:       int(b.LoadType()),
		Packed:         b.Packed(),
		ResourceGroups: b.ResourceGroups(),
		AssetCount:     b.AssetCount(),
	}
	if withAssets {
		for _, guid := range b.AssetGUIDs() {
			v.Assets = append(v.Assets, newAssetView(r, guid, b))
		}
	}
	return v
}

func newAssetView(r *registry.Registry, guid string, owner *registry.Bundle) assetView {
	path, _ := r.AssetPath(guid)
	return assetView{GUID: guid, Path: path, Bundle: owner.FullName()}
}

// printStructured writes v as JSON or YAML when requested. It reports
// whether it handled the output.
func printStructured(cmd *cobra.Command, v any) (bool, error) {
	switch {
	case outputJSON:
		return true, printJSON(cmd, v)
	case outputYAML:
		return true, printYAML(cmd, v)
	}
	return false, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func printYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

func printBundleTable(cmd *cobra.Command, views []bundleView, assets int) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "BUNDLE\tTYPE\tLOAD TYPE\tPACKED\tASSETS\tGROUPS")
	for _, v := range views {
		groups := strings.Join(v.ResourceGroups, ",")
		if groups == "" {
			groups = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%d\t%s\n", v.FullName, v.Type, v.LoadType, v.Packed, v.AssetCount, groups)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := printer.Fprintf(cmd.OutOrStdout(), "\n%d bundles, %d assets\n", len(views), assets)
	return err
}

func printBundleDetail(cmd *cobra.Command, v bundleView) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Bundle:     %s\n", v.FullName)
	fmt.Fprintf(out, "Type:       %s\n", v.Type)
	fmt.Fprintf(out, "Load type:  %d\n", v.LoadType)
	fmt.Fprintf(out, "Packed:     %t\n", v.Packed)
	if len(v.ResourceGroups) > 0 {
		fmt.Fprintf(out, "Groups:     %s\n", strings.Join(v.ResourceGroups, ", "))
	}
	printer.Fprintf(out, "Assets:     %d\n", v.AssetCount)
	if len(v.Assets) == 0 {
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	for _, a := range v.Assets {
		fmt.Fprintf(w, "  %s\t%s\n", a.GUID, a.Path)
	}
	return w.Flush()
}
