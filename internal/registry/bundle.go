package registry

import (
	"slices"
	"sort"
)

// LoadType is the loading strategy handed to the build step. The registry
// only stores and persists it.
type LoadType int

// BundleType is the kind of content a bundle holds.
type BundleType int

const (
	// Untyped bundles have never been assigned an asset.
	Untyped BundleType = iota
	// AssetOnly bundles hold non-scene content.
	AssetOnly
	// SceneOnly bundles hold scenes.
	SceneOnly
)

func (t BundleType) String() string {
	switch t {
	case AssetOnly:
		return "asset"
	case SceneOnly:
		return "scene"
	default:
		return "untyped"
	}
}

// BundleOptions carries the settable attributes of a new bundle.
type BundleOptions struct {
	LoadType       LoadType
	Packed         bool
	ResourceGroups []string
}

// Bundle is a named group of assets. Fields are read through accessors;
// all mutation goes through the Registry.
type Bundle struct {
	name           string
	variant        string
	loadType       LoadType
	packed         bool
	resourceGroups []string
	typ            BundleType
	assets         map[string]struct{}
}

func newBundle(name, variant string, opts BundleOptions) *Bundle {
	return &Bundle{
		name:           name,
		variant:        variant,
		loadType:       opts.LoadType,
		packed:         opts.Packed,
		resourceGroups: slices.Clone(opts.ResourceGroups),
		assets:         make(map[string]struct{}),
	}
}

// Name returns the bundle's path-like name.
func (b *Bundle) Name() string { return b.name }

// Variant returns the variant tag, or "" when the bundle has none.
func (b *Bundle) Variant() string { return b.variant }

// FullName returns the name, or name.variant.
func (b *Bundle) FullName() string { return FullName(b.name, b.variant) }

// Key returns the case-folded registry key.
func (b *Bundle) Key() Key { return KeyFor(b.name, b.variant) }

func (b *Bundle) LoadType() LoadType { return b.loadType }

func (b *Bundle) Packed() bool { return b.packed }

// ResourceGroups returns a copy of the resource group tags in insertion order.
func (b *Bundle) ResourceGroups() []string { return slices.Clone(b.resourceGroups) }

func (b *Bundle) Type() BundleType { return b.typ }

// AssetCount returns the number of assets owned by the bundle.
func (b *Bundle) AssetCount() int { return len(b.assets) }

// AssetGUIDs returns the identifiers of owned assets in sorted order.
func (b *Bundle) AssetGUIDs() []string {
	guids := make([]string, 0, len(b.assets))
	for g := range b.assets {
		guids = append(guids, g)
	}
	sort.Strings(guids)
	return guids
}

// Owns reports whether the asset with guid belongs to this bundle.
func (b *Bundle) Owns(guid string) bool {
	_, ok := b.assets[guid]
	return ok
}
