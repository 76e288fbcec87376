package registry

import (
	"fmt"
	"sort"
)

// Asset is a content item assigned to exactly one bundle. It refers to
// its owner by key rather than by pointer.
type Asset struct {
	guid   string
	path   string // path resolved at the last assignment
	bundle Key
}

// GUID returns the content identifier.
func (a *Asset) GUID() string { return a.guid }

// BundleKey returns the key of the owning bundle.
func (a *Asset) BundleKey() Key { return a.bundle }

// AssignAsset assigns the content item guid to a bundle, creating the
// asset on first assignment and moving it when it already belongs to
// another bundle. The first assignment into an untyped bundle fixes the
// bundle's type.
func (r *Registry) AssignAsset(guid, bundleName, bundleVariant string) (err error) {
	defer func() { recordOp("assign_asset", err) }()
	return r.assignAsset(guid, bundleName, bundleVariant)
}

func (r *Registry) assignAsset(guid, bundleName, bundleVariant string) error {
	if guid == "" {
		return fmt.Errorf("%w: empty identifier", ErrInvalidGUID)
	}
	target, err := r.find(bundleName, bundleVariant)
	if err != nil {
		return err
	}

	path, ok := r.resolve(guid)
	if !ok {
		return fmt.Errorf("%w: %s", ErrAssetUnresolvable, guid)
	}

	folded := fold(path)
	for _, owned := range target.AssetGUIDs() {
		if owned == guid {
			continue
		}
		if p, _ := r.AssetPath(owned); fold(p) == folded {
			return fmt.Errorf("%w: %s already holds %s", ErrAssetPathCollision, target.FullName(), p)
		}
	}

	kind := AssetOnly
	if IsScenePath(path) {
		kind = SceneOnly
	}
	if target.typ != Untyped && target.typ != kind {
		return fmt.Errorf("%w: %s is a %s bundle, %s is a %s", ErrTypeMismatch,
			target.FullName(), target.typ, path, kind)
	}

	a, exists := r.assets[guid]
	if !exists {
		a = &Asset{guid: guid}
		r.assets[guid] = a
	} else if a.bundle != target.Key() {
		if prev, ok := r.bundles[a.bundle]; ok {
			delete(prev.assets, guid)
		}
	}
	a.path = path
	a.bundle = target.Key()
	target.assets[guid] = struct{}{}
	if target.typ == Untyped {
		target.typ = kind
	}

	r.logger.Debug("asset assigned", "guid", guid, "path", path, "bundle", target.FullName())
	return nil
}

// UnassignAsset removes the asset from its bundle and from the registry.
// Unassigning an unknown identifier succeeds without effect.
func (r *Registry) UnassignAsset(guid string) error {
	r.unassign(guid)
	recordOp("unassign_asset", nil)
	return nil
}

func (r *Registry) unassign(guid string) {
	a, ok := r.assets[guid]
	if !ok {
		return
	}
	if b, ok := r.bundles[a.bundle]; ok {
		delete(b.assets, guid)
	}
	delete(r.assets, guid)
	r.logger.Debug("asset unassigned", "guid", guid)
}

// resolve asks the catalog for the current path of guid.
func (r *Registry) resolve(guid string) (string, bool) {
	if r.catalog == nil {
		return "", false
	}
	path, ok := r.catalog.ResolveGUIDToPath(guid)
	if !ok || path == "" {
		return "", false
	}
	return path, true
}

// Asset returns the asset with the given identifier.
func (r *Registry) Asset(guid string) (*Asset, bool) {
	a, ok := r.assets[guid]
	return a, ok
}

// HasAsset reports whether guid is assigned to some bundle.
func (r *Registry) HasAsset(guid string) bool {
	_, ok := r.assets[guid]
	return ok
}

// AssetCount returns the number of assigned assets.
func (r *Registry) AssetCount() int { return len(r.assets) }

// Assets returns all assets ordered by identifier.
func (r *Registry) Assets() []*Asset {
	out := make([]*Asset, 0, len(r.assets))
	for _, a := range r.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].guid < out[j].guid })
	return out
}

// AssetPath returns the current path of an assigned asset, re-resolved
// through the catalog. When the catalog no longer knows the item, the
// path captured at assignment is returned.
func (r *Registry) AssetPath(guid string) (string, bool) {
	a, ok := r.assets[guid]
	if !ok {
		return "", false
	}
	if p, ok := r.resolve(guid); ok {
		return p, true
	}
	return a.path, true
}

// Owner returns the bundle an asset belongs to.
func (r *Registry) Owner(guid string) (*Bundle, bool) {
	a, ok := r.assets[guid]
	if !ok {
		return nil, false
	}
	b, ok := r.bundles[a.bundle]
	return b, ok
}

// BundleAssets returns the assets of a bundle ordered by identifier.
func (r *Registry) BundleAssets(name, variant string) ([]*Asset, error) {
	b, err := r.find(name, variant)
	if err != nil {
		return nil, err
	}
	out := make([]*Asset, 0, len(b.assets))
	for _, guid := range b.AssetGUIDs() {
		out = append(out, r.assets[guid])
	}
	return out, nil
}
