package registry

import (
	"path/filepath"
	"testing"
)

// fakeCatalog resolves identifiers from a fixed map.
type fakeCatalog map[string]string

func (c fakeCatalog) ResolveGUIDToPath(guid string) (string, bool) {
	p, ok := c[guid]
	return p, ok
}

// testCatalog returns a catalog with a few textures, a prefab and two scenes.
func testCatalog() fakeCatalog {
	return fakeCatalog{
		"tex1":   "Assets/ui/icon.png",
		"tex2":   "Assets/ui/frame.png",
		"tex3":   "Assets/UI/ICON.png",
		"prefab": "Assets/props/crate.prefab",
		"scene1": "Assets/levels/forest.unity",
		"scene2": "Assets/levels/Desert.UNITY",
	}
}

func newTestRegistry(t *testing.T, cat Resolver) *Registry {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "settings", "bundles.yaml"), cat)
}

func mustAdd(t *testing.T, r *Registry, name, variant string) *Bundle {
	t.Helper()
	b, err := r.AddBundle(name, variant, BundleOptions{})
	if err != nil {
		t.Fatalf("AddBundle(%q, %q) error = %v", name, variant, err)
	}
	return b
}

func mustAssign(t *testing.T, r *Registry, guid, name, variant string) {
	t.Helper()
	if err := r.AssignAsset(guid, name, variant); err != nil {
		t.Fatalf("AssignAsset(%q, %q, %q) error = %v", guid, name, variant, err)
	}
}

// reporter is the part of testing.T and rapid.T used by checkConsistency.
type reporter interface {
	Helper()
	Errorf(format string, args ...any)
}

// checkConsistency verifies that bundles and assets reference each other.
func checkConsistency(t reporter, r *Registry) {
	t.Helper()
	owned := 0
	for _, b := range r.Bundles() {
		for _, guid := range b.AssetGUIDs() {
			a, ok := r.Asset(guid)
			if !ok {
				t.Errorf("bundle %s owns %s which is not in the asset registry", b.FullName(), guid)
				continue
			}
			if a.BundleKey() != b.Key() {
				t.Errorf("asset %s points at %s but is owned by %s", guid, a.BundleKey(), b.Key())
			}
			owned++
		}
	}
	if owned != r.AssetCount() {
		t.Errorf("bundles own %d assets, asset registry holds %d", owned, r.AssetCount())
	}
	for _, a := range r.Assets() {
		if _, ok := r.Owner(a.GUID()); !ok {
			t.Errorf("asset %s has no owning bundle", a.GUID())
		}
	}
}
