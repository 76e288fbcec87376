package registry

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestAddBundle(t *testing.T) {
	r := newTestRegistry(t, testCatalog())

	b, err := r.AddBundle("ui/hud", "hd", BundleOptions{LoadType: 2, Packed: true, ResourceGroups: []string{"ui", "ui"}})
	if err != nil {
		t.Fatalf("AddBundle() error = %v", err)
	}
	if b.FullName() != "ui/hud.hd" {
		t.Errorf("FullName() = %q, want ui/hud.hd", b.FullName())
	}
	if b.Type() != Untyped || b.AssetCount() != 0 {
		t.Errorf("new bundle should be empty and untyped, got %s with %d assets", b.Type(), b.AssetCount())
	}
	if b.LoadType() != 2 || !b.Packed() {
		t.Errorf("options not applied: loadType=%d packed=%v", b.LoadType(), b.Packed())
	}
	if got := strings.Join(b.ResourceGroups(), ","); got != "ui,ui" {
		t.Errorf("ResourceGroups() = %q, want duplicates kept", got)
	}

	got, ok := r.Bundle("UI/HUD", "HD")
	if !ok || got != b {
		t.Error("Bundle() should find the bundle regardless of case")
	}
}

func TestAddBundle_InvalidIdentity(t *testing.T) {
	r := newTestRegistry(t, testCatalog())

	tests := []struct {
		name, variant string
		want          error
	}{
		{"", "", ErrInvalidName},
		{"a//b", "", ErrInvalidName},
		{"a/", "", ErrInvalidName},
		{"ok", "UPPER", ErrInvalidVariant},
		{"ok", "a/b", ErrInvalidVariant},
	}
	for _, tt := range tests {
		_, err := r.AddBundle(tt.name, tt.variant, BundleOptions{})
		if !errors.Is(err, tt.want) {
			t.Errorf("AddBundle(%q, %q) error = %v, want %v", tt.name, tt.variant, err, tt.want)
		}
	}
	if r.BundleCount() != 0 {
		t.Errorf("failed adds must not mutate, have %d bundles", r.BundleCount())
	}
}

func TestAddBundle_DuplicateIgnoresCase(t *testing.T) {
	r := newTestRegistry(t, testCatalog())
	mustAdd(t, r, "Shared", "")

	if _, err := r.AddBundle("shared", "", BundleOptions{}); !errors.Is(err, ErrNameUnavailable) {
		t.Fatalf("AddBundle(duplicate) error = %v, want ErrNameUnavailable", err)
	}
	if _, err := r.AddBundle("Shared", "", BundleOptions{}); !errors.Is(err, ErrNameUnavailable) {
		t.Fatalf("AddBundle(exact duplicate) error = %v, want ErrNameUnavailable", err)
	}
}

func TestAddBundle_Hierarchy(t *testing.T) {
	tests := []struct {
		first, second string
		ok            bool
	}{
		{"a", "a/b", false},
		{"a/b", "a", false},
		{"a", "A/b", false},
		{"a/b/c", "a/b", false},
		{"a", "ab", true},
		{"a/b", "a/c", true},
		{"a/b", "a/bc", true},
		{"ab", "a/b", true},
	}

	for _, tt := range tests {
		t.Run(tt.first+" then "+tt.second, func(t *testing.T) {
			r := newTestRegistry(t, testCatalog())
			mustAdd(t, r, tt.first, "")
			_, err := r.AddBundle(tt.second, "", BundleOptions{})
			if tt.ok && err != nil {
				t.Fatalf("AddBundle(%q) error = %v", tt.second, err)
			}
			if !tt.ok && !errors.Is(err, ErrNameUnavailable) {
				t.Fatalf("AddBundle(%q) error = %v, want ErrNameUnavailable", tt.second, err)
			}
		})
	}
}

func TestAddBundle_HierarchyIgnoresVariant(t *testing.T) {
	r := newTestRegistry(t, testCatalog())
	mustAdd(t, r, "a", "v1")

	if _, err := r.AddBundle("a/b", "v2", BundleOptions{}); !errors.Is(err, ErrNameUnavailable) {
		t.Fatalf("AddBundle(a/b.v2) error = %v, want ErrNameUnavailable", err)
	}
}

func TestAddBundle_VariantMixing(t *testing.T) {
	r := newTestRegistry(t, testCatalog())
	mustAdd(t, r, "x", "")

	if _, err := r.AddBundle("x", "v1", BundleOptions{}); !errors.Is(err, ErrNameUnavailable) {
		t.Fatalf("AddBundle(x.v1) after x error = %v, want ErrNameUnavailable", err)
	}

	r2 := newTestRegistry(t, testCatalog())
	mustAdd(t, r2, "y", "v1")
	mustAdd(t, r2, "y", "v2")
	if _, err := r2.AddBundle("Y", "", BundleOptions{}); !errors.Is(err, ErrNameUnavailable) {
		t.Fatalf("AddBundle(Y) after y.v1 error = %v, want ErrNameUnavailable", err)
	}
	if got := len(r2.Variants("y")); got != 2 {
		t.Errorf("Variants(y) returned %d bundles, want 2", got)
	}
}

func TestAddBundle_FullNameClash(t *testing.T) {
	r := newTestRegistry(t, testCatalog())
	mustAdd(t, r, "a.b", "")

	if _, err := r.AddBundle("a", "b", BundleOptions{}); !errors.Is(err, ErrNameUnavailable) {
		t.Fatalf("AddBundle(a, b) error = %v, want ErrNameUnavailable", err)
	}
}

func TestAddBundle_LookupProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringMatching(`[A-Za-z0-9_-]{1,8}(/[A-Za-z0-9_-]{1,8}){0,2}`).Draw(rt, "name")
		variant := rapid.StringMatching(`([a-z0-9_-]{1,5})?`).Draw(rt, "variant")

		r := New("unused.yaml", fakeCatalog{})
		b, err := r.AddBundle(name, variant, BundleOptions{})
		if err != nil {
			rt.Fatalf("AddBundle(%q, %q) error = %v", name, variant, err)
		}
		got, ok := r.Lookup(strings.ToUpper(FullName(name, variant)))
		if !ok || got != b {
			rt.Fatalf("Lookup(%q) did not return the added bundle", strings.ToUpper(b.FullName()))
		}
		if !strings.EqualFold(got.FullName(), FullName(name, variant)) {
			rt.Fatalf("FullName() = %q, want %q", got.FullName(), FullName(name, variant))
		}
	})
}

func TestIsNameAvailable_Symmetric(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seg := rapid.SampledFrom([]string{"a", "b", "ab", "A"})
		pathOf := func(label string) string {
			n := rapid.IntRange(1, 3).Draw(rt, label+"-depth")
			parts := make([]string, n)
			for i := range parts {
				parts[i] = seg.Draw(rt, label)
			}
			return strings.Join(parts, "/")
		}
		first, second := pathOf("first"), pathOf("second")
		if strings.EqualFold(first, second) {
			return
		}

		r1 := New("unused.yaml", fakeCatalog{})
		mustAddRapid(rt, r1, first)
		r2 := New("unused.yaml", fakeCatalog{})
		mustAddRapid(rt, r2, second)

		if r1.IsNameAvailable(second, "", nil) != r2.IsNameAvailable(first, "", nil) {
			rt.Fatalf("availability of %q vs %q is not symmetric", first, second)
		}
	})
}

func mustAddRapid(rt *rapid.T, r *Registry, name string) {
	if _, err := r.AddBundle(name, "", BundleOptions{}); err != nil {
		rt.Fatalf("AddBundle(%q) error = %v", name, err)
	}
}

func TestRenameBundle(t *testing.T) {
	r := newTestRegistry(t, testCatalog())
	mustAdd(t, r, "old", "")
	mustAssign(t, r, "tex1", "old", "")

	if err := r.RenameBundle("old", "", "new/place", "hd"); err != nil {
		t.Fatalf("RenameBundle() error = %v", err)
	}
	if _, ok := r.Bundle("old", ""); ok {
		t.Error("old key should be gone")
	}
	b, ok := r.Bundle("new/place", "hd")
	if !ok {
		t.Fatal("renamed bundle not found under new key")
	}
	if r.BundleCount() != 1 {
		t.Errorf("BundleCount() = %d, want 1", r.BundleCount())
	}
	owner, ok := r.Owner("tex1")
	if !ok || owner != b {
		t.Error("asset should follow the renamed bundle")
	}
	checkConsistency(t, r)
}

func TestRenameBundle_Self(t *testing.T) {
	r := newTestRegistry(t, testCatalog())
	mustAdd(t, r, "Menu", "")

	if err := r.RenameBundle("Menu", "", "Menu", ""); err != nil {
		t.Fatalf("RenameBundle(self) error = %v", err)
	}
	if err := r.RenameBundle("menu", "", "MENU", ""); err != nil {
		t.Fatalf("RenameBundle(case only) error = %v", err)
	}
	b, ok := r.Bundle("menu", "")
	if !ok || b.Name() != "MENU" {
		t.Errorf("expected name MENU after case rename, got %+v", b)
	}
	if r.BundleCount() != 1 {
		t.Errorf("BundleCount() = %d, want 1", r.BundleCount())
	}
}

func TestRenameBundle_Failures(t *testing.T) {
	r := newTestRegistry(t, testCatalog())
	mustAdd(t, r, "a", "")
	mustAdd(t, r, "b", "")

	tests := []struct {
		desc             string
		oldName, newName string
		oldVar, newVar   string
		want             error
	}{
		{"missing source", "zzz", "c", "", "", ErrBundleNotFound},
		{"invalid target", "a", "c//d", "", "", ErrInvalidName},
		{"invalid source", "a//", "c", "", "", ErrInvalidName},
		{"invalid variant", "a", "c", "", "Bad", ErrInvalidVariant},
		{"taken", "a", "B", "", "", ErrNameUnavailable},
		{"under sibling", "a", "b/child", "", "", ErrNameUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			err := r.RenameBundle(tt.oldName, tt.oldVar, tt.newName, tt.newVar)
			if !errors.Is(err, tt.want) {
				t.Fatalf("RenameBundle() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, ok := r.Bundle("a", ""); !ok {
		t.Error("failed renames must leave the source bundle in place")
	}
	if r.BundleCount() != 2 {
		t.Errorf("BundleCount() = %d, want 2", r.BundleCount())
	}
}

func TestRenameBundle_ResplitFullName(t *testing.T) {
	tests := []struct {
		desc     string
		existing string
	}{
		{"variant-less sibling name", "x"},
		{"bundle below the new name", "x/child"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			r := newTestRegistry(t, testCatalog())
			mustAdd(t, r, "x.v", "")
			mustAdd(t, r, tt.existing, "")
			if _, err := r.AddBundle("x", "v", BundleOptions{}); !errors.Is(err, ErrNameUnavailable) {
				t.Fatalf("AddBundle(x, v) error = %v, want %v", err, ErrNameUnavailable)
			}

			err := r.RenameBundle("x.v", "", "x", "v")
			if !errors.Is(err, ErrNameUnavailable) {
				t.Fatalf("RenameBundle(x.v -> x + v) error = %v, want %v", err, ErrNameUnavailable)
			}
			b, ok := r.Bundle("x.v", "")
			if !ok || b.Name() != "x.v" || b.Variant() != "" {
				t.Errorf("source bundle changed after failed rename: %+v", b)
			}
		})
	}
}

func TestRenameBundle_ResplitAllowedWhenFree(t *testing.T) {
	r := newTestRegistry(t, testCatalog())
	mustAdd(t, r, "x.v", "")
	mustAssign(t, r, "tex1", "x.v", "")

	if err := r.RenameBundle("x.v", "", "X", "v"); err != nil {
		t.Fatalf("RenameBundle() error = %v", err)
	}
	b, ok := r.Lookup("x.v")
	if !ok || b.Name() != "X" || b.Variant() != "v" {
		t.Fatalf("Lookup(x.v) = %+v, want name X variant v", b)
	}
	checkConsistency(t, r)
}

// Every successful rename leaves a registry that survives a save and
// reload with all of its bundles.
func TestRenameBundle_KeepsDocumentLoadable(t *testing.T) {
	dir := t.TempDir()
	names := []string{"x", "x.v", "x/child", "x.v/child", "y", "y.v"}
	variants := []string{"", "", "v", "w"}

	rapid.Check(t, func(rt *rapid.T) {
		path := filepath.Join(dir, rapid.StringMatching(`[a-z]{12}`).Draw(rt, "file")+".yaml")
		r := New(path, testCatalog())
		for range rapid.IntRange(1, 5).Draw(rt, "bundles") {
			_, _ = r.AddBundle(rapid.SampledFrom(names).Draw(rt, "name"), rapid.SampledFrom(variants).Draw(rt, "variant"), BundleOptions{})
		}
		for range rapid.IntRange(1, 5).Draw(rt, "renames") {
			src := rapid.SampledFrom(r.Bundles()).Draw(rt, "source")
			newName := rapid.SampledFrom(names).Draw(rt, "newName")
			newVariant := rapid.SampledFrom(variants).Draw(rt, "newVariant")
			if err := r.RenameBundle(src.Name(), src.Variant(), newName, newVariant); err != nil {
				continue
			}
			checkConsistency(rt, r)

			want := r.BundleCount()
			if err := r.Save(); err != nil {
				rt.Fatalf("Save() error = %v", err)
			}
			res, err := r.Load(context.Background(), nil)
			if err != nil {
				rt.Fatalf("Load() error = %v", err)
			}
			if res.Bundles != want || res.Skipped != 0 {
				rt.Fatalf("after renaming to %q: saved %d bundles, reloaded %+v",
					FullName(newName, newVariant), want, res)
			}
		}
	})
}

func TestRenameBundle_ChildOfItself(t *testing.T) {
	r := newTestRegistry(t, testCatalog())
	mustAdd(t, r, "a", "")

	// Only "a" itself would collide, and it is the bundle being renamed.
	if err := r.RenameBundle("a", "", "a/b", ""); err != nil {
		t.Fatalf("RenameBundle(a -> a/b) error = %v", err)
	}
}

func TestRemoveBundle_Cascades(t *testing.T) {
	r := newTestRegistry(t, testCatalog())
	mustAdd(t, r, "ui", "")
	mustAdd(t, r, "props", "")
	mustAssign(t, r, "tex1", "ui", "")
	mustAssign(t, r, "tex2", "ui", "")
	mustAssign(t, r, "prefab", "props", "")

	if err := r.RemoveBundle("UI", ""); err != nil {
		t.Fatalf("RemoveBundle() error = %v", err)
	}

	for _, guid := range []string{"tex1", "tex2"} {
		if r.HasAsset(guid) {
			t.Errorf("asset %s should be gone with its bundle", guid)
		}
	}
	if !r.HasAsset("prefab") {
		t.Error("unrelated asset must survive")
	}
	if _, ok := r.Bundle("props", ""); !ok {
		t.Error("unrelated bundle must survive")
	}
	checkConsistency(t, r)

	if err := r.RemoveBundle("ui", ""); !errors.Is(err, ErrBundleNotFound) {
		t.Errorf("second RemoveBundle() error = %v, want ErrBundleNotFound", err)
	}
}

func TestSetters(t *testing.T) {
	r := newTestRegistry(t, testCatalog())
	mustAdd(t, r, "ui", "hd")

	if err := r.SetLoadType("ui", "hd", 3); err != nil {
		t.Fatalf("SetLoadType() error = %v", err)
	}
	if err := r.SetPacked("UI", "hd", true); err != nil {
		t.Fatalf("SetPacked() error = %v", err)
	}
	if err := r.SetResourceGroups("ui", "hd", []string{"a", "b"}); err != nil {
		t.Fatalf("SetResourceGroups() error = %v", err)
	}
	if err := r.AddResourceGroup("ui", "hd", "a"); err != nil {
		t.Fatalf("AddResourceGroup() error = %v", err)
	}

	b, _ := r.Bundle("ui", "hd")
	if b.LoadType() != 3 || !b.Packed() {
		t.Errorf("setters not applied: loadType=%d packed=%v", b.LoadType(), b.Packed())
	}
	if got := strings.Join(b.ResourceGroups(), ","); got != "a,b,a" {
		t.Errorf("ResourceGroups() = %q, want a,b,a", got)
	}

	if err := r.RemoveResourceGroup("ui", "hd", "a"); err != nil {
		t.Fatalf("RemoveResourceGroup() error = %v", err)
	}
	if got := strings.Join(b.ResourceGroups(), ","); got != "b" {
		t.Errorf("ResourceGroups() after remove = %q, want b", got)
	}
	if err := r.RemoveResourceGroup("ui", "hd", "never"); err != nil {
		t.Errorf("RemoveResourceGroup(absent) error = %v", err)
	}

	for name, err := range map[string]error{
		"SetLoadType": r.SetLoadType("nope", "", 1),
		"SetPacked":   r.SetPacked("nope", "", true),
		"SetGroups":   r.SetResourceGroups("nope", "", nil),
		"AddGroup":    r.AddResourceGroup("nope", "", "g"),
	} {
		if !errors.Is(err, ErrBundleNotFound) {
			t.Errorf("%s on missing bundle error = %v, want ErrBundleNotFound", name, err)
		}
	}
}

func TestBundles_KeyOrder(t *testing.T) {
	r := newTestRegistry(t, testCatalog())
	for _, n := range []string{"zeta", "Alpha", "mid/b", "mid/a"} {
		mustAdd(t, r, n, "")
	}

	var got []string
	for _, b := range r.Bundles() {
		got = append(got, b.FullName())
	}
	want := "Alpha,mid/a,mid/b,zeta"
	if strings.Join(got, ",") != want {
		t.Errorf("Bundles() order = %v, want %s", got, want)
	}
}

func TestClear(t *testing.T) {
	r := newTestRegistry(t, testCatalog())
	mustAdd(t, r, "ui", "")
	mustAssign(t, r, "tex1", "ui", "")

	r.Clear()
	if r.BundleCount() != 0 || r.AssetCount() != 0 {
		t.Errorf("Clear() left %d bundles and %d assets", r.BundleCount(), r.AssetCount())
	}
}
