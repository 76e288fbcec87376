package registry

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
)

// Resolver maps a content identifier to the content item's current path.
type Resolver interface {
	ResolveGUIDToPath(guid string) (string, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(guid string) (string, bool)

// ResolveGUIDToPath calls f(guid).
func (f ResolverFunc) ResolveGUIDToPath(guid string) (string, bool) { return f(guid) }

// Registry holds bundles keyed by case-folded full name and assets keyed
// by identifier.
type Registry struct {
	path    string
	catalog Resolver
	logger  *slog.Logger

	bundles map[Key]*Bundle
	order   []Key // sorted keys of bundles
	assets  map[string]*Asset
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for load warnings and debug output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns an empty registry persisted at path that resolves content
// identifiers through catalog.
func New(path string, catalog Resolver, opts ...Option) *Registry {
	r := &Registry{
		path:    path,
		catalog: catalog,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		bundles: make(map[Key]*Bundle),
		assets:  make(map[string]*Asset),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns the document location.
func (r *Registry) Path() string { return r.path }

// Clear removes every bundle and asset.
func (r *Registry) Clear() {
	r.bundles = make(map[Key]*Bundle)
	r.order = nil
	r.assets = make(map[string]*Asset)
}

// validateIdentity checks name and variant syntax.
func validateIdentity(name, variant string) error {
	if !IsValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if !IsValidVariant(variant) {
		return fmt.Errorf("%w: %q", ErrInvalidVariant, variant)
	}
	return nil
}

// IsNameAvailable reports whether a bundle named name with variant could
// be added, or excluding renamed to it, without breaking uniqueness or
// hierarchy rules. excluding may be nil.
func (r *Registry) IsNameAvailable(name, variant string, excluding *Bundle) bool {
	return r.checkAvailable(name, variant, excluding) == nil
}

// checkAvailable is IsNameAvailable with the reason attached.
func (r *Registry) checkAvailable(name, variant string, excluding *Bundle) error {
	if existing, ok := r.bundles[KeyFor(name, variant)]; ok {
		if existing != excluding {
			return fmt.Errorf("%w: bundle %q already exists", ErrNameUnavailable, existing.FullName())
		}
		// Same full name, same split: only the case can differ.
		if fold(name) == fold(excluding.name) {
			return nil
		}
	}

	target := fold(name)
	hasVariant := variant != ""
	for _, k := range r.order {
		b := r.bundles[k]
		if b == excluding {
			continue
		}
		other := fold(b.name)
		if other == target && (b.variant != "") != hasVariant {
			return fmt.Errorf("%w: %q cannot mix variant and variant-less bundles (conflicts with %q)",
				ErrNameUnavailable, FullName(name, variant), b.FullName())
		}
		if isPathPrefix(other, target) || isPathPrefix(target, other) {
			return fmt.Errorf("%w: %q collides with the hierarchy of %q",
				ErrNameUnavailable, name, b.name)
		}
	}
	return nil
}

// insert stores b under its key, keeping order sorted.
func (r *Registry) insert(b *Bundle) {
	k := b.Key()
	r.bundles[k] = b
	if i, found := slices.BinarySearch(r.order, k); !found {
		r.order = slices.Insert(r.order, i, k)
	}
}

// remove drops the bundle stored under k.
func (r *Registry) remove(k Key) {
	delete(r.bundles, k)
	if i, found := slices.BinarySearch(r.order, k); found {
		r.order = slices.Delete(r.order, i, i+1)
	}
}

// find looks up an existing bundle after validating the identity.
func (r *Registry) find(name, variant string) (*Bundle, error) {
	if err := validateIdentity(name, variant); err != nil {
		return nil, err
	}
	b, ok := r.bundles[KeyFor(name, variant)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBundleNotFound, FullName(name, variant))
	}
	return b, nil
}

// AddBundle creates an empty, untyped bundle.
func (r *Registry) AddBundle(name, variant string, opts BundleOptions) (b *Bundle, err error) {
	defer func() { recordOp("add_bundle", err) }()
	return r.addBundle(name, variant, opts)
}

func (r *Registry) addBundle(name, variant string, opts BundleOptions) (*Bundle, error) {
	if err := validateIdentity(name, variant); err != nil {
		return nil, err
	}
	if err := r.checkAvailable(name, variant, nil); err != nil {
		return nil, err
	}

	b := newBundle(name, variant, opts)
	r.insert(b)
	r.logger.Debug("bundle added", "bundle", b.FullName())
	return b, nil
}

// RenameBundle changes a bundle's name and variant. Renaming a bundle to
// its own identity, including a change of case only, succeeds. Owned
// assets follow the bundle.
func (r *Registry) RenameBundle(oldName, oldVariant, newName, newVariant string) (err error) {
	defer func() { recordOp("rename_bundle", err) }()

	if err := validateIdentity(newName, newVariant); err != nil {
		return err
	}
	b, err := r.find(oldName, oldVariant)
	if err != nil {
		return err
	}
	if err := r.checkAvailable(newName, newVariant, b); err != nil {
		return err
	}

	oldFull := b.FullName()
	r.remove(b.Key())
	b.name = newName
	b.variant = newVariant
	r.insert(b)

	newKey := b.Key()
	for guid := range b.assets {
		r.assets[guid].bundle = newKey
	}
	r.logger.Debug("bundle renamed", "from", oldFull, "to", b.FullName())
	return nil
}

// RemoveBundle unassigns every asset of the bundle, then removes it.
func (r *Registry) RemoveBundle(name, variant string) (err error) {
	defer func() { recordOp("remove_bundle", err) }()

	b, err := r.find(name, variant)
	if err != nil {
		return err
	}

	for _, guid := range b.AssetGUIDs() {
		r.unassign(guid)
	}
	r.remove(b.Key())
	r.logger.Debug("bundle removed", "bundle", b.FullName())
	return nil
}

// SetLoadType updates a bundle's load type.
func (r *Registry) SetLoadType(name, variant string, lt LoadType) error {
	b, err := r.find(name, variant)
	if err != nil {
		return err
	}
	b.loadType = lt
	return nil
}

// SetPacked updates whether a bundle is part of the packed output.
func (r *Registry) SetPacked(name, variant string, packed bool) error {
	b, err := r.find(name, variant)
	if err != nil {
		return err
	}
	b.packed = packed
	return nil
}

// SetResourceGroups replaces a bundle's resource groups.
func (r *Registry) SetResourceGroups(name, variant string, groups []string) error {
	b, err := r.find(name, variant)
	if err != nil {
		return err
	}
	b.resourceGroups = slices.Clone(groups)
	return nil
}

// AddResourceGroup appends a group tag. Duplicates are kept.
func (r *Registry) AddResourceGroup(name, variant, group string) error {
	b, err := r.find(name, variant)
	if err != nil {
		return err
	}
	b.resourceGroups = append(b.resourceGroups, group)
	return nil
}

// RemoveResourceGroup drops every occurrence of group. Removing a group
// the bundle does not carry is not an error.
func (r *Registry) RemoveResourceGroup(name, variant, group string) error {
	b, err := r.find(name, variant)
	if err != nil {
		return err
	}
	b.resourceGroups = slices.DeleteFunc(b.resourceGroups, func(g string) bool { return g == group })
	return nil
}

// Bundle returns the bundle with the given identity.
func (r *Registry) Bundle(name, variant string) (*Bundle, bool) {
	b, ok := r.bundles[KeyFor(name, variant)]
	return b, ok
}

// Lookup returns the bundle whose full name matches fullName without
// regard to case.
func (r *Registry) Lookup(fullName string) (*Bundle, bool) {
	b, ok := r.bundles[KeyOf(fullName)]
	return b, ok
}

// Bundles returns all bundles in key order.
func (r *Registry) Bundles() []*Bundle {
	out := make([]*Bundle, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.bundles[k])
	}
	return out
}

// BundleCount returns the number of bundles.
func (r *Registry) BundleCount() int { return len(r.bundles) }

// Variants returns every bundle sharing name, in key order.
func (r *Registry) Variants(name string) []*Bundle {
	target := fold(name)
	var out []*Bundle
	for _, k := range r.order {
		if b := r.bundles[k]; fold(b.name) == target {
			out = append(out, b)
		}
	}
	return out
}
