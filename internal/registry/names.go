package registry

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var (
	namePattern    = regexp.MustCompile(`^[A-Za-z0-9._-]+(/[A-Za-z0-9._-]+)*$`)
	variantPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

// sceneSuffix marks content items that are scenes.
const sceneSuffix = ".unity"

// IsValidName reports whether name is one or more segments of
// [A-Za-z0-9._-] joined by single slashes.
func IsValidName(name string) bool {
	return namePattern.MatchString(name)
}

// IsValidVariant reports whether variant is empty (no variant) or a
// lowercase tag of [a-z0-9_-].
func IsValidVariant(variant string) bool {
	return variant == "" || variantPattern.MatchString(variant)
}

// FullName joins a bundle name and optional variant with a dot.
func FullName(name, variant string) string {
	if variant == "" {
		return name
	}
	return name + "." + variant
}

// IsScenePath reports whether a content path names a scene.
func IsScenePath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), sceneSuffix)
}

// Key is a bundle full name folded for case-insensitive comparison.
type Key string

// KeyFor returns the registry key for a bundle identity.
func KeyFor(name, variant string) Key {
	return Key(fold(FullName(name, variant)))
}

// KeyOf returns the registry key for a full name such as "ui/hud.hd".
func KeyOf(fullName string) Key {
	return Key(fold(fullName))
}

// fold applies Unicode case folding. A new Caser is built per call since
// Casers carry state.
func fold(s string) string {
	return cases.Fold().String(s)
}

// isPathPrefix reports whether parent names a directory that contains
// child, i.e. child continues parent past a "/" boundary.
func isPathPrefix(parent, child string) bool {
	return len(child) > len(parent) &&
		strings.HasPrefix(child, parent) &&
		child[len(parent)] == '/'
}
