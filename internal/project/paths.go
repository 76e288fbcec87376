package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bundlex-labs/bundlex/internal/branding"
)

// File and directory names inside a project.
const (
	ConfigFile       = "config.yaml"
	DocumentFile     = "bundles.yaml"
	CatalogCacheFile = "catalog-cache.json"
	AssetsDir        = "Assets"
)

// Layout holds the resolved locations a command works with.
type Layout struct {
	Root         string // project root
	SettingsDir  string // <root>/.bundlex
	ConfigFile   string
	Document     string // registry document
	AssetsRoot   string // content root scanned for sidecars
	CatalogCache string // empty disables the catalog cache
}

// DefaultLayout returns the conventional layout for root.
func DefaultLayout(root string) Layout {
	settings := SettingsDir(root)
	return Layout{
		Root:         root,
		SettingsDir:  settings,
		ConfigFile:   filepath.Join(settings, ConfigFile),
		Document:     filepath.Join(settings, DocumentFile),
		AssetsRoot:   filepath.Join(root, AssetsDir),
		CatalogCache: filepath.Join(settings, CatalogCacheFile),
	}
}

// SettingsDir returns the settings directory of the project at root.
func SettingsDir(root string) string {
	return filepath.Join(root, branding.ProjectDir())
}

// Root returns the project root for the current working directory.
func Root() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	return FindRoot(wd)
}

// FindRoot returns the project root for start. It checks the
// BUNDLEX_PROJECT environment variable first, then walks up from start to
// the nearest directory containing a settings directory. When none is
// found start itself is the root.
func FindRoot(start string) (string, error) {
	if v := os.Getenv(branding.EnvVar("PROJECT")); v != "" {
		return filepath.Abs(v)
	}

	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}
	for dir := abs; ; {
		if info, err := os.Stat(SettingsDir(dir)); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}
