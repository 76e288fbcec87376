package project

import (
	"fmt"
	"io"
	"os"

	"github.com/bundlex-labs/bundlex/internal/document"
	"github.com/bundlex-labs/bundlex/internal/platform"
)

// Default content for .bundlex/config.yaml.
const defaultConfigContent = `# Paths are relative to the project root.
# document: .bundlex/bundles.yaml
# assets_root: Assets
# catalog_cache: .bundlex/catalog-cache.json
# metrics_file: .bundlex/metrics.prom
log_level: info
`

// Init creates the project structure described by l: the settings
// directory, a commented config file, the content root and an empty
// registry document. Existing items are left alone and reported as
// skipped.
func Init(w io.Writer, l Layout) error {
	if err := ensureDir(w, l.SettingsDir); err != nil {
		return err
	}
	if err := ensureFile(w, l.ConfigFile, defaultConfigContent); err != nil {
		return err
	}
	if err := ensureDir(w, l.AssetsRoot); err != nil {
		return err
	}

	if document.Exists(l.Document) {
		fmt.Fprintf(w, "  [SKIP] %s already exists\n", l.Document)
		return nil
	}
	if err := document.WriteFile(l.Document, document.New()); err != nil {
		return fmt.Errorf("creating registry document: %w", err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", l.Document)
	return nil
}

// ensureDir creates a directory if it doesn't exist.
func ensureDir(w io.Writer, path string) error {
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", path)
	}

	if err := os.MkdirAll(path, platform.DirPermProject); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}

// ensureFile creates a file with content if it doesn't exist.
func ensureFile(w io.Writer, path, content string) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
		return nil
	}

	if err := os.WriteFile(path, []byte(content), platform.FilePermDocument); err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}
