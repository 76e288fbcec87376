package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"
)

// SidecarExt is the extension of identifier sidecar files.
const SidecarExt = ".meta"

// sidecar is the part of a sidecar file the catalog reads.
type sidecar struct {
	FileFormatVersion int    `yaml:"fileFormatVersion,omitempty"`
	GUID              string `yaml:"guid"`
}

// Scan walks root and builds a catalog from the sidecars found there.
// Paths are made relative to projectRoot. Hidden entries are skipped, as
// are sidecars that describe a directory: folders are not content items.
// Sidecars are parsed concurrently but entries are added in lexical walk
// order, so the first of two items sharing an identifier always wins.
func Scan(ctx context.Context, root, projectRoot string) (*Catalog, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("opening content root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content root %s is not a directory", root)
	}

	var sidecars, files []string
	dirs := make(map[string]bool)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if path != root && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			dirs[path] = true
			return nil
		}
		if strings.HasSuffix(d.Name(), SidecarExt) {
			sidecars = append(sidecars, path)
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	sidecars = slices.DeleteFunc(sidecars, func(path string) bool {
		return dirs[strings.TrimSuffix(path, SidecarExt)]
	})

	guids := make([]string, len(sidecars))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range sidecars {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			guids[i] = readSidecar(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := New(nil)
	described := make(map[string]bool, len(sidecars))
	for i, path := range sidecars {
		item := strings.TrimSuffix(path, SidecarExt)
		described[item] = true
		rel, err := relPath(projectRoot, item)
		if err != nil {
			return nil, err
		}
		if guids[i] == "" {
			invalid, _ := relPath(projectRoot, path)
			c.invalid = append(c.invalid, invalid)
			continue
		}
		c.add(Entry{GUID: guids[i], Path: rel})
	}
	for _, path := range files {
		if described[path] {
			continue
		}
		rel, err := relPath(projectRoot, path)
		if err != nil {
			return nil, err
		}
		c.unidentified = append(c.unidentified, rel)
	}
	return c, nil
}

// readSidecar returns the identifier stored in a sidecar, or "" when the
// file cannot be read or has none.
func readSidecar(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var sc sidecar
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return ""
	}
	return strings.TrimSpace(sc.GUID)
}

func relPath(projectRoot, path string) (string, error) {
	rel, err := filepath.Rel(projectRoot, path)
	if err != nil {
		return "", fmt.Errorf("relativizing %s: %w", path, err)
	}
	return filepath.ToSlash(rel), nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
