package catalog

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bundlex-labs/bundlex/internal/platform"
)

// cachedIndex is the on-disk form of a scanned catalog.
type cachedIndex struct {
	Root         string     `json:"root"`
	ProjectRoot  string     `json:"project_root"`
	Entries      []Entry    `json:"entries"`
	Conflicts    []Conflict `json:"conflicts,omitempty"`
	Unidentified []string   `json:"unidentified,omitempty"`
	Invalid      []string   `json:"invalid,omitempty"`
	RootMod      int64      `json:"root_mod"` // latest mtime under root, unix nanoseconds
	CachedAt     time.Time  `json:"cached_at"`
}

// Open returns the catalog for root, using the index cache at cachePath
// when it is still valid. On a miss the root is rescanned and the cache is
// rewritten. An empty cachePath disables caching.
func Open(ctx context.Context, root, projectRoot, cachePath string) (*Catalog, error) {
	if cachePath != "" {
		if cached, err := loadCache(cachePath); err == nil && isCacheValid(cached, root, projectRoot) {
			return fromCache(cached), nil
		}
	}
	return Rebuild(ctx, root, projectRoot, cachePath)
}

// scan is Scan, replaceable in tests.
var scan = Scan

// Rebuild rescans root and rewrites the index cache regardless of its
// state. Cache write failures are ignored; the scan result is still
// returned. The cache is stamped with the mtime observed before the scan,
// so edits made while scanning invalidate it.
func Rebuild(ctx context.Context, root, projectRoot, cachePath string) (*Catalog, error) {
	var mod int64
	if cachePath != "" {
		mod = latestMtime(root)
	}
	c, err := scan(ctx, root, projectRoot)
	if err != nil {
		return nil, err
	}
	if cachePath != "" {
		writeCache(cachePath, c, root, projectRoot, mod)
	}
	return c, nil
}

// loadCache reads and parses the cache file.
func loadCache(path string) (*cachedIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var idx cachedIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, err
	}
	return &idx, nil
}

// isCacheValid checks that the cache describes the same roots and that
// nothing under root changed since it was written.
func isCacheValid(cached *cachedIndex, root, projectRoot string) bool {
	if cached == nil || cached.RootMod == 0 {
		return false
	}
	if cached.Root != root || cached.ProjectRoot != projectRoot {
		return false
	}
	return latestMtime(root) == cached.RootMod
}

// latestMtime returns the latest modification time across root, every
// directory below it and every sidecar. Directory mtimes catch added,
// removed and renamed items; sidecar mtimes catch edited identifiers.
func latestMtime(root string) int64 {
	var latest int64
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && !strings.HasSuffix(d.Name(), SidecarExt) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if t := info.ModTime().UnixNano(); t > latest {
			latest = t
		}
		return nil
	})
	return latest
}

func fromCache(idx *cachedIndex) *Catalog {
	c := New(idx.Entries)
	c.conflicts = append(c.conflicts, idx.Conflicts...)
	c.unidentified = idx.Unidentified
	c.invalid = idx.Invalid
	return c
}

// writeCache serializes the catalog and the root mtime to disk.
func writeCache(path string, c *Catalog, root, projectRoot string, rootMod int64) {
	idx := cachedIndex{
		Root:         root,
		ProjectRoot:  projectRoot,
		Entries:      c.Entries(),
		Conflicts:    c.conflicts,
		Unidentified: c.unidentified,
		Invalid:      c.invalid,
		RootMod:      rootMod,
		CachedAt:     time.Now(),
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, platform.DirPermProject); err != nil {
		return
	}
	_ = os.WriteFile(path, data, platform.FilePermDocument)
}
