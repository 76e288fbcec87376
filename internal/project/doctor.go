package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bundlex-labs/bundlex/internal/branding"
	"github.com/bundlex-labs/bundlex/internal/catalog"
	"github.com/bundlex-labs/bundlex/internal/document"
	"github.com/bundlex-labs/bundlex/internal/registry"
)

// Report counts doctor findings by severity.
type Report struct {
	OK       int
	Missing  int
	Warnings int
	Failures int
}

// Healthy reports whether no check failed.
func (r Report) Healthy() bool { return r.Failures == 0 }

type checker struct {
	w   io.Writer
	rep Report
}

func (c *checker) ok(format string, args ...any) {
	c.rep.OK++
	fmt.Fprintf(c.w, "  [ OK ] "+format+"\n", args...)
}

func (c *checker) miss(format string, args ...any) {
	c.rep.Missing++
	fmt.Fprintf(c.w, "  [MISS] "+format+"\n", args...)
}

func (c *checker) warn(format string, args ...any) {
	c.rep.Warnings++
	fmt.Fprintf(c.w, "  [WARN] "+format+"\n", args...)
}

func (c *checker) fail(format string, args ...any) {
	c.rep.Failures++
	fmt.Fprintf(c.w, "  [FAIL] "+format+"\n", args...)
}

// Check inspects the project described by l and prints one line per
// finding to w. It never modifies the project: a corrupt document is
// reported, not discarded.
func Check(ctx context.Context, w io.Writer, l Layout) Report {
	c := &checker{w: w}
	fmt.Fprintln(w, "Project check:")

	if dirExists(l.SettingsDir) {
		c.ok("%s exists", l.SettingsDir)
	} else {
		c.miss("%s does not exist", l.SettingsDir)
		fmt.Fprintf(w, "         Run '%s init' to create\n", branding.CLIName())
	}
	if fileExists(l.ConfigFile) {
		c.ok("%s exists", l.ConfigFile)
	} else {
		c.miss("%s does not exist", l.ConfigFile)
	}

	parsed := checkDocument(c, l.Document)

	var cat *catalog.Catalog
	if dirExists(l.AssetsRoot) {
		c.ok("content root %s exists", l.AssetsRoot)
		cat = checkCatalog(ctx, c, l)
	} else {
		c.miss("content root %s does not exist", l.AssetsRoot)
	}

	if parsed != nil && cat != nil {
		checkAssets(ctx, c, l, parsed, cat)
	}
	return c.rep
}

func checkDocument(c *checker, path string) *document.Parsed {
	parsed, err := document.ReadFile(path)
	switch {
	case errors.Is(err, document.ErrNotFound):
		c.miss("registry document %s does not exist", path)
		return nil
	case errors.Is(err, document.ErrUnsupportedVersion):
		c.fail("registry document %s: %v", path, err)
		return nil
	case errors.Is(err, document.ErrCorrupt):
		c.fail("registry document %s is unreadable and will be discarded on next load: %v", path, err)
		return nil
	case err != nil:
		c.fail("registry document %s: %v", path, err)
		return nil
	}

	c.ok("registry document %s (version %s, %d bundles, %d assets)",
		path, parsed.Version, len(parsed.Bundles), len(parsed.Assets))
	for _, e := range parsed.Bundles {
		if !e.Valid() {
			c.warn("bundles[%d]: %s", e.Index, joinIssues(e.Issues))
		}
	}
	for _, e := range parsed.Assets {
		if !e.Valid() {
			c.warn("assets[%d]: %s", e.Index, joinIssues(e.Issues))
		}
	}
	return parsed
}

func checkCatalog(ctx context.Context, c *checker, l Layout) *catalog.Catalog {
	cat, err := catalog.Open(ctx, l.AssetsRoot, l.Root, l.CatalogCache)
	if err != nil {
		c.fail("scanning %s: %v", l.AssetsRoot, err)
		return nil
	}
	c.ok("catalog: %d identified content items", cat.Len())
	for _, cf := range cat.Conflicts() {
		c.warn("identifier %s of %s is already used by %s", cf.GUID, cf.Path, cf.Kept)
	}
	for _, p := range cat.Invalid() {
		c.warn("sidecar %s has no readable identifier", p)
	}
	if n := len(cat.Unidentified()); n > 0 {
		c.warn("%d content files have no sidecar (run '%s catalog scan --fix')", n, branding.CLIName())
	}
	return cat
}

func checkAssets(ctx context.Context, c *checker, l Layout, parsed *document.Parsed, cat *catalog.Catalog) {
	for _, e := range parsed.Assets {
		if !e.Valid() {
			continue
		}
		if _, ok := cat.ResolveGUIDToPath(e.Record.GUID); !ok {
			c.warn("asset %s in bundle %s no longer resolves to a content item",
				e.Record.GUID, registry.FullName(e.Record.Bundle, e.Record.Variant))
		}
	}

	// A dry replay counts records that break a registry invariant.
	res := registry.New(l.Document, cat).Replay(ctx, parsed, nil)
	total := len(parsed.Bundles) + len(parsed.Assets)
	if res.Skipped > 0 {
		c.warn("%d of %d records will be skipped on load", res.Skipped, total)
		return
	}
	c.ok("all %d records replay cleanly", total)
}

func joinIssues(issues []document.ValidationIssue) string {
	parts := make([]string, 0, len(issues))
	for _, is := range issues {
		parts = append(parts, is.String())
	}
	return strings.Join(parts, "; ")
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
