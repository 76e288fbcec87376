package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Entry is one identified content item.
type Entry struct {
	GUID string `json:"guid"`
	Path string `json:"path"` // relative to the project root, "/"-separated
}

// Conflict records a sidecar whose identifier was already claimed by an
// earlier item.
type Conflict struct {
	GUID string `json:"guid"`
	Path string `json:"path"` // the item that lost
	Kept string `json:"kept"` // the item the identifier resolves to
}

// Catalog is an in-memory identifier index. It is not safe for concurrent
// mutation; lookups on a catalog nobody mutates are fine.
type Catalog struct {
	byGUID       map[string]string
	byPath       map[string]string // folded path -> guid
	conflicts    []Conflict
	unidentified []string
	invalid      []string
}

// New builds a catalog from entries. When two entries share an identifier
// the first one wins and the second is recorded as a conflict.
func New(entries []Entry) *Catalog {
	c := &Catalog{
		byGUID: make(map[string]string, len(entries)),
		byPath: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		c.add(e)
	}
	return c
}

func (c *Catalog) add(e Entry) bool {
	if kept, ok := c.byGUID[e.GUID]; ok {
		c.conflicts = append(c.conflicts, Conflict{GUID: e.GUID, Path: e.Path, Kept: kept})
		return false
	}
	c.byGUID[e.GUID] = e.Path
	c.byPath[foldPath(e.Path)] = e.GUID
	return true
}

// ResolveGUIDToPath returns the current path of the content item with the
// given identifier.
func (c *Catalog) ResolveGUIDToPath(guid string) (string, bool) {
	if c == nil {
		return "", false
	}
	p, ok := c.byGUID[guid]
	return p, ok
}

// GUIDForPath returns the identifier of the content item at path. The
// comparison ignores case and accepts either separator.
func (c *Catalog) GUIDForPath(path string) (string, bool) {
	if c == nil {
		return "", false
	}
	g, ok := c.byPath[foldPath(path)]
	return g, ok
}

// Len returns the number of identified items.
func (c *Catalog) Len() int { return len(c.byGUID) }

// Entries returns all identified items ordered by path.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.byGUID))
	for g, p := range c.byGUID {
		out = append(out, Entry{GUID: g, Path: p})
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Path, b.Path) })
	return out
}

// Conflicts returns identifiers claimed by more than one sidecar.
func (c *Catalog) Conflicts() []Conflict { return slices.Clone(c.conflicts) }

// Unidentified returns content files that have no sidecar.
func (c *Catalog) Unidentified() []string { return slices.Clone(c.unidentified) }

// Invalid returns sidecars that could not be read or carry no identifier.
func (c *Catalog) Invalid() []string { return slices.Clone(c.invalid) }

func foldPath(p string) string {
	return cases.Fold().String(strings.ReplaceAll(p, `\`, "/"))
}
