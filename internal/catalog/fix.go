package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/bundlex-labs/bundlex/internal/platform"
)

// sidecarFormatVersion is written into generated sidecars.
const sidecarFormatVersion = 2

// NewGUID returns a fresh 32-character lowercase hex identifier.
func NewGUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// FixMissing writes a sidecar with a fresh identifier next to every
// unidentified content file and adds the new items to c. projectRoot must
// be the root the catalog was scanned against. It returns the added
// entries; on error, entries written so far are still returned.
func FixMissing(c *Catalog, projectRoot string) ([]Entry, error) {
	var added []Entry
	for i, rel := range c.unidentified {
		guid := NewGUID()
		for {
			if _, taken := c.byGUID[guid]; !taken {
				break
			}
			guid = NewGUID()
		}

		item := filepath.Join(projectRoot, filepath.FromSlash(rel))
		if err := writeSidecar(item+SidecarExt, guid); err != nil {
			c.unidentified = c.unidentified[i:]
			return added, err
		}
		e := Entry{GUID: guid, Path: rel}
		c.add(e)
		added = append(added, e)
	}
	c.unidentified = nil
	return added, nil
}

func writeSidecar(path, guid string) error {
	data, err := yaml.Marshal(sidecar{FileFormatVersion: sidecarFormatVersion, GUID: guid})
	if err != nil {
		return fmt.Errorf("encoding sidecar %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, platform.FilePermDocument); err != nil {
		return fmt.Errorf("writing sidecar %s: %w", path, err)
	}
	return nil
}
