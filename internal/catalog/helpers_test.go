package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTree creates files under root; keys are "/"-separated relative paths.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// newProject returns a project root holding a small Assets tree.
func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Assets/ui/icon.png":              "png",
		"Assets/ui/icon.png.meta":         "fileFormatVersion: 2\nguid: aaaa0000aaaa0000aaaa0000aaaa0000\n",
		"Assets/ui.meta":                  "guid: dddd0000dddd0000dddd0000dddd0000\n",
		"Assets/levels/forest.unity":      "scene",
		"Assets/levels/forest.unity.meta": "guid: bbbb0000bbbb0000bbbb0000bbbb0000\n",
		"Assets/props/crate.prefab":       "prefab",
	})
	return root
}
