//go:build integration

package integration_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bundlex-labs/bundlex/internal/project"
)

// testEnv holds the paths of an isolated test project.
type testEnv struct {
	ProjectDir string
	Layout     project.Layout
}

// setupTestEnv initializes a project in a temp directory and points
// BUNDLEX_PROJECT at it. The env var is restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("BUNDLEX_PROJECT", dir)

	env := &testEnv{ProjectDir: dir, Layout: project.DefaultLayout(dir)}
	var out bytes.Buffer
	if err := project.Init(&out, env.Layout); err != nil {
		t.Fatalf("Init: %v\n%s", err, out.String())
	}
	return env
}

// setupContent creates a synthetic content tree under the project's
// content root: UI textures and prefabs with sidecars, two scenes, and
// one texture without a sidecar. It returns the identifiers by path.
func setupContent(t *testing.T, env *testEnv) map[string]string {
	t.Helper()

	guids := map[string]string{
		"Assets/ui/hud/health.png":      "1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a",
		"Assets/ui/hud/ammo.png":        "2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b",
		"Assets/ui/menu/title.png":      "3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c",
		"Assets/ui/menu/Title.prefab":   "4d4d4d4d4d4d4d4d4d4d4d4d4d4d4d4d",
		"Assets/levels/forest.unity":    "5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e5e",
		"Assets/levels/desert.unity":    "6f6f6f6f6f6f6f6f6f6f6f6f6f6f6f6f",
		"Assets/characters/hero.fbx":    "7a7a7a7a7a7a7a7a7a7a7a7a7a7a7a7a",
		"Assets/characters/hero_hd.fbx": "8b8b8b8b8b8b8b8b8b8b8b8b8b8b8b8b",
	}
	for rel, guid := range guids {
		path := filepath.Join(env.ProjectDir, filepath.FromSlash(rel))
		writeFile(t, path, "content of "+rel)
		writeFile(t, path+".meta", "fileFormatVersion: 2\nguid: "+guid+"\n")
	}
	writeFile(t, filepath.Join(env.Layout.AssetsRoot, "ui", "unlisted.png"), "no sidecar")
	return guids
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
