package project

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bundlex-labs/bundlex/internal/document"
)

func TestInit_CreatesStructure(t *testing.T) {
	l := DefaultLayout(t.TempDir())

	var buf bytes.Buffer
	if err := Init(&buf, l); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	assertDirExists(t, l.SettingsDir)
	assertDirExists(t, l.AssetsRoot)
	assertFileExists(t, l.ConfigFile)

	parsed, err := document.ReadFile(l.Document)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(parsed.Bundles) != 0 || len(parsed.Assets) != 0 {
		t.Errorf("new document = %+v, want empty", parsed)
	}
	if parsed.Version != document.CurrentVersion {
		t.Errorf("Version = %s, want %s", parsed.Version, document.CurrentVersion)
	}
	if !strings.Contains(buf.String(), "[ OK ]") {
		t.Error("expected [ OK ] in output")
	}
}

func TestInit_Idempotent(t *testing.T) {
	l := DefaultLayout(t.TempDir())

	var first bytes.Buffer
	if err := Init(&first, l); err != nil {
		t.Fatalf("first Init() error = %v", err)
	}
	if err := os.WriteFile(l.Document, []byte("version: 1.0.0\nbundles:\n  - name: keep\n    loadType: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var second bytes.Buffer
	if err := Init(&second, l); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	if strings.Contains(second.String(), "[ OK ]") {
		t.Errorf("second Init() created something:\n%s", second.String())
	}
	if got := strings.Count(second.String(), "[SKIP]"); got != 4 {
		t.Errorf("second Init() skipped %d items, want 4", got)
	}

	data, err := os.ReadFile(l.Document)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "name: keep") {
		t.Error("Init() overwrote an existing document")
	}
}

func TestInit_SettingsPathIsFile(t *testing.T) {
	root := t.TempDir()
	l := DefaultLayout(root)
	if err := os.WriteFile(l.SettingsDir, nil, 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Init(&buf, l); err == nil {
		t.Fatal("Init() should fail when the settings path is a file")
	}
}

func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected directory %s: %v", path, err)
	}
	if !info.IsDir() {
		t.Fatalf("expected %s to be a directory", filepath.Base(path))
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file %s: %v", path, err)
	}
}
