package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bundlex-labs/bundlex/internal/platform"
)

// ReadFile reads and decodes the document at path. A missing file is
// ErrNotFound.
func ReadFile(path string) (*Parsed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading registry document %s: %w", path, err)
	}

	parsed, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return parsed, nil
}

// WriteFile encodes doc to path. The parent directory is created when
// missing. Content goes to a temp file in the same directory that is
// renamed over path only after a complete, synced write; on any failure
// the temp file is removed and an existing document at path is untouched.
func WriteFile(path string, doc *Document) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, platform.DirPermProject); err != nil {
		return fmt.Errorf("creating document directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp document in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := Encode(tmp, doc); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}

	return platform.ReplaceFile(tmpPath, path, platform.FilePermDocument)
}

// Discard deletes the document at path. A missing file is not an error.
func Discard(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("discarding registry document %s: %w", path, err)
	}
	return nil
}

// Exists reports whether a document file is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
