package platform

import (
	"fmt"
	"os"
	"runtime"
)

// Document and directory modes used for files the tool writes into a project.
const (
	FilePermDocument os.FileMode = 0o644
	DirPermProject   os.FileMode = 0o755
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// ReplaceFile moves a fully written temp file over target, applying mode
// first so the final file never appears with the temp file's 0600 bits.
// The temp file is removed if the swap fails.
func ReplaceFile(tmpPath, target string, mode os.FileMode) error {
	if err := Chmod(tmpPath, mode); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("setting permissions on %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", target, err)
	}
	return nil
}
