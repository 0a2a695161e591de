package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetAbs converts a path to its absolute form. Absolute paths pass through
// unchanged; relative paths are resolved against the working directory.
func GetAbs(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("fs: abs %q: %w", path, err)
	}
	return abs, nil
}

// Exists reports whether the path exists on the host filesystem.
// A missing path is not an error.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("fs: stat %q: %w", path, err)
}
