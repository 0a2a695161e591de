// Package fs defines the filesystem abstraction used across the release
// pipeline. Components depend on these interfaces rather than the os package
// so runs can be exercised against in-memory filesystems in tests.
package fs

import (
	"io/fs"
	"os"
	"path/filepath"
)

// File represents an open file handle supporting basic I/O operations.
// Implementations should behave consistently with the standard library.
type File interface {
	Close() error
	Name() string
	Read(p []byte) (n int, err error)
	ReadAt(p []byte, off int64) (n int, err error)
	Seek(offset int64, whence int) (int64, error)
	Stat() (fs.FileInfo, error)
	Write(p []byte) (n int, err error)
}

// ReadFS is the read-only view of a filesystem. Components that only inspect
// a tree (version resolution, artifact scanning, config loading) accept this
// interface.
type ReadFS interface {
	// Exists reports whether the path exists. A missing path is not an error.
	Exists(path string) (bool, error)

	// Open opens the named file for reading.
	Open(path string) (File, error)

	// ReadDir reads the directory and returns its entries.
	ReadDir(path string) ([]os.FileInfo, error)

	// ReadFile reads the named file and returns its contents.
	ReadFile(path string) ([]byte, error)

	// Stat returns file info for the path.
	Stat(path string) (os.FileInfo, error)

	// Walk walks the file tree rooted at root, calling walkFn for each file
	// or directory, including root.
	Walk(root string, walkFn filepath.WalkFunc) error
}

// WriteFS is the mutating view of a filesystem.
type WriteFS interface {
	// Create creates or truncates the named file.
	Create(path string) (File, error)

	// MkdirAll creates the directory path along with any missing parents.
	MkdirAll(path string, perm os.FileMode) error

	// OpenFile opens the named file with the specified flag and permissions.
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// Remove removes the named file or empty directory.
	Remove(path string) error

	// TempDir creates a new temporary directory under dir with the given
	// prefix and returns its path.
	TempDir(dir, prefix string) (string, error)

	// WriteFile writes data to the named file, creating it if necessary.
	WriteFile(path string, data []byte, perm os.FileMode) error
}

// Filesystem is the full filesystem contract combining read and write views.
type Filesystem interface {
	ReadFS
	WriteFS
}
