// Package fsbridge adapts the project's filesystem abstraction to the billy
// interfaces go-git operates on, and builds go-git storage over them.
package fsbridge

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/input-output-hk/catalyst-forge-release/fs"
	fsbilly "github.com/input-output-hk/catalyst-forge-release/fs/billy"
)

// ToBillyFilesystem unwraps an fs.Filesystem into the billy.Filesystem go-git
// needs. The filesystem must be a billy-backed FS from the fs/billy package.
//
//nolint:ireturn // billy.Filesystem is the interface go-git consumes
func ToBillyFilesystem(fsys fs.Filesystem) (billy.Filesystem, error) {
	billyFS, ok := fsys.(*fsbilly.FS)
	if !ok {
		return nil, fmt.Errorf("filesystem must be billy-backed, got %T", fsys)
	}
	return billyFS.Raw(), nil
}

// NewStorage creates go-git filesystem storage with an LRU object cache of
// the given entry count. Non-positive sizes fall back to a minimal cache.
func NewStorage(billyFS billy.Filesystem, cacheSize int) *filesystem.Storage {
	if cacheSize <= 0 {
		cacheSize = 100
	}
	return filesystem.NewStorage(billyFS, cache.NewObjectLRU(cache.FileSize(cacheSize)))
}
