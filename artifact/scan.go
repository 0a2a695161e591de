package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/input-output-hk/catalyst-forge-release/domain"
	"github.com/input-output-hk/catalyst-forge-release/fs"
)

// Scan reads the given directory and builds the artifact set. Subdirectories
// and dotfiles are ignored. A missing directory yields an empty set, since
// build tools only create the output directory when they produce something.
func Scan(fsys fs.ReadFS, dir string) (*Set, error) {
	set := &Set{dir: dir}

	exists, err := fsys.Exists(dir)
	if err != nil {
		return nil, fmt.Errorf("checking output directory %s: %w", dir, err)
	}
	if !exists {
		return set, nil
	}

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading output directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		digest, err := digestFile(fsys, path)
		if err != nil {
			return nil, err
		}

		set.artifacts = append(set.artifacts, Artifact{
			Name:   entry.Name(),
			Path:   path,
			Size:   entry.Size(),
			Digest: digest,
			Type:   Classify(entry.Name()),
		})
	}

	sort.Slice(set.artifacts, func(i, j int) bool {
		return set.artifacts[i].Name < set.artifacts[j].Name
	})
	return set, nil
}

// Classify maps a file name to its distribution type by extension.
func Classify(name string) domain.ArtifactType {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".whl"):
		return domain.ArtifactTypeWheel
	case strings.HasSuffix(lower, ".tar.gz"):
		return domain.ArtifactTypeSDist
	case strings.HasSuffix(lower, ".zip"):
		return domain.ArtifactTypeArchive
	default:
		return domain.ArtifactTypePackage
	}
}

func digestFile(fsys fs.ReadFS, path string) (string, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return "sha256:" + hex.EncodeToString(hash.Sum(nil)), nil
}
