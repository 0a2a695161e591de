// Package artifact models the files a build drops into the output directory.
//
// A Set is created once per run by scanning the configured output directory
// and is read-only afterward. Entries are ordered by file name so runs over
// identical trees produce identical sets. An empty set is valid: a release
// can publish with no attached files.
package artifact

import (
	"fmt"
	"strings"

	"github.com/input-output-hk/catalyst-forge-release/domain"
)

// Artifact is a single file found in the build output directory.
type Artifact struct {
	// Name is the file name without directory components.
	Name string `json:"name"`

	// Path locates the file within the scanned filesystem.
	Path string `json:"path"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// Digest is the SHA-256 digest of the file contents, prefixed with the
	// algorithm ("sha256:...").
	Digest string `json:"digest"`

	// Type is the detected distribution type.
	Type domain.ArtifactType `json:"type"`
}

// Set is an ordered, immutable collection of build artifacts.
type Set struct {
	dir       string
	artifacts []Artifact
}

// Dir returns the directory the set was scanned from.
func (s *Set) Dir() string {
	return s.dir
}

// Len returns the number of artifacts in the set.
func (s *Set) Len() int {
	return len(s.artifacts)
}

// Empty reports whether the set holds no artifacts.
func (s *Set) Empty() bool {
	return len(s.artifacts) == 0
}

// Artifacts returns the artifacts in name order. The returned slice is a
// copy; mutating it does not affect the set.
func (s *Set) Artifacts() []Artifact {
	out := make([]Artifact, len(s.artifacts))
	copy(out, s.artifacts)
	return out
}

// Names returns the artifact file names in order.
func (s *Set) Names() []string {
	names := make([]string, len(s.artifacts))
	for i, a := range s.artifacts {
		names[i] = a.Name
	}
	return names
}

// TotalSize returns the combined size of all artifacts in bytes.
func (s *Set) TotalSize() int64 {
	var total int64
	for _, a := range s.artifacts {
		total += a.Size
	}
	return total
}

// String summarizes the set for logging.
func (s *Set) String() string {
	if s.Empty() {
		return fmt.Sprintf("no artifacts in %s", s.dir)
	}
	return fmt.Sprintf("%d artifacts in %s: %s", s.Len(), s.dir, strings.Join(s.Names(), ", "))
}
