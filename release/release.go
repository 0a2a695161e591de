// Package release publishes a built version to the hosting platform.
//
// A Descriptor captures everything one release needs: the tag, display name,
// notes, publish flags, and the artifact files to attach. The Publisher
// consumes a descriptor exactly once, creating the release through the
// GitHub API and uploading each asset. Publishing is the final step of a
// run, so no partial release ever precedes an earlier failure; a duplicate
// tag is rejected by the host and surfaces here as ErrReleaseExists.
package release

import (
	"errors"
	"fmt"

	"github.com/input-output-hk/catalyst-forge-release/artifact"
)

// Notes modes select how a release's notes are produced.
const (
	// NotesModeGenerated lets the hosting platform generate the notes.
	NotesModeGenerated = "generated"

	// NotesModeChangelog renders notes from the commit history instead.
	NotesModeChangelog = "changelog"

	// NotesModeBoth sends rendered notes and lets the platform append its
	// generated ones.
	NotesModeBoth = "both"
)

var (
	// ErrInvalidDescriptor indicates the descriptor is missing required
	// fields.
	ErrInvalidDescriptor = errors.New("invalid release descriptor")

	// ErrReleaseExists indicates the host already has a release for the tag.
	ErrReleaseExists = errors.New("release already exists")

	// ErrPublishFailed indicates the host rejected the release or an asset
	// upload.
	ErrPublishFailed = errors.New("publish failed")
)

// Descriptor describes one release to publish.
type Descriptor struct {
	// TagName is the release tag, derived as "v" + resolved version.
	TagName string `json:"tag_name"`

	// DisplayName is the human-facing release title. Empty means the tag
	// name is used.
	DisplayName string `json:"display_name,omitempty"`

	// Notes is the release body. Empty defers to platform-generated notes
	// when GenerateNotes is set.
	Notes string `json:"notes,omitempty"`

	// GenerateNotes asks the platform to generate release notes. When Notes
	// is also set the platform appends its notes to the provided body.
	GenerateNotes bool `json:"generate_notes"`

	// TargetCommitish pins the release to a commit or branch. Empty lets
	// the host resolve the tag itself, which is correct for tag-push runs
	// where the tag already exists.
	TargetCommitish string `json:"target_commitish,omitempty"`

	// Draft publishes the release as a draft when set. Release runs always
	// leave this false.
	Draft bool `json:"draft"`

	// Prerelease marks the release as a prerelease when set. Release runs
	// always leave this false.
	Prerelease bool `json:"prerelease"`

	// MakeLatest marks the release as the repository's latest.
	MakeLatest bool `json:"make_latest"`

	// Assets are the artifact files attached to the release.
	Assets []artifact.Artifact `json:"assets,omitempty"`
}

// NewDescriptor creates a descriptor with the standard release posture:
// not a draft, not a prerelease, marked latest, platform-generated notes.
func NewDescriptor(tagName string) *Descriptor {
	return &Descriptor{
		TagName:       tagName,
		GenerateNotes: true,
		MakeLatest:    true,
	}
}

// Validate checks the descriptor is publishable.
func (d *Descriptor) Validate() error {
	if d.TagName == "" {
		return fmt.Errorf("%w: tag name is required", ErrInvalidDescriptor)
	}
	return nil
}

// Title returns the display name, falling back to the tag name.
func (d *Descriptor) Title() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.TagName
}

// Published reports the outcome of a successful publish.
type Published struct {
	// ID is the host's release identifier.
	ID int64 `json:"id"`

	// URL is the browsable release page.
	URL string `json:"url"`

	// AssetNames lists the uploaded asset names in upload order.
	AssetNames []string `json:"asset_names,omitempty"`
}
