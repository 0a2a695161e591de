// Package domain provides canonical type definitions for release pipeline entities.
package domain

// RunStatus represents the execution status of a release run or a single
// step within it.
type RunStatus string

const (
	// RunStatusPending indicates execution is queued but not yet started.
	RunStatusPending RunStatus = "PENDING"

	// RunStatusRunning indicates execution is currently in progress.
	RunStatusRunning RunStatus = "RUNNING"

	// RunStatusSuccess indicates execution completed successfully.
	RunStatusSuccess RunStatus = "SUCCESS"

	// RunStatusFailed indicates execution completed with errors.
	RunStatusFailed RunStatus = "FAILED"

	// RunStatusCancelled indicates execution was cancelled before completion.
	RunStatusCancelled RunStatus = "CANCELLED"

	// RunStatusSkipped indicates a step never ran because an earlier step
	// failed. Applies to steps only, never to a whole run.
	RunStatusSkipped RunStatus = "SKIPPED"
)

// String returns the string representation of the RunStatus.
func (s RunStatus) String() string {
	return string(s)
}

// TriggerKind indicates how a release run was initiated.
type TriggerKind string

const (
	// TriggerKindTagPush represents a version tag pushed to the repository.
	TriggerKindTagPush TriggerKind = "TAG_PUSH"

	// TriggerKindManual represents a manual dispatch with no payload.
	TriggerKindManual TriggerKind = "MANUAL"
)

// String returns the string representation of the TriggerKind.
func (k TriggerKind) String() string {
	return string(k)
}

// ArtifactType represents the type of build artifact found in the
// distribution output directory.
type ArtifactType string

const (
	// ArtifactTypeWheel represents built wheel distributions (.whl).
	ArtifactTypeWheel ArtifactType = "WHEEL"

	// ArtifactTypeSDist represents source distributions (.tar.gz).
	ArtifactTypeSDist ArtifactType = "SDIST"

	// ArtifactTypeArchive represents other compressed archives (zip, tar).
	ArtifactTypeArchive ArtifactType = "ARCHIVE"

	// ArtifactTypePackage represents any other packaged distribution unit.
	ArtifactTypePackage ArtifactType = "PACKAGE"
)

// String returns the string representation of the ArtifactType.
func (t ArtifactType) String() string {
	return string(t)
}
