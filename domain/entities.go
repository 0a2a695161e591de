// Package domain provides canonical type definitions for release pipeline entities.
package domain

import "time"

// TriggerEvent represents the external event that initiated a release run.
// It is immutable once constructed: either a version tag push or a manual
// dispatch with no payload.
type TriggerEvent struct {
	// ID is the unique identifier for this trigger instance (UUID).
	ID string `json:"id"`

	// Kind indicates how the run was triggered (tag push or manual).
	Kind TriggerKind `json:"kind"`

	// Ref is the full git reference that fired the trigger
	// (e.g. "refs/tags/v2.3.0"). Empty for manual dispatch.
	Ref string `json:"ref,omitempty"`

	// Tag is the tag name extracted from Ref (e.g. "v2.3.0").
	// Empty for manual dispatch.
	Tag string `json:"tag,omitempty"`

	// CommitSHA pins the run to a specific commit. Empty when the run should
	// resolve the triggering ref (or default branch head) itself.
	CommitSHA string `json:"commit_sha,omitempty"`

	// TriggeredBy identifies who or what initiated the run.
	TriggeredBy string `json:"triggered_by,omitempty"`

	// TriggeredAt is when the trigger fired.
	TriggeredAt time.Time `json:"triggered_at"`
}

// StepRecord represents the execution of a single step within a release run.
// Steps execute strictly in sequence; a failed step marks every later step
// as skipped.
type StepRecord struct {
	// Name is the step's identifier (e.g. "checkout", "build", "publish").
	Name string `json:"name"`

	// Status represents the step's execution status.
	Status RunStatus `json:"status"`

	// StartedAt is when the step began. Nil if the step never ran.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the step finished. Nil if still running or skipped.
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// ExitCode is the process exit code when the step ran an external
	// command. Nil when no command ran or the step failed before exec.
	ExitCode *int `json:"exit_code,omitempty"`

	// Error holds the failure message for failed steps.
	Error string `json:"error,omitempty"`
}

// RunReport represents a complete release run: the trigger, the outcome of
// every step, and the published result. It is serialized to JSON when run
// reporting is configured.
type RunReport struct {
	// ID is the unique identifier for this run (UUID).
	ID string `json:"id"`

	// Trigger is the event that initiated the run.
	Trigger TriggerEvent `json:"trigger"`

	// Status represents the overall run status.
	Status RunStatus `json:"status"`

	// StartedAt is when the run began. Nil if not yet started.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the run finished. Nil if still running.
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Steps records each pipeline step in execution order.
	Steps []StepRecord `json:"steps"`

	// Version is the package version resolved from project metadata.
	// Empty until the resolve step succeeds.
	Version string `json:"version,omitempty"`

	// TagName is the release tag derived from Version ("v" + Version).
	TagName string `json:"tag_name,omitempty"`

	// ArtifactCount is the number of files attached to the release.
	ArtifactCount int `json:"artifact_count"`

	// ReleaseURL is the published release's browser URL. Empty until the
	// publish step succeeds.
	ReleaseURL string `json:"release_url,omitempty"`
}
