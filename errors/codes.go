// Package errors provides a foundational error handling system for the release
// publication pipeline. It extends Go's standard error handling with structured
// error codes, classification helpers, and context preservation.
package errors

// ErrorCode represents a specific error condition in the release pipeline.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Pipeline step failures. Each code maps to exactly one step of the
	// publication sequence and is terminal for the run that raised it.

	// CodeCheckoutFailed indicates the source tree could not be acquired at
	// the triggering commit.
	CodeCheckoutFailed ErrorCode = "CHECKOUT_FAILED"

	// CodeRuntimeSetupFailed indicates no interpreter satisfying the version
	// constraint could be provisioned.
	CodeRuntimeSetupFailed ErrorCode = "RUNTIME_SETUP_FAILED"

	// CodeDependencyInstallFailed indicates project or development
	// dependencies could not be installed.
	CodeDependencyInstallFailed ErrorCode = "DEPENDENCY_INSTALL_FAILED"

	// CodeBuildFailed indicates the build tool exited with an error.
	CodeBuildFailed ErrorCode = "BUILD_FAILED"

	// CodeVersionResolutionFailed indicates the package version could not be
	// resolved from project metadata, or the derived tag name contradicts the
	// triggering tag.
	CodeVersionResolutionFailed ErrorCode = "VERSION_RESOLUTION_FAILED"

	// CodePublishFailed indicates the hosting service rejected the release or
	// an asset upload failed.
	CodePublishFailed ErrorCode = "PUBLISH_FAILED"

	// Resource errors.

	// CodeNotFound indicates a requested resource does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates a resource already exists and cannot be
	// created again. Duplicate tag rejections carry this code.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Permission errors.

	// CodeUnauthorized indicates the request lacks valid authentication credentials.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Infrastructure errors.

	// CodeNetwork indicates a network operation failed.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// Execution errors.

	// CodeExecutionFailed indicates an external command failed.
	CodeExecutionFailed ErrorCode = "EXECUTION_FAILED"

	// System errors.

	// CodeInternal indicates an internal system error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// Generic errors.

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// String returns the string representation of the ErrorCode.
func (c ErrorCode) String() string {
	return string(c)
}
