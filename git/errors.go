package git

import (
	"errors"
	"fmt"
)

// Sentinel errors for source-acquisition failures. All wrapped errors can be
// checked with errors.Is().

// ErrAuthRequired is returned when a remote operation needs credentials but
// none were configured.
var ErrAuthRequired = errors.New("authentication required")

// ErrAuthFailed is returned when the remote rejected the configured
// credentials.
var ErrAuthFailed = errors.New("authentication failed")

// ErrInvalidRef is returned when a reference name or option value is
// malformed.
var ErrInvalidRef = errors.New("invalid reference")

// ErrResolveFailed is returned when a revision specifier cannot be resolved
// to a commit, such as a tag that does not exist in the clone.
var ErrResolveFailed = errors.New("cannot resolve revision")

// ErrCheckoutFailed is returned when the worktree cannot be pinned to the
// requested commit.
var ErrCheckoutFailed = errors.New("checkout failed")

// ErrTagExists is returned when creating a tag whose name is already taken.
var ErrTagExists = errors.New("tag already exists")

// ErrTagMissing is returned when operating on a tag that does not exist.
var ErrTagMissing = errors.New("tag does not exist")

// WrapError wraps an error with additional context while preserving the
// ability to check sentinels with errors.Is().
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf wraps an error with formatted context while preserving the
// ability to check sentinels with errors.Is().
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
