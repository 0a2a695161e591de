package secrets

import (
	"errors"
	"fmt"
)

var (
	// ErrSecretNotFound indicates the requested secret does not exist in the
	// provider's backing store. For the env provider this means the
	// environment variable is unset.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrInvalidRef indicates the SecretRef is malformed, such as an empty
	// path.
	ErrInvalidRef = errors.New("invalid secret reference")

	// ErrAccessDenied indicates the provider refused the operation.
	ErrAccessDenied = errors.New("access denied")
)

// ProviderError wraps a provider failure with the provider name and the
// reference that was being resolved. The reference never contains the secret
// value, so the error is safe to log.
type ProviderError struct {
	Provider string
	Ref      SecretRef
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %q: secret %q: %v", e.Provider, e.Ref.Path, e.Err)
}

// Unwrap returns the underlying error for chain traversal.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a ProviderError wrapping err.
func NewProviderError(provider string, ref SecretRef, err error) *ProviderError {
	return &ProviderError{Provider: provider, Ref: ref, Err: err}
}

// IsProviderError reports whether err is or wraps a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// WrapProviderError wraps a provider failure with a message while preserving
// the error chain. Returns nil when err is nil.
func WrapProviderError(provider string, ref SecretRef, err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, NewProviderError(provider, ref, err))
}
