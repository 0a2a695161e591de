// Package secrets resolves publishing credentials just in time.
//
// A release run needs exactly one sensitive value, the release-host API
// token, and it needs it only for the publish step. This package keeps that
// value out of configuration files and run reports: configuration carries a
// SecretRef, and the token itself is resolved from a provider immediately
// before use.
//
// # Usage
//
//	manager := secrets.NewManager(&secrets.Config{
//		DefaultProvider: "env",
//		AutoClear:       true,
//	})
//	defer manager.Close()
//
//	if err := manager.RegisterProvider("env", env.New()); err != nil {
//		return err
//	}
//
//	secret, err := manager.Resolve(ctx, secrets.SecretRef{Path: "GITHUB_TOKEN"})
//	if err != nil {
//		return err
//	}
//	token := secret.String() // cleared after this call when AutoClear is set
//
// # Error Handling
//
//	if errors.Is(err, secrets.ErrSecretNotFound) {
//		// token not configured on this host
//	}
package secrets

import "time"

// Secret is a resolved secret value with metadata.
type Secret struct {
	// Value holds the secret data. It must never be logged.
	Value []byte
	// Version identifies which version of the secret was resolved.
	Version string
	// CreatedAt records when the secret was created, if the provider knows.
	CreatedAt time.Time
	// ExpiresAt is when the secret expires; nil means no expiration.
	ExpiresAt *time.Time
	// AutoClear makes String and Bytes zero the value after the first read.
	AutoClear bool
}

// SecretRef points at a secret without containing its value. References are
// safe to place in configuration files and run reports.
type SecretRef struct {
	// Path locates the secret. Its shape is provider specific: the env
	// provider treats it as an environment variable name, the memory
	// provider as an opaque key.
	Path string
	// Version selects a specific version; empty means latest.
	Version string
	// Metadata carries provider-specific hints.
	Metadata map[string]string
}

// String returns the secret value as a string copy.
// When AutoClear is set the underlying value is zeroed before returning.
func (s *Secret) String() string {
	if s.Value == nil {
		return ""
	}

	value := string(s.Value)
	if s.AutoClear {
		s.Clear()
	}
	return value
}

// Bytes returns a copy of the secret value.
// When AutoClear is set the underlying value is zeroed before returning.
func (s *Secret) Bytes() []byte {
	if s.Value == nil {
		return nil
	}

	value := make([]byte, len(s.Value))
	copy(value, s.Value)
	if s.AutoClear {
		s.Clear()
	}
	return value
}

// Clear zeros the secret value in place and drops the reference.
func (s *Secret) Clear() {
	if s.Value == nil {
		return
	}
	for i := range s.Value {
		s.Value[i] = 0
	}
	s.Value = nil
}
