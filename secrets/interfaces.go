package secrets

import "context"

// Resolver is the core secret-resolution interface.
type Resolver interface {
	// Resolve retrieves a single secret by reference.
	Resolve(ctx context.Context, ref SecretRef) (*Secret, error)

	// Exists reports whether a secret exists without retrieving its value.
	Exists(ctx context.Context, ref SecretRef) (bool, error)
}

// Provider extends Resolver with lifecycle management. All secret providers
// implement this interface.
type Provider interface {
	Resolver

	// Name returns the provider's identifier (e.g. "env", "memory").
	Name() string

	// HealthCheck verifies the provider is usable. Returns nil when healthy.
	HealthCheck(ctx context.Context) error

	// Close releases any resources the provider holds.
	Close() error
}

// WriteableProvider extends Provider with mutation operations. Read-only
// providers such as the process environment do not implement it.
type WriteableProvider interface {
	Provider

	// Store saves a secret value.
	Store(ctx context.Context, ref SecretRef, value []byte) error

	// Delete removes a secret.
	Delete(ctx context.Context, ref SecretRef) error
}
