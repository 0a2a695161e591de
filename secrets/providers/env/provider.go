// Package env provides a read-only secret provider backed by the process
// environment. It covers the common CI case where the release-host token
// arrives as an environment variable such as GITHUB_TOKEN.
package env

import (
	"context"
	"fmt"
	"os"

	"github.com/input-output-hk/catalyst-forge-release/secrets"
)

// Provider resolves secrets from environment variables. The SecretRef path
// is used verbatim as the variable name; versions are not supported and are
// ignored.
type Provider struct{}

// New creates an environment provider.
func New() *Provider {
	return &Provider{}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "env"
}

// HealthCheck always succeeds; the process environment is always reachable.
func (p *Provider) HealthCheck(_ context.Context) error {
	return nil
}

// Close is a no-op. The provider holds no secret material of its own.
func (p *Provider) Close() error {
	return nil
}

// Resolve reads the environment variable named by ref.Path. An unset
// variable resolves to ErrSecretNotFound; a set-but-empty variable is
// treated the same way, since an empty token is never usable.
func (p *Provider) Resolve(ctx context.Context, ref secrets.SecretRef) (*secrets.Secret, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolve cancelled: %w", err)
	}
	if ref.Path == "" {
		return nil, fmt.Errorf("environment variable name is empty: %w", secrets.ErrInvalidRef)
	}

	value, ok := os.LookupEnv(ref.Path)
	if !ok || value == "" {
		return nil, fmt.Errorf("environment variable %s: %w", ref.Path, secrets.ErrSecretNotFound)
	}

	return &secrets.Secret{
		Value: []byte(value),
	}, nil
}

// Exists reports whether the environment variable is set to a non-empty
// value.
func (p *Provider) Exists(ctx context.Context, ref secrets.SecretRef) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("exists check cancelled: %w", err)
	}
	if ref.Path == "" {
		return false, fmt.Errorf("environment variable name is empty: %w", secrets.ErrInvalidRef)
	}

	value, ok := os.LookupEnv(ref.Path)
	return ok && value != "", nil
}
