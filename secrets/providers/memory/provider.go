// Package memory provides an in-memory secret provider for tests and local
// dry runs. It implements the full WriteableProvider interface with
// thread-safe operations and no persistence.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/input-output-hk/catalyst-forge-release/secrets"
)

// latestVersion is the version used when a reference does not name one.
const latestVersion = "latest"

// Provider is an in-memory secret store keyed by path and version.
type Provider struct {
	store map[string]map[string]*secrets.Secret
	mu    sync.RWMutex
}

// New creates an empty memory provider.
func New() *Provider {
	return &Provider{
		store: make(map[string]map[string]*secrets.Secret),
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "memory"
}

// HealthCheck always succeeds for the memory provider.
func (p *Provider) HealthCheck(_ context.Context) error {
	return nil
}

// Close zeros and drops every stored secret.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for path, versions := range p.store {
		for version, secret := range versions {
			secret.Clear()
			delete(versions, version)
		}
		delete(p.store, path)
	}
	return nil
}

// Resolve retrieves a secret by reference. The returned secret is a copy;
// mutating it does not affect the store.
func (p *Provider) Resolve(ctx context.Context, ref secrets.SecretRef) (*secrets.Secret, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolve cancelled: %w", err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	secret, err := p.lookup(ref)
	if err != nil {
		return nil, err
	}
	return copySecret(secret), nil
}

// Exists reports whether the referenced secret is stored.
func (p *Provider) Exists(ctx context.Context, ref secrets.SecretRef) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("exists check cancelled: %w", err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	_, err := p.lookup(ref)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// Store saves a secret value under the reference's path and version.
func (p *Provider) Store(ctx context.Context, ref secrets.SecretRef, value []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("store cancelled: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.store[ref.Path] == nil {
		p.store[ref.Path] = make(map[string]*secrets.Secret)
	}

	version := ref.Version
	if version == "" {
		version = latestVersion
	}

	p.store[ref.Path][version] = &secrets.Secret{
		Value:     append([]byte(nil), value...),
		Version:   version,
		CreatedAt: time.Now(),
	}
	return nil
}

// Delete zeros and removes a stored secret.
func (p *Provider) Delete(ctx context.Context, ref secrets.SecretRef) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete cancelled: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	secret, err := p.lookup(ref)
	if err != nil {
		return err
	}
	secret.Clear()

	version := ref.Version
	if version == "" {
		version = latestVersion
	}
	delete(p.store[ref.Path], version)
	if len(p.store[ref.Path]) == 0 {
		delete(p.store, ref.Path)
	}
	return nil
}

// lookup finds the stored secret for ref. Callers must hold p.mu.
func (p *Provider) lookup(ref secrets.SecretRef) (*secrets.Secret, error) {
	versions, exists := p.store[ref.Path]
	if !exists {
		return nil, fmt.Errorf("secret %s: %w", ref.Path, secrets.ErrSecretNotFound)
	}

	version := ref.Version
	if version == "" {
		version = latestVersion
	}

	secret, exists := versions[version]
	if !exists {
		return nil, fmt.Errorf("secret %s@%s: %w", ref.Path, version, secrets.ErrSecretNotFound)
	}
	return secret, nil
}

func copySecret(s *secrets.Secret) *secrets.Secret {
	return &secrets.Secret{
		Value:     append([]byte(nil), s.Value...),
		Version:   s.Version,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
		AutoClear: s.AutoClear,
	}
}
