package secrets

import (
	"context"
	"fmt"
	"sync"
)

// Config holds the configuration for the Manager.
type Config struct {
	// DefaultProvider is the provider Resolve uses when no provider name is
	// given.
	DefaultProvider string

	// AutoClear makes resolved secrets zero their memory after the first
	// String or Bytes call.
	AutoClear bool
}

// Manager orchestrates secret resolution across registered providers. It is
// safe for concurrent use.
type Manager struct {
	providers       map[string]Provider
	defaultProvider string
	autoClear       bool

	mu sync.RWMutex
}

// NewManager creates a Manager with the provided configuration. A nil config
// yields a manager with no default provider.
func NewManager(config *Config) *Manager {
	if config == nil {
		config = &Config{}
	}
	return &Manager{
		providers:       make(map[string]Provider),
		defaultProvider: config.DefaultProvider,
		autoClear:       config.AutoClear,
	}
}

// RegisterProvider adds a provider under the given name. Registering a name
// twice is an error.
func (m *Manager) RegisterProvider(name string, provider Provider) error {
	if name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	if provider == nil {
		return fmt.Errorf("provider cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.providers[name]; exists {
		return fmt.Errorf("provider %q already registered", name)
	}
	m.providers[name] = provider
	return nil
}

// Resolve resolves a secret using the default provider.
func (m *Manager) Resolve(ctx context.Context, ref SecretRef) (*Secret, error) {
	if m.defaultProvider == "" {
		return nil, fmt.Errorf("no default provider configured")
	}
	return m.ResolveFrom(ctx, m.defaultProvider, ref)
}

// ResolveFrom resolves a secret using a specific provider. The manager's
// AutoClear setting is applied to the resolved secret.
func (m *Manager) ResolveFrom(ctx context.Context, providerName string, ref SecretRef) (*Secret, error) {
	provider, err := m.provider(providerName)
	if err != nil {
		return nil, err
	}

	secret, err := provider.Resolve(ctx, ref)
	if err != nil {
		return nil, WrapProviderError(providerName, ref, err, "failed to resolve secret")
	}
	if secret != nil {
		secret.AutoClear = m.autoClear
	}
	return secret, nil
}

// Exists checks whether a secret exists using the default provider.
func (m *Manager) Exists(ctx context.Context, ref SecretRef) (bool, error) {
	if m.defaultProvider == "" {
		return false, fmt.Errorf("no default provider configured")
	}
	return m.ExistsFrom(ctx, m.defaultProvider, ref)
}

// ExistsFrom checks whether a secret exists using a specific provider.
func (m *Manager) ExistsFrom(ctx context.Context, providerName string, ref SecretRef) (bool, error) {
	provider, err := m.provider(providerName)
	if err != nil {
		return false, err
	}

	exists, err := provider.Exists(ctx, ref)
	if err != nil {
		return false, WrapProviderError(providerName, ref, err, "failed to check existence")
	}
	return exists, nil
}

// Close shuts down all registered providers and clears the registry.
// Errors from individual providers are aggregated.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for name, provider := range m.providers {
		if err := provider.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close provider %q: %w", name, err))
		}
	}
	m.providers = make(map[string]Provider)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("errors during shutdown: %v", errs)
}

func (m *Manager) provider(name string) (Provider, error) {
	if name == "" {
		return nil, fmt.Errorf("provider name cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	provider, exists := m.providers[name]
	if !exists {
		return nil, fmt.Errorf("provider %q not found", name)
	}
	return provider, nil
}
