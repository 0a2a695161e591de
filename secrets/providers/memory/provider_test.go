package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-release/secrets"
)

func TestProvider_Name(t *testing.T) {
	assert.Equal(t, "memory", New().Name())
}

func TestProvider_StoreAndResolve(t *testing.T) {
	p := New()
	ctx := context.Background()

	tests := []struct {
		name  string
		ref   secrets.SecretRef
		value []byte
	}{
		{
			name:  "unversioned",
			ref:   secrets.SecretRef{Path: "release/token"},
			value: []byte("ghp_example"),
		},
		{
			name:  "versioned",
			ref:   secrets.SecretRef{Path: "registry/password", Version: "v1"},
			value: []byte("hunter2"),
		},
		{
			name: "with metadata",
			ref: secrets.SecretRef{
				Path:     "signing/key",
				Metadata: map[string]string{"algorithm": "ed25519"},
			},
			value: []byte("key-material"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, p.Store(ctx, tt.ref, tt.value))

			secret, err := p.Resolve(ctx, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.value, secret.Value)
			assert.NotEmpty(t, secret.Version)
			assert.False(t, secret.CreatedAt.IsZero())
		})
	}
}

func TestProvider_Resolve_NotFound(t *testing.T) {
	p := New()

	_, err := p.Resolve(context.Background(), secrets.SecretRef{Path: "missing"})
	require.Error(t, err)
	assert.ErrorIs(t, err, secrets.ErrSecretNotFound)
}

func TestProvider_Resolve_VersionNotFound(t *testing.T) {
	p := New()
	ctx := context.Background()

	require.NoError(t, p.Store(ctx, secrets.SecretRef{Path: "release/token", Version: "v1"}, []byte("x")))

	_, err := p.Resolve(ctx, secrets.SecretRef{Path: "release/token", Version: "v2"})
	require.Error(t, err)
	assert.ErrorIs(t, err, secrets.ErrSecretNotFound)
}

func TestProvider_Resolve_ReturnsCopy(t *testing.T) {
	p := New()
	ctx := context.Background()
	ref := secrets.SecretRef{Path: "release/token"}

	require.NoError(t, p.Store(ctx, ref, []byte("ghp_example")))

	first, err := p.Resolve(ctx, ref)
	require.NoError(t, err)
	first.Clear()

	second, err := p.Resolve(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("ghp_example"), second.Value)
}

func TestProvider_Exists(t *testing.T) {
	p := New()
	ctx := context.Background()

	exists, err := p.Exists(ctx, secrets.SecretRef{Path: "release/token"})
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, p.Store(ctx, secrets.SecretRef{Path: "release/token"}, []byte("x")))

	exists, err = p.Exists(ctx, secrets.SecretRef{Path: "release/token"})
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestProvider_Delete(t *testing.T) {
	p := New()
	ctx := context.Background()
	ref := secrets.SecretRef{Path: "release/token"}

	require.NoError(t, p.Store(ctx, ref, []byte("x")))
	require.NoError(t, p.Delete(ctx, ref))

	exists, err := p.Exists(ctx, ref)
	require.NoError(t, err)
	assert.False(t, exists)

	err = p.Delete(ctx, ref)
	require.Error(t, err)
	assert.ErrorIs(t, err, secrets.ErrSecretNotFound)
}

func TestProvider_Close_ClearsStore(t *testing.T) {
	p := New()
	ctx := context.Background()

	require.NoError(t, p.Store(ctx, secrets.SecretRef{Path: "release/token"}, []byte("x")))
	require.NoError(t, p.Close())

	exists, err := p.Exists(ctx, secrets.SecretRef{Path: "release/token"})
	require.NoError(t, err)
	assert.False(t, exists)
}
