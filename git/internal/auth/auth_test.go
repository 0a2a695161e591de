package auth

import (
	"testing"

	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenProvider_Method(t *testing.T) {
	provider := NewTokenProvider("ghp_example")

	method, err := provider.Method("https://github.com/acme/widget.git")
	require.NoError(t, err)

	basic, ok := method.(*http.BasicAuth)
	require.True(t, ok, "expected basic auth for https remotes")
	assert.Equal(t, "token", basic.Username)
	assert.Equal(t, "ghp_example", basic.Password)
}

func TestTokenProvider_RejectsNonHTTPS(t *testing.T) {
	provider := NewTokenProvider("ghp_example")

	tests := []struct {
		name string
		url  string
	}{
		{name: "ssh scheme", url: "ssh://git@github.com/acme/widget.git"},
		{name: "http scheme", url: "http://github.com/acme/widget.git"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := provider.Method(tt.url)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "https:// remotes only")
		})
	}
}

func TestTokenProvider_EmptyToken(t *testing.T) {
	provider := NewTokenProvider("")

	_, err := provider.Method("https://github.com/acme/widget.git")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token is empty")
}

func TestTokenProvider_ImplementsProvider(t *testing.T) {
	var _ Provider = (*TokenProvider)(nil)
}
