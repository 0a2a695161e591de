// Package auth resolves transport credentials for remote git operations.
// Release runs authenticate with a single host token, so the package exposes
// exactly that: a token-based provider for HTTPS remotes.
package auth

import (
	"fmt"
	"net/url"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// Provider resolves an AuthMethod for a remote URL. It mirrors the provider
// interface the git package consumes.
type Provider interface {
	// Method returns the transport.AuthMethod for the given remote URL.
	// A nil method with a nil error means no authentication is needed.
	Method(remoteURL string) (transport.AuthMethod, error)
}

// TokenProvider authenticates HTTPS remotes with an API token. GitHub and
// compatible hosts accept the token as the basic-auth password with any
// non-empty username.
type TokenProvider struct {
	token    string
	username string
}

// NewTokenProvider creates a provider for the given token.
func NewTokenProvider(token string) *TokenProvider {
	return &TokenProvider{
		token:    token,
		username: "token",
	}
}

// Method returns basic-auth credentials for HTTPS URLs. Non-HTTPS schemes
// are rejected; the release flow never uses SSH remotes.
//
//nolint:ireturn // go-git consumes the transport.AuthMethod interface
func (p *TokenProvider) Method(remoteURL string) (transport.AuthMethod, error) {
	if p.token == "" {
		return nil, fmt.Errorf("token is empty")
	}

	parsed, err := url.Parse(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote URL: %w", err)
	}
	if parsed.Scheme != "https" {
		return nil, fmt.Errorf("token auth supports https:// remotes only, got %s", parsed.Scheme)
	}

	return &http.BasicAuth{
		Username: p.username,
		Password: p.token,
	}, nil
}
