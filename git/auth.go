package git

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// TokenAuth authenticates http(s) remotes with an access token, the way CI
// release runs authenticate against their hosting platform. Other transports
// and an empty token yield no credentials.
type TokenAuth struct {
	// Token is the access token. Empty disables authentication.
	Token string

	// Username is the basic-auth username presented alongside the token.
	// GitHub accepts any non-empty value here. Defaults to "x-access-token".
	Username string
}

// Method implements AuthProvider.
func (t TokenAuth) Method(remoteURL string) (transport.AuthMethod, error) {
	if t.Token == "" || !strings.HasPrefix(remoteURL, "http") {
		return nil, nil
	}

	username := t.Username
	if username == "" {
		username = "x-access-token"
	}
	return &githttp.BasicAuth{Username: username, Password: t.Token}, nil
}
