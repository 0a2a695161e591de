package git

import (
	"testing"

	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenAuth_Method(t *testing.T) {
	tests := []struct {
		name      string
		auth      TokenAuth
		remoteURL string
		wantUser  string
		wantPass  string
		wantNil   bool
	}{
		{
			name:      "https remote with token",
			auth:      TokenAuth{Token: "ghp_value"},
			remoteURL: "https://github.com/acme/widget.git",
			wantUser:  "x-access-token",
			wantPass:  "ghp_value",
		},
		{
			name:      "custom username",
			auth:      TokenAuth{Token: "ghp_value", Username: "ci-bot"},
			remoteURL: "https://github.com/acme/widget.git",
			wantUser:  "ci-bot",
			wantPass:  "ghp_value",
		},
		{
			name:      "empty token yields no credentials",
			auth:      TokenAuth{},
			remoteURL: "https://github.com/acme/widget.git",
			wantNil:   true,
		},
		{
			name:      "ssh remote yields no credentials",
			auth:      TokenAuth{Token: "ghp_value"},
			remoteURL: "git@github.com:acme/widget.git",
			wantNil:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method, err := tt.auth.Method(tt.remoteURL)
			require.NoError(t, err)

			if tt.wantNil {
				assert.Nil(t, method)
				return
			}

			basic, ok := method.(*githttp.BasicAuth)
			require.True(t, ok)
			assert.Equal(t, tt.wantUser, basic.Username)
			assert.Equal(t, tt.wantPass, basic.Password)
		})
	}
}
