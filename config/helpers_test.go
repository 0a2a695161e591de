package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepository_Slug(t *testing.T) {
	tests := []struct {
		name      string
		repo      Repository
		wantOwner string
		wantName  string
		wantOK    bool
	}{
		{
			name:      "explicit owner and name win",
			repo:      Repository{URL: "https://github.com/other/project.git", Owner: "acme", Name: "widget"},
			wantOwner: "acme",
			wantName:  "widget",
			wantOK:    true,
		},
		{
			name:      "https url",
			repo:      Repository{URL: "https://github.com/acme/widget.git"},
			wantOwner: "acme",
			wantName:  "widget",
			wantOK:    true,
		},
		{
			name:      "https url without suffix",
			repo:      Repository{URL: "https://github.com/acme/widget"},
			wantOwner: "acme",
			wantName:  "widget",
			wantOK:    true,
		},
		{
			name:      "ssh scp style",
			repo:      Repository{URL: "git@github.com:acme/widget.git"},
			wantOwner: "acme",
			wantName:  "widget",
			wantOK:    true,
		},
		{
			name:      "bare host path",
			repo:      Repository{URL: "github.com/acme/widget"},
			wantOwner: "acme",
			wantName:  "widget",
			wantOK:    true,
		},
		{
			name:   "owner only is not enough",
			repo:   Repository{Owner: "acme"},
			wantOK: false,
		},
		{
			name:   "unparseable url",
			repo:   Repository{URL: "not-a-url"},
			wantOK: false,
		},
		{
			name:   "empty",
			repo:   Repository{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, name, ok := tt.repo.Slug()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestRepository_CloneURL(t *testing.T) {
	assert.Equal(t, "https://github.com/acme/widget.git",
		Repository{Owner: "acme", Name: "widget"}.CloneURL())

	assert.Equal(t, "git@github.com:acme/widget.git",
		Repository{URL: "git@github.com:acme/widget.git"}.CloneURL())

	assert.Empty(t, Repository{}.CloneURL())
}
