package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTags(t *testing.T) {
	tr := setupProjectRepo(t)
	tr.tag(t, "v2.2.0")
	tr.tag(t, "v2.3.0")
	tr.tag(t, "nightly-build")

	tags, err := tr.repo.Tags(tr.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"nightly-build", "v2.2.0", "v2.3.0"}, tags)
}

func TestTags_Empty(t *testing.T) {
	tr := setupProjectRepo(t)

	tags, err := tr.repo.Tags(tr.ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestTags_Filters(t *testing.T) {
	tr := setupProjectRepo(t)
	tr.tag(t, "v2.2.0")
	tr.tag(t, "v2.3.0")
	tr.tag(t, "v2.3.0-rc.1")
	tr.tag(t, "nightly-build")

	tests := []struct {
		name    string
		filters []TagFilter
		want    []string
	}{
		{
			name:    "version pattern",
			filters: []TagFilter{TagPatternFilter("v*")},
			want:    []string{"v2.2.0", "v2.3.0", "v2.3.0-rc.1"},
		},
		{
			name:    "prefix",
			filters: []TagFilter{TagPrefixFilter("v2.3")},
			want:    []string{"v2.3.0", "v2.3.0-rc.1"},
		},
		{
			name:    "combined filters",
			filters: []TagFilter{TagPatternFilter("v*"), TagPrefixFilter("v2.2")},
			want:    []string{"v2.2.0"},
		},
		{
			name:    "question mark wildcard",
			filters: []TagFilter{TagPatternFilter("v2.?.0")},
			want:    []string{"v2.2.0", "v2.3.0"},
		},
		{
			name:    "empty pattern matches all",
			filters: []TagFilter{TagPatternFilter("")},
			want:    []string{"nightly-build", "v2.2.0", "v2.3.0", "v2.3.0-rc.1"},
		},
		{
			name:    "nil filter is ignored",
			filters: []TagFilter{nil, TagPrefixFilter("nightly")},
			want:    []string{"nightly-build"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, err := tr.repo.Tags(tr.ctx, tt.filters...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tags)
		})
	}
}

func TestCreateTag_Lightweight(t *testing.T) {
	tr := setupProjectRepo(t)

	require.NoError(t, tr.repo.CreateTag(tr.ctx, "v2.3.0", "HEAD", "", false))

	resolved, err := tr.repo.Resolve(tr.ctx, "v2.3.0")
	require.NoError(t, err)
	assert.Equal(t, RefTag, resolved.Kind)
}

func TestCreateTag_Annotated(t *testing.T) {
	tr := setupProjectRepo(t)

	err := tr.repo.CreateTag(tr.ctx, "v2.3.0", "HEAD", "Release v2.3.0", true)
	require.NoError(t, err)

	tags, err := tr.repo.Tags(tr.ctx, TagPatternFilter("v*"))
	require.NoError(t, err)
	assert.Equal(t, []string{"v2.3.0"}, tags)
}

func TestCreateTag_Duplicate(t *testing.T) {
	tr := setupProjectRepo(t)
	tr.tag(t, "v2.3.0")

	err := tr.repo.CreateTag(tr.ctx, "v2.3.0", "HEAD", "", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTagExists)
}

func TestCreateTag_Validation(t *testing.T) {
	tr := setupProjectRepo(t)

	err := tr.repo.CreateTag(tr.ctx, "", "HEAD", "", false)
	assert.ErrorIs(t, err, ErrInvalidRef)

	err = tr.repo.CreateTag(tr.ctx, "v2.3.0", "", "", false)
	assert.ErrorIs(t, err, ErrInvalidRef)

	err = tr.repo.CreateTag(tr.ctx, "v2.3.0", "does-not-exist", "", false)
	assert.ErrorIs(t, err, ErrResolveFailed)
}
