package changelog

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-release/git"
)

// sliceIter yields a fixed list of commits, newest first.
type sliceIter struct {
	commits []*object.Commit
	pos     int
}

func (s *sliceIter) Next() (*object.Commit, error) {
	if s.pos >= len(s.commits) {
		return nil, io.EOF
	}
	c := s.commits[s.pos]
	s.pos++
	return c, nil
}

func (s *sliceIter) ForEach(fn func(*object.Commit) error) error {
	for {
		c, err := s.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
	}
}

func (s *sliceIter) Close() {}

// fakeHistory scripts the repository surface the generator reads.
type fakeHistory struct {
	tags    []string
	hashes  map[string]string
	commits []*object.Commit
}

func (f *fakeHistory) Tags(ctx context.Context, filters ...git.TagFilter) ([]string, error) {
	var out []string
	for _, name := range f.tags {
		keep := true
		for _, filter := range filters {
			if filter != nil && !filter(name, nil) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, name)
		}
	}
	return out, nil
}

func (f *fakeHistory) Resolve(ctx context.Context, rev string) (*git.ResolvedRef, error) {
	hash, ok := f.hashes[rev]
	if !ok {
		return nil, git.WrapErrorf(git.ErrResolveFailed, "failed to resolve revision %q", rev)
	}
	return &git.ResolvedRef{Kind: git.RefTag, Hash: hash, CanonicalName: "refs/tags/" + rev}, nil
}

func (f *fakeHistory) Log(ctx context.Context, fl git.LogFilter) (*git.CommitIter, error) {
	return git.NewCommitIter(&sliceIter{commits: f.commits}), nil
}

func hash(digit string) string {
	return strings.Repeat(digit, 40)
}

func commit(digit, message string, when time.Time) *object.Commit {
	return &object.Commit{
		Hash:      plumbing.NewHash(hash(digit)),
		Message:   message,
		Committer: object.Signature{Name: "Test Author", Email: "author@example.com", When: when},
	}
}

func TestGenerate_GroupsCommits(t *testing.T) {
	newest := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	history := &fakeHistory{
		tags:   []string{"v2.2.0"},
		hashes: map[string]string{"v2.2.0": hash("1")},
		commits: []*object.Commit{
			commit("5", "feat!: drop the legacy session transport", newest),
			commit("4", "feat(client): add retry budget", newest.Add(-time.Hour)),
			commit("3", "fix: handle empty payloads", newest.Add(-2*time.Hour)),
			commit("2", "Update README", newest.Add(-3*time.Hour)),
			commit("1", "chore: release 2.2.0", newest.Add(-4*time.Hour)),
		},
	}

	notes, err := New(history).Generate(context.Background(), "v2.3.0")
	require.NoError(t, err)

	assert.Equal(t, "v2.3.0", notes.Tag)
	assert.Equal(t, "v2.2.0", notes.Previous)
	assert.Equal(t, newest, notes.Date)
	assert.Equal(t, 4, notes.Total())

	require.Len(t, notes.Breaking, 1)
	assert.Equal(t, "drop the legacy session transport", notes.Breaking[0].Subject)
	assert.True(t, notes.Breaking[0].Breaking)

	require.Len(t, notes.Features, 1)
	assert.Equal(t, "client", notes.Features[0].Scope)
	assert.Equal(t, "add retry budget", notes.Features[0].Subject)
	assert.Equal(t, strings.Repeat("4", 7), notes.Features[0].Hash)

	require.Len(t, notes.Fixes, 1)
	assert.Equal(t, "handle empty payloads", notes.Fixes[0].Subject)

	require.Len(t, notes.Other, 1)
	assert.Equal(t, "Update README", notes.Other[0].Subject)
	assert.Empty(t, notes.Other[0].Type)
}

func TestGenerate_NoPreviousTag(t *testing.T) {
	when := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	history := &fakeHistory{
		commits: []*object.Commit{
			commit("2", "feat: initial client", when),
			commit("1", "chore: project layout", when.Add(-time.Hour)),
		},
	}

	notes, err := New(history).Generate(context.Background(), "v0.1.0")
	require.NoError(t, err)

	assert.Empty(t, notes.Previous)
	assert.Equal(t, 2, notes.Total())
}

func TestGenerate_PicksHighestPreviousBelowCurrent(t *testing.T) {
	history := &fakeHistory{
		tags: []string{"v1.0.0", "v2.2.0", "v2.3.0", "vNext", "nightly-build"},
		hashes: map[string]string{
			"v1.0.0": hash("a"),
			"v2.2.0": hash("b"),
			"v2.3.0": hash("c"),
		},
		commits: []*object.Commit{
			commit("c", "chore: release 2.3.0", time.Now()),
		},
	}

	notes, err := New(history).Generate(context.Background(), "v2.3.0")
	require.NoError(t, err)

	assert.Equal(t, "v2.2.0", notes.Previous)
}

func TestGenerate_UnreleasedPreview(t *testing.T) {
	history := &fakeHistory{
		tags:   []string{"v2.2.0", "v2.3.0"},
		hashes: map[string]string{"v2.2.0": hash("b"), "v2.3.0": hash("c")},
		commits: []*object.Commit{
			commit("d", "feat: unreleased work", time.Now()),
			commit("c", "chore: release 2.3.0", time.Now()),
		},
	}

	notes, err := New(history).Generate(context.Background(), "")
	require.NoError(t, err)

	assert.Empty(t, notes.Tag)
	assert.Equal(t, "v2.3.0", notes.Previous)
	assert.Equal(t, 1, notes.Total())
	assert.True(t, strings.HasPrefix(notes.Markdown(), "## Unreleased\n"))
}

func TestGenerate_EmptyRange(t *testing.T) {
	history := &fakeHistory{
		tags:   []string{"v2.2.0"},
		hashes: map[string]string{"v2.2.0": hash("1")},
		commits: []*object.Commit{
			commit("1", "chore: release 2.2.0", time.Now()),
		},
	}

	notes, err := New(history).Generate(context.Background(), "v2.3.0")
	require.NoError(t, err)

	assert.True(t, notes.Empty())
	assert.Contains(t, notes.Markdown(), "No changes since v2.2.0.")
}

func TestGenerate_PreviousTagUnresolvable(t *testing.T) {
	history := &fakeHistory{
		tags:    []string{"v2.2.0"},
		hashes:  map[string]string{},
		commits: []*object.Commit{commit("1", "chore: work", time.Now())},
	}

	_, err := New(history).Generate(context.Background(), "v2.3.0")
	require.Error(t, err)
	assert.ErrorIs(t, err, git.ErrResolveFailed)
}

func TestParseCommitMessages(t *testing.T) {
	g := New(nil)

	tests := []struct {
		name     string
		message  string
		wantType string
		wantSubj string
		breaking bool
		scope    string
	}{
		{
			name:     "scoped feature",
			message:  "feat(session): add retry budget",
			wantType: "feat",
			wantSubj: "add retry budget",
			scope:    "session",
		},
		{
			name:     "fix",
			message:  "fix: handle empty payloads",
			wantType: "fix",
			wantSubj: "handle empty payloads",
		},
		{
			name:     "breaking bang",
			message:  "feat!: drop legacy transport",
			wantType: "feat",
			wantSubj: "drop legacy transport",
			breaking: true,
		},
		{
			name:     "chore",
			message:  "chore: bump dependencies",
			wantType: "chore",
			wantSubj: "bump dependencies",
		},
		{
			name:     "unconventional",
			message:  "Update README",
			wantSubj: "Update README",
		},
		{
			name:     "merge commit",
			message:  "Merge pull request #42 from fork/feature",
			wantSubj: "Merge pull request #42 from fork/feature",
		},
		{
			name:     "subject only from multiline",
			message:  "fix: adjust handshake\n\nLong explanation body.",
			wantType: "fix",
			wantSubj: "adjust handshake",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := g.parse(hash("e"), tt.message)

			assert.Equal(t, tt.wantType, entry.Type)
			assert.Equal(t, tt.wantSubj, entry.Subject)
			assert.Equal(t, tt.breaking, entry.Breaking)
			assert.Equal(t, tt.scope, entry.Scope)
			assert.Equal(t, strings.Repeat("e", 7), entry.Hash)
		})
	}
}

func TestNotes_Markdown(t *testing.T) {
	notes := &Notes{
		Tag:      "v2.3.0",
		Previous: "v2.2.0",
		Breaking: []Entry{{Hash: "aaaaaaa", Subject: "drop legacy transport", Breaking: true}},
		Features: []Entry{{Hash: "bbbbbbb", Type: "feat", Scope: "client", Subject: "add retry budget"}},
		Fixes:    []Entry{{Hash: "ccccccc", Type: "fix", Subject: "handle empty payloads"}},
		Other:    []Entry{{Hash: "ddddddd", Subject: "Update README"}},
	}

	want := `## v2.3.0

### Breaking Changes

- drop legacy transport (aaaaaaa)

### Features

- **client**: add retry budget (bbbbbbb)

### Bug Fixes

- handle empty payloads (ccccccc)

### Other Changes

- Update README (ddddddd)

_4 commits since v2.2.0._
`

	assert.Equal(t, want, notes.Markdown())
}
