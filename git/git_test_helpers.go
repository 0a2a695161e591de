package git

import (
	"context"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-release/fs"
	fsbilly "github.com/input-output-hk/catalyst-forge-release/fs/billy"
)

// testRepo bundles a repository with its backing filesystem for tests.
type testRepo struct {
	repo *Repo
	fs   fs.Filesystem
	ctx  context.Context
}

// setupTestRepo creates an empty repository on an in-memory filesystem.
func setupTestRepo(t *testing.T) *testRepo {
	t.Helper()

	ctx := context.Background()
	memFS := fsbilly.NewInMemoryFS()

	repo, err := Init(ctx, &Options{FS: memFS})
	require.NoError(t, err, "failed to initialize test repository")
	require.NotNil(t, repo, "repository should not be nil")

	return &testRepo{
		repo: repo,
		fs:   memFS,
		ctx:  ctx,
	}
}

// setupProjectRepo creates a repository with an initial commit containing a
// minimal Python project layout.
func setupProjectRepo(t *testing.T) *testRepo {
	t.Helper()

	tr := setupTestRepo(t)
	tr.writeFile(t, "pyproject.toml", "[project]\nname = \"widget\"\nversion = \"2.3.0\"\n")
	tr.commit(t, "chore: initial project layout")
	return tr
}

// writeFile writes content into the worktree.
func (tr *testRepo) writeFile(t *testing.T, name, content string) {
	t.Helper()

	err := tr.fs.WriteFile(name, []byte(content), 0o666)
	require.NoError(t, err, "failed to write %s", name)
}

// commit stages everything and commits, returning the new commit SHA.
func (tr *testRepo) commit(t *testing.T, msg string) string {
	t.Helper()

	_, err := tr.repo.worktree.Add(".")
	require.NoError(t, err, "failed to stage files")

	hash, err := tr.repo.worktree.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "author@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err, "failed to commit")
	return hash.String()
}

// tag creates a lightweight tag at HEAD.
func (tr *testRepo) tag(t *testing.T, name string) {
	t.Helper()

	err := tr.repo.CreateTag(tr.ctx, name, "HEAD", "", false)
	require.NoError(t, err, "failed to create tag %s", name)
}
