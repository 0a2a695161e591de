package git

import (
	"context"
	"fmt"

	gobilly "github.com/go-git/go-billy/v5"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/input-output-hk/catalyst-forge-release/fs"
	"github.com/input-output-hk/catalyst-forge-release/git/internal/fsbridge"
)

const (
	// DefaultStorerCacheSize is the default entry count for the LRU object
	// cache backing repository storage.
	DefaultStorerCacheSize = 1000

	// DefaultWorkdir is the default worktree directory within the filesystem.
	DefaultWorkdir = "."

	// DefaultRemoteName is the remote name clones are created with.
	DefaultRemoteName = "origin"
)

// AuthProvider resolves authentication methods for remote operations.
type AuthProvider interface {
	// Method returns the transport.AuthMethod for the given remote URL.
	// A nil method with a nil error means the URL needs no authentication.
	Method(remoteURL string) (transport.AuthMethod, error)
}

// Options configures repository access.
type Options struct {
	// FS is the required filesystem root. All repository state, the .git
	// directory and the worktree, lives within it.
	FS fs.Filesystem

	// Workdir is the worktree root within FS. Defaults to ".".
	Workdir string

	// StorerCacheSize sets the LRU object cache entries.
	// Defaults to DefaultStorerCacheSize.
	StorerCacheSize int

	// Auth optionally resolves credentials for remote operations. When nil,
	// remotes are accessed anonymously.
	Auth AuthProvider

	// ShallowDepth limits clone depth when > 0. Shallow clones are faster
	// for release checkouts but lose the history needed for changelog
	// assembly, so the default is a full clone.
	ShallowDepth int
}

// Validate checks that the Options are properly configured.
func (o *Options) Validate() error {
	if o.FS == nil {
		return WrapError(ErrInvalidRef, "FS is required")
	}
	if o.StorerCacheSize < 0 {
		return WrapError(ErrInvalidRef, "StorerCacheSize cannot be negative")
	}
	if o.ShallowDepth < 0 {
		return WrapError(ErrInvalidRef, "ShallowDepth cannot be negative")
	}
	return nil
}

// applyDefaults sets default values for any unset fields.
func (o *Options) applyDefaults() {
	if o.Workdir == "" {
		o.Workdir = DefaultWorkdir
	}
	if o.StorerCacheSize == 0 {
		o.StorerCacheSize = DefaultStorerCacheSize
	}
}

// Repo is an open git repository pinned to a worktree within the configured
// filesystem.
type Repo struct {
	repo     *gogit.Repository
	worktree *gogit.Worktree
	fs       fs.Filesystem
	options  Options
}

// repoStorage builds go-git storage and the worktree filesystem for the
// configured workdir. The object database lives under .git, the worktree at
// the workdir root.
func repoStorage(opts *Options) (*filesystem.Storage, gobilly.Filesystem, error) {
	billyFS, err := fsbridge.ToBillyFilesystem(opts.FS)
	if err != nil {
		return nil, nil, fmt.Errorf("filesystem conversion failed: %w", err)
	}

	worktreeFS, err := billyFS.Chroot(opts.Workdir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to chroot to workdir %q: %w", opts.Workdir, err)
	}

	dotGitFS, err := worktreeFS.Chroot(gogit.GitDirName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to access %s directory: %w", gogit.GitDirName, err)
	}

	return fsbridge.NewStorage(dotGitFS, opts.StorerCacheSize), worktreeFS, nil
}

// newRepo wraps an opened go-git repository together with its worktree.
func newRepo(repo *gogit.Repository, opts *Options) (*Repo, error) {
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, WrapError(err, "failed to get worktree")
	}
	return &Repo{
		repo:     repo,
		worktree: worktree,
		fs:       opts.FS,
		options:  *opts,
	}, nil
}

// Init creates a new repository at the configured workdir.
func Init(ctx context.Context, opts *Options) (*Repo, error) {
	if err := opts.Validate(); err != nil {
		return nil, WrapError(err, "invalid options")
	}
	opts.applyDefaults()

	storage, worktreeFS, err := repoStorage(opts)
	if err != nil {
		return nil, err
	}

	repo, err := gogit.Init(storage, worktreeFS)
	if err != nil {
		return nil, WrapError(err, "failed to initialize repository")
	}
	return newRepo(repo, opts)
}

// Open opens an existing repository at the configured workdir. Both the .git
// directory and the worktree must already be present.
func Open(ctx context.Context, opts *Options) (*Repo, error) {
	if err := opts.Validate(); err != nil {
		return nil, WrapError(err, "invalid options")
	}
	opts.applyDefaults()

	storage, worktreeFS, err := repoStorage(opts)
	if err != nil {
		return nil, err
	}

	repo, err := gogit.Open(storage, worktreeFS)
	if err != nil {
		return nil, WrapError(err, "failed to open repository")
	}
	return newRepo(repo, opts)
}

// Clone creates a repository at the configured workdir by cloning from a
// remote URL. Credentials are resolved through the Auth provider when one is
// configured. Context cancellation aborts the transfer.
func Clone(ctx context.Context, remoteURL string, opts *Options) (*Repo, error) {
	if remoteURL == "" {
		return nil, WrapError(ErrInvalidRef, "remote URL cannot be empty")
	}
	if err := opts.Validate(); err != nil {
		return nil, WrapError(err, "invalid options")
	}
	opts.applyDefaults()

	storage, worktreeFS, err := repoStorage(opts)
	if err != nil {
		return nil, err
	}

	cloneOpts := &gogit.CloneOptions{
		URL:          remoteURL,
		RemoteName:   DefaultRemoteName,
		Depth:        opts.ShallowDepth,
		SingleBranch: opts.ShallowDepth > 0,
	}

	if opts.Auth != nil {
		authMethod, authErr := opts.Auth.Method(remoteURL)
		if authErr != nil {
			return nil, WrapError(authErr, "failed to get authentication method")
		}
		cloneOpts.Auth = authMethod
	}

	repo, err := gogit.CloneContext(ctx, storage, worktreeFS, cloneOpts)
	if err != nil {
		return nil, WrapError(err, "failed to clone repository")
	}
	return newRepo(repo, opts)
}
