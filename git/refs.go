package git

import (
	"context"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// RefKind classifies a git reference.
type RefKind int

const (
	// RefBranch is a local branch reference (refs/heads/*).
	RefBranch RefKind = iota

	// RefRemoteBranch is a remote-tracking branch reference (refs/remotes/*).
	RefRemoteBranch

	// RefTag is a tag reference (refs/tags/*).
	RefTag

	// RefCommit is a bare commit hash rather than a symbolic reference.
	RefCommit

	// RefOther is any other reference, including HEAD itself.
	RefOther
)

// String returns a human-readable name for the RefKind.
func (k RefKind) String() string {
	switch k {
	case RefBranch:
		return "branch"
	case RefRemoteBranch:
		return "remote-branch"
	case RefTag:
		return "tag"
	case RefCommit:
		return "commit"
	case RefOther:
		return "other"
	default:
		return "unknown"
	}
}

// ResolvedRef is the result of resolving a revision specifier.
type ResolvedRef struct {
	// Kind is the classification of the resolved reference.
	Kind RefKind

	// Hash is the resolved commit hash in full SHA-1 form.
	Hash string

	// CanonicalName is the canonical reference name (e.g. "refs/tags/v2.3.0").
	// For bare commit hashes it equals Hash.
	CanonicalName string
}

// Resolve maps a revision specifier to a commit. The revision can be any
// valid git revision syntax: a tag name, branch name, commit hash, or HEAD.
// Returns ErrResolveFailed when the revision does not exist, which is how a
// checkout discovers that the triggering ref never made it into the clone.
func (r *Repo) Resolve(ctx context.Context, rev string) (*ResolvedRef, error) {
	if rev == "" {
		return nil, WrapError(ErrInvalidRef, "revision cannot be empty")
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, WrapErrorf(ErrResolveFailed, "failed to resolve revision %q", rev)
	}

	kind, canonicalName := r.classifyRevision(rev, hash)

	return &ResolvedRef{
		Kind:          kind,
		Hash:          hash.String(),
		CanonicalName: canonicalName,
	}, nil
}

// Head returns the commit hash the worktree currently points at.
func (r *Repo) Head(ctx context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", WrapError(err, "failed to get HEAD")
	}
	return head.Hash().String(), nil
}

// classifyRevision determines the RefKind and canonical name for a resolved
// revision specifier.
func (r *Repo) classifyRevision(rev string, hash *plumbing.Hash) (RefKind, string) {
	if plumbing.IsHash(rev) {
		return RefCommit, hash.String()
	}
	if rev == "HEAD" {
		return RefOther, "HEAD"
	}

	refs, err := r.repo.References()
	if err != nil {
		return RefCommit, hash.String()
	}

	var found *plumbing.Reference
	_ = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().Short() == rev || ref.Name().String() == rev {
			found = ref
		}
		return nil
	})

	if found == nil {
		// Partial hashes and other revision syntax resolve to commits.
		return RefCommit, hash.String()
	}

	name := found.Name()
	switch {
	case name.IsBranch():
		return RefBranch, name.String()
	case name.IsTag():
		return RefTag, name.String()
	case name.IsRemote() && strings.Contains(name.String(), "/"):
		return RefRemoteBranch, name.String()
	default:
		return RefOther, name.String()
	}
}
