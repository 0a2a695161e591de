package git

import (
	"context"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// CheckoutRef pins the worktree to the commit a revision resolves to. The
// checkout is detached: release runs build exactly the triggering commit and
// never advance a branch. Local modifications in the worktree are discarded.
func (r *Repo) CheckoutRef(ctx context.Context, rev string) error {
	resolved, err := r.Resolve(ctx, rev)
	if err != nil {
		return err
	}

	checkoutOpts := &gogit.CheckoutOptions{
		Hash:  plumbing.NewHash(resolved.Hash),
		Force: true,
	}
	if err := r.worktree.Checkout(checkoutOpts); err != nil {
		return WrapErrorf(ErrCheckoutFailed, "failed to checkout %q at %s", rev, resolved.Hash)
	}
	return nil
}
