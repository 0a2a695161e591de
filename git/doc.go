// Package git acquires release sources. It wraps go-git with the small set
// of operations a release run needs: cloning the repository that fired the
// trigger, pinning the worktree to the triggering commit, and reading tags
// and history for version and changelog derivation.
//
// All repository state lives behind the project's filesystem abstraction, so
// runs can execute against the real disk or entirely in memory.
//
// # Acquiring Sources
//
// Clone the repository and pin it to the triggering tag:
//
//	repo, err := git.Clone(ctx, "https://github.com/acme/widget.git", &git.Options{
//		FS:           fsbilly.NewOSFS(workspace),
//		Auth:         auth.NewTokenProvider(token),
//		ShallowDepth: 0,
//	})
//	if err != nil {
//		return err
//	}
//	if err := repo.CheckoutRef(ctx, "v2.3.0"); err != nil {
//		return err
//	}
//
// Or open a repository that is already on disk:
//
//	repo, err := git.Open(ctx, &git.Options{FS: fsbilly.NewOSFS(workspace)})
//
// # Resolving Revisions
//
// Resolve maps any revision specifier to a commit:
//
//	ref, err := repo.Resolve(ctx, "v2.3.0")
//	// ref.Hash is the full commit SHA the tag points at
//
// # Tags and History
//
// Tags lists tag names, optionally filtered:
//
//	versions, err := repo.Tags(ctx, git.TagPatternFilter("v*"))
//
// Log iterates commits for changelog assembly:
//
//	iter, err := repo.Log(ctx, git.LogFilter{MaxCount: 500})
//	defer iter.Close()
//
// # Errors
//
// Failures wrap sentinel errors that callers check with errors.Is:
//
//	if errors.Is(err, git.ErrResolveFailed) {
//		// the triggering ref does not exist in the clone
//	}
package git
