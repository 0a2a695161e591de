package git

import (
	"context"
	"errors"
	"io"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// LogFilter configures which commits a Log operation yields.
type LogFilter struct {
	// From is the revision to start walking from. Empty means HEAD.
	From string

	// MaxCount caps the number of commits returned. Zero means unlimited.
	MaxCount int
}

// CommitIter iterates commits returned by Log. Next returns nil when the
// iteration is complete, so callers can walk history until a boundary commit
// without tracking sentinel errors.
type CommitIter struct {
	iter object.CommitIter
}

// NewCommitIter wraps an existing go-git commit iterator in the package's
// iteration contract.
func NewCommitIter(iter object.CommitIter) *CommitIter {
	return &CommitIter{iter: iter}
}

// Next returns the next commit, or nil when iteration is complete.
func (ci *CommitIter) Next() (*object.Commit, error) {
	commit, err := ci.iter.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, WrapError(err, "failed to get next commit")
	}
	return commit, nil
}

// ForEach executes fn for each remaining commit. Iteration stops when fn
// returns an error.
func (ci *CommitIter) ForEach(fn func(*object.Commit) error) error {
	return WrapError(ci.iter.ForEach(fn), "failed to iterate commits")
}

// Close releases iterator resources.
func (ci *CommitIter) Close() {
	ci.iter.Close()
}

// Log returns a commit iterator walking history from the filter's starting
// revision, newest first. The caller must Close the iterator.
func (r *Repo) Log(ctx context.Context, f LogFilter) (*CommitIter, error) {
	logOpts := &gogit.LogOptions{}

	if f.From != "" {
		resolved, err := r.Resolve(ctx, f.From)
		if err != nil {
			return nil, err
		}
		logOpts.From = plumbing.NewHash(resolved.Hash)
	}

	iter, err := r.repo.Log(logOpts)
	if err != nil {
		return nil, WrapError(err, "failed to create commit iterator")
	}

	if f.MaxCount > 0 {
		return &CommitIter{iter: &limitedCommitIter{iter: iter, maxCount: f.MaxCount}}, nil
	}
	return &CommitIter{iter: iter}, nil
}

// limitedCommitIter caps the commits yielded by an underlying iterator.
type limitedCommitIter struct {
	iter     object.CommitIter
	maxCount int
	count    int
}

func (l *limitedCommitIter) Next() (*object.Commit, error) {
	if l.count >= l.maxCount {
		return nil, io.EOF
	}
	commit, err := l.iter.Next()
	if err != nil {
		return nil, err
	}
	l.count++
	return commit, nil
}

func (l *limitedCommitIter) ForEach(fn func(*object.Commit) error) error {
	for l.count < l.maxCount {
		commit, err := l.iter.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		l.count++
		if err := fn(commit); err != nil {
			return err
		}
	}
	return nil
}

func (l *limitedCommitIter) Close() {
	l.iter.Close()
}
