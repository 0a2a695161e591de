package git

import (
	"context"
	"path"
	"sort"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// TagFilter is a predicate for filtering tags. A tag must pass every filter
// to be included.
type TagFilter func(name string, ref *plumbing.Reference) bool

// Tags returns the tag names that pass all provided filters, sorted
// alphabetically. With no filters, all tags are returned.
func (r *Repo) Tags(ctx context.Context, filters ...TagFilter) ([]string, error) {
	refs, err := r.repo.References()
	if err != nil {
		return nil, WrapError(err, "failed to get references")
	}

	var tags []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsTag() {
			return nil
		}
		name := ref.Name().Short()
		for _, filter := range filters {
			if filter != nil && !filter(name, ref) {
				return nil
			}
		}
		tags = append(tags, name)
		return nil
	})
	if err != nil {
		return nil, WrapError(err, "failed to iterate references")
	}

	sort.Strings(tags)
	return tags, nil
}

// CreateTag creates a tag pointing at the target revision. An annotated tag
// is created when annotated is true and a message is given; otherwise the
// tag is lightweight. Returns ErrTagExists when the name is already taken.
func (r *Repo) CreateTag(ctx context.Context, name, target, message string, annotated bool) error {
	if name == "" {
		return WrapError(ErrInvalidRef, "tag name cannot be empty")
	}
	if target == "" {
		return WrapError(ErrInvalidRef, "target revision cannot be empty")
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(target))
	if err != nil {
		return WrapErrorf(ErrResolveFailed, "failed to resolve target revision %q", target)
	}

	tagRefName := plumbing.NewTagReferenceName(name)
	if _, err := r.repo.Reference(tagRefName, true); err == nil {
		return WrapErrorf(ErrTagExists, "tag %q", name)
	}

	if annotated && message != "" {
		tagOpts := &gogit.CreateTagOptions{
			Tagger: &object.Signature{
				Name:  "forge-release",
				Email: "release@catalyst-forge",
				When:  time.Now(),
			},
			Message: message,
		}
		if _, err := r.repo.CreateTag(name, *hash, tagOpts); err != nil {
			return WrapError(err, "failed to create annotated tag")
		}
		return nil
	}

	tagRef := plumbing.NewHashReference(tagRefName, *hash)
	if err := r.repo.Storer.SetReference(tagRef); err != nil {
		return WrapError(err, "failed to create lightweight tag")
	}
	return nil
}

// TagPatternFilter matches tag names against a glob pattern with * and ?
// wildcards, such as "v*" for version tags.
func TagPatternFilter(pattern string) TagFilter {
	return func(name string, _ *plumbing.Reference) bool {
		if pattern == "" {
			return true
		}
		matched, err := path.Match(pattern, name)
		return err == nil && matched
	}
}

// TagPrefixFilter matches tags with the given prefix.
func TagPrefixFilter(prefix string) TagFilter {
	return func(name string, _ *plumbing.Reference) bool {
		return strings.HasPrefix(name, prefix)
	}
}
