// Package trigger constructs the TriggerEvents that initiate release runs.
// A run starts either from a version tag push (ref matching "v*") or from a
// manual dispatch carrying no payload; anything else is rejected here, before
// any pipeline step executes.
package trigger

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/input-output-hk/catalyst-forge-release/domain"
)

// TagPattern is the glob a tag name must match to trigger a release.
const TagPattern = "v*"

// tagRefPrefix is the full-reference prefix for tag refs.
const tagRefPrefix = "refs/tags/"

var (
	// ErrNotTagRef indicates the supplied reference is not a tag reference.
	ErrNotTagRef = errors.New("reference is not a tag")

	// ErrPatternMismatch indicates the tag name does not match TagPattern.
	ErrPatternMismatch = errors.New("tag does not match trigger pattern")
)

// Option mutates a TriggerEvent during construction.
type Option func(*domain.TriggerEvent)

// WithTriggeredBy records who or what initiated the run.
func WithTriggeredBy(actor string) Option {
	return func(e *domain.TriggerEvent) {
		e.TriggeredBy = actor
	}
}

// WithCommitSHA pins the run to a specific commit instead of resolving the
// triggering ref at checkout time.
func WithCommitSHA(sha string) Option {
	return func(e *domain.TriggerEvent) {
		e.CommitSHA = sha
	}
}

// NewTagPushEvent constructs a tag-push trigger from a git reference.
// The ref may be a full reference ("refs/tags/v2.3.0") or a bare tag name
// ("v2.3.0"); non-tag references and tags outside TagPattern are rejected.
func NewTagPushEvent(ref string, opts ...Option) (domain.TriggerEvent, error) {
	tag, err := TagFromRef(ref)
	if err != nil {
		return domain.TriggerEvent{}, err
	}

	event := domain.TriggerEvent{
		ID:          uuid.NewString(),
		Kind:        domain.TriggerKindTagPush,
		Ref:         tagRefPrefix + tag,
		Tag:         tag,
		TriggeredAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&event)
	}
	return event, nil
}

// NewManualEvent constructs a manual-dispatch trigger. Manual runs carry no
// tag; the version is resolved from project metadata alone.
func NewManualEvent(opts ...Option) domain.TriggerEvent {
	event := domain.TriggerEvent{
		ID:          uuid.NewString(),
		Kind:        domain.TriggerKindManual,
		TriggeredAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&event)
	}
	return event
}

// TagFromRef extracts and validates the tag name from a reference.
// Returns ErrNotTagRef for non-tag references and ErrPatternMismatch for tag
// names outside TagPattern.
func TagFromRef(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("empty reference: %w", ErrNotTagRef)
	}

	tag := ref
	if strings.HasPrefix(ref, "refs/") {
		if !strings.HasPrefix(ref, tagRefPrefix) {
			return "", fmt.Errorf("reference %q: %w", ref, ErrNotTagRef)
		}
		tag = strings.TrimPrefix(ref, tagRefPrefix)
	}
	if tag == "" {
		return "", fmt.Errorf("reference %q has no tag name: %w", ref, ErrNotTagRef)
	}

	// TagPattern is a constant glob, so Match cannot fail on pattern syntax.
	matched, err := path.Match(TagPattern, tag)
	if err != nil || !matched {
		return "", fmt.Errorf("tag %q: %w", tag, ErrPatternMismatch)
	}
	return tag, nil
}
