// Package changelog builds release notes from commit history.
//
// Notes cover the commits between the previous release tag and HEAD. Commit
// subjects are parsed as conventional commits in best-effort mode and grouped
// by kind; commits that do not follow the convention still appear, unparsed,
// under other changes. The platform-generated notes remain the release
// default, so this package only feeds the descriptor when changelog notes are
// explicitly configured.
package changelog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	conventionalcommits "github.com/leodido/go-conventionalcommits"
	ccparser "github.com/leodido/go-conventionalcommits/parser"

	"github.com/input-output-hk/catalyst-forge-release/git"
)

const (
	// DefaultTagPattern selects the release tags that bound a changelog.
	DefaultTagPattern = "v*"

	// DefaultMaxCommits caps the history walk for repositories whose first
	// release covers a long history.
	DefaultMaxCommits = 500

	shortHashLen = 7
)

// History is the slice of the git surface the generator reads. *git.Repo
// satisfies it.
type History interface {
	Tags(ctx context.Context, filters ...git.TagFilter) ([]string, error)
	Resolve(ctx context.Context, rev string) (*git.ResolvedRef, error)
	Log(ctx context.Context, f git.LogFilter) (*git.CommitIter, error)
}

// Entry is a single commit rendered into the notes.
type Entry struct {
	// Hash is the abbreviated commit hash.
	Hash string `json:"hash"`

	// Type is the conventional commit type ("feat", "fix", ...). Empty for
	// commits that did not parse.
	Type string `json:"type,omitempty"`

	// Scope is the conventional commit scope, if any.
	Scope string `json:"scope,omitempty"`

	// Subject is the commit description, or the raw subject line for
	// unparsed commits.
	Subject string `json:"subject"`

	// Breaking marks commits flagged as breaking changes.
	Breaking bool `json:"breaking,omitempty"`
}

// Notes is the grouped changelog between two releases.
type Notes struct {
	// Tag is the release the notes describe. Empty for unreleased previews.
	Tag string `json:"tag,omitempty"`

	// Previous is the tag the range starts after. Empty when no earlier
	// release tag exists.
	Previous string `json:"previous,omitempty"`

	// Date is the commit date of the newest commit in the range.
	Date time.Time `json:"date"`

	Breaking []Entry `json:"breaking,omitempty"`
	Features []Entry `json:"features,omitempty"`
	Fixes    []Entry `json:"fixes,omitempty"`
	Other    []Entry `json:"other,omitempty"`
}

// Empty reports whether the notes contain no entries.
func (n *Notes) Empty() bool {
	return len(n.Breaking)+len(n.Features)+len(n.Fixes)+len(n.Other) == 0
}

// Total returns the number of commits covered by the notes.
func (n *Notes) Total() int {
	return len(n.Breaking) + len(n.Features) + len(n.Fixes) + len(n.Other)
}

// Markdown renders the notes as a markdown document.
func (n *Notes) Markdown() string {
	var b strings.Builder

	heading := n.Tag
	if heading == "" {
		heading = "Unreleased"
	}
	fmt.Fprintf(&b, "## %s\n", heading)

	if n.Empty() {
		if n.Previous != "" {
			fmt.Fprintf(&b, "\nNo changes since %s.\n", n.Previous)
		} else {
			b.WriteString("\nNo changes.\n")
		}
		return b.String()
	}

	renderSection(&b, "Breaking Changes", n.Breaking)
	renderSection(&b, "Features", n.Features)
	renderSection(&b, "Bug Fixes", n.Fixes)
	renderSection(&b, "Other Changes", n.Other)

	if n.Previous != "" {
		fmt.Fprintf(&b, "\n_%d commits since %s._\n", n.Total(), n.Previous)
	}
	return b.String()
}

func renderSection(b *strings.Builder, title string, entries []Entry) {
	if len(entries) == 0 {
		return
	}

	fmt.Fprintf(b, "\n### %s\n\n", title)
	for _, e := range entries {
		if e.Scope != "" {
			fmt.Fprintf(b, "- **%s**: %s (%s)\n", e.Scope, e.Subject, e.Hash)
		} else {
			fmt.Fprintf(b, "- %s (%s)\n", e.Subject, e.Hash)
		}
	}
}

// Generator builds Notes from a repository's history.
type Generator struct {
	history    History
	pattern    string
	maxCommits int
	machine    conventionalcommits.Machine
	logger     *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithTagPattern overrides the glob selecting release tags.
func WithTagPattern(pattern string) Option {
	return func(g *Generator) {
		if pattern != "" {
			g.pattern = pattern
		}
	}
}

// WithMaxCommits caps how far back the history walk goes.
func WithMaxCommits(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxCommits = n
		}
	}
}

// WithLogger sets the logger for generation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a Generator over the given history.
func New(history History, opts ...Option) *Generator {
	g := &Generator{
		history:    history,
		pattern:    DefaultTagPattern,
		maxCommits: DefaultMaxCommits,
		machine: ccparser.NewMachine(
			conventionalcommits.WithTypes(conventionalcommits.TypesConventional),
			conventionalcommits.WithBestEffort(),
		),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds notes for the given release tag, covering commits from
// HEAD back to the previous release tag. An empty tag produces an unreleased
// preview with the same range.
func (g *Generator) Generate(ctx context.Context, tag string) (*Notes, error) {
	previous, err := g.previousTag(ctx, tag)
	if err != nil {
		return nil, err
	}

	var boundary string
	if previous != "" {
		resolved, err := g.history.Resolve(ctx, previous)
		if err != nil {
			return nil, fmt.Errorf("resolving previous tag %s: %w", previous, err)
		}
		boundary = resolved.Hash
	}

	iter, err := g.history.Log(ctx, git.LogFilter{MaxCount: g.maxCommits})
	if err != nil {
		return nil, fmt.Errorf("walking history: %w", err)
	}
	defer iter.Close()

	notes := &Notes{Tag: tag, Previous: previous}
	for {
		commit, err := iter.Next()
		if err != nil {
			return nil, fmt.Errorf("walking history: %w", err)
		}
		if commit == nil || commit.Hash.String() == boundary {
			break
		}

		if notes.Date.IsZero() {
			notes.Date = commit.Committer.When.UTC()
		}

		entry := g.parse(commit.Hash.String(), commit.Message)
		switch {
		case entry.Breaking:
			notes.Breaking = append(notes.Breaking, entry)
		case entry.Type == "feat":
			notes.Features = append(notes.Features, entry)
		case entry.Type == "fix":
			notes.Fixes = append(notes.Fixes, entry)
		default:
			notes.Other = append(notes.Other, entry)
		}
	}

	g.logger.DebugContext(ctx, "generated changelog",
		"tag", tag, "previous", previous, "commits", notes.Total())
	return notes, nil
}

// previousTag picks the highest release tag strictly below the current one,
// or the highest overall when the current tag is empty or not yet created.
func (g *Generator) previousTag(ctx context.Context, current string) (string, error) {
	names, err := g.history.Tags(ctx, git.TagPatternFilter(g.pattern))
	if err != nil {
		return "", fmt.Errorf("listing release tags: %w", err)
	}

	currentVersion := parseTagVersion(current)

	type candidate struct {
		name    string
		version *semver.Version
	}
	var candidates []candidate
	for _, name := range names {
		if name == current {
			continue
		}
		version := parseTagVersion(name)
		if version == nil {
			continue
		}
		if currentVersion != nil && !version.LessThan(currentVersion) {
			continue
		}
		candidates = append(candidates, candidate{name: name, version: version})
	}

	if len(candidates) == 0 {
		return "", nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].version.GreaterThan(candidates[j].version)
	})
	return candidates[0].name, nil
}

// parse classifies a commit message, falling back to the raw subject line
// when it does not follow the convention.
func (g *Generator) parse(hash, message string) Entry {
	entry := Entry{
		Hash:    shortHash(hash),
		Subject: subjectLine(message),
	}

	msg, err := g.machine.Parse([]byte(message))
	if err != nil && msg == nil {
		return entry
	}

	cc, ok := msg.(*conventionalcommits.ConventionalCommit)
	if !ok || !cc.Ok() {
		return entry
	}

	entry.Type = cc.Type
	entry.Subject = cc.Description
	entry.Breaking = cc.IsBreakingChange()
	if cc.Scope != nil {
		entry.Scope = *cc.Scope
	}
	return entry
}

func parseTagVersion(tag string) *semver.Version {
	if tag == "" {
		return nil
	}
	version, err := semver.NewVersion(strings.TrimPrefix(tag, "v"))
	if err != nil {
		return nil
	}
	return version
}

func shortHash(hash string) string {
	if len(hash) > shortHashLen {
		return hash[:shortHashLen]
	}
	return hash
}

func subjectLine(message string) string {
	subject, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(subject)
}
