// Package version resolves the project version from source metadata.
//
// Resolution walks an ordered chain of sources and stops at the first hit:
// static TOML metadata in pyproject.toml (project.version, then
// tool.poetry.version), a configured version-file regex scan, and finally an
// optional command run inside the provisioned environment. Resolved values
// must parse as semantic versions; the release tag is derived from the raw
// value as "v" + version, so a value that already carries a tag prefix is
// rejected.
package version

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"

	"github.com/input-output-hk/catalyst-forge-release/executor"
	"github.com/input-output-hk/catalyst-forge-release/fs"
)

const (
	// DefaultPyprojectPath is the project metadata file consulted first.
	DefaultPyprojectPath = "pyproject.toml"

	// DefaultPattern extracts a dunder version assignment from a source file.
	DefaultPattern = `__version__\s*=\s*["']([^"']+)["']`
)

var (
	// ErrNoVersion indicates every configured source was consulted and none
	// produced a version.
	ErrNoVersion = errors.New("no version found in any configured source")

	// ErrInvalidVersion indicates a source produced a value that is not a
	// valid semantic version.
	ErrInvalidVersion = errors.New("resolved version is not valid semver")

	// ErrInvalidPattern indicates the configured version-file pattern cannot
	// be used.
	ErrInvalidPattern = errors.New("invalid version pattern")
)

// Source identifies which part of the chain produced a version.
type Source string

const (
	SourcePyproject Source = "pyproject"
	SourceFile      Source = "file"
	SourceCommand   Source = "command"
)

// Resolution is a successfully resolved project version.
type Resolution struct {
	// Version is the parsed semantic version.
	Version *semver.Version

	// Raw is the exact string the source carried. Tag derivation uses this
	// value unmodified.
	Raw string

	// Source identifies the chain entry that produced the version.
	Source Source

	// Origin names the file location or command behind the source.
	Origin string
}

// TagName derives the release tag for the resolution.
func (r *Resolution) TagName() string {
	return "v" + r.Raw
}

// Resolver resolves project versions from a filesystem and an optional
// command environment.
type Resolver struct {
	fs        fs.ReadFS
	workdir   string
	pyproject string
	file      string
	pattern   string
	command   []string
	exec      executor.Runner
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithWorkDir sets the directory paths are resolved against and commands run
// in. Defaults to the current directory.
func WithWorkDir(dir string) Option {
	return func(r *Resolver) {
		r.workdir = dir
	}
}

// WithPyprojectPath overrides the project metadata file path.
func WithPyprojectPath(path string) Option {
	return func(r *Resolver) {
		if path != "" {
			r.pyproject = path
		}
	}
}

// WithVersionFile enables the version-file source, scanning the given file
// with the configured pattern.
func WithVersionFile(path string) Option {
	return func(r *Resolver) {
		r.file = path
	}
}

// WithPattern overrides the version-file pattern. The pattern must carry a
// capture group holding the version.
func WithPattern(pattern string) Option {
	return func(r *Resolver) {
		if pattern != "" {
			r.pattern = pattern
		}
	}
}

// WithCommand enables the command source. The command's stdout is taken as
// the version.
func WithCommand(cmd ...string) Option {
	return func(r *Resolver) {
		r.command = cmd
	}
}

// WithRunner sets the runner the command source executes through, typically
// the provisioned environment.
func WithRunner(exec executor.Runner) Option {
	return func(r *Resolver) {
		r.exec = exec
	}
}

// WithLogger sets the logger for resolution diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Resolver reading from the given filesystem.
func New(fsys fs.ReadFS, opts ...Option) *Resolver {
	r := &Resolver{
		fs:        fsys,
		pyproject: DefaultPyprojectPath,
		pattern:   DefaultPattern,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve walks the source chain and returns the first version found.
// A source that does not apply is skipped; a source that fails is fatal.
func (r *Resolver) Resolve(ctx context.Context) (*Resolution, error) {
	sources := []func(context.Context) (*Resolution, error){
		r.fromPyproject,
		r.fromFile,
		r.fromCommand,
	}

	for _, source := range sources {
		res, err := source(ctx)
		if err != nil {
			return nil, err
		}
		if res == nil {
			continue
		}

		version, err := parseVersion(res.Raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", res.Origin, err)
		}
		res.Version = version

		r.logger.InfoContext(ctx, "resolved project version",
			"version", res.Raw, "source", string(res.Source), "origin", res.Origin)
		return res, nil
	}

	return nil, fmt.Errorf("%w: tried project metadata, version file, command", ErrNoVersion)
}

// fromPyproject reads static version metadata from pyproject.toml. Projects
// declaring a dynamic version leave both keys unset and fall through to the
// next source.
func (r *Resolver) fromPyproject(ctx context.Context) (*Resolution, error) {
	path := r.join(r.pyproject)

	exists, err := r.fs.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}
	if !exists {
		r.logger.DebugContext(ctx, "no project metadata file", "path", path)
		return nil, nil
	}

	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc struct {
		Project struct {
			Version string `toml:"version"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Version string `toml:"version"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if v := strings.TrimSpace(doc.Project.Version); v != "" {
		return &Resolution{Raw: v, Source: SourcePyproject, Origin: r.pyproject + ":project.version"}, nil
	}
	if v := strings.TrimSpace(doc.Tool.Poetry.Version); v != "" {
		return &Resolution{Raw: v, Source: SourcePyproject, Origin: r.pyproject + ":tool.poetry.version"}, nil
	}

	r.logger.DebugContext(ctx, "project metadata carries no static version", "path", path)
	return nil, nil
}

// fromFile scans the configured version file with the configured pattern.
// A configured file that cannot be read is fatal; a pattern that does not
// match falls through to the next source.
func (r *Resolver) fromFile(ctx context.Context) (*Resolution, error) {
	if r.file == "" {
		return nil, nil
	}

	re, err := regexp.Compile(r.pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("%w: %q needs a capture group holding the version", ErrInvalidPattern, r.pattern)
	}

	path := r.join(r.file)
	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading version file %s: %w", path, err)
	}

	match := re.FindSubmatch(data)
	if match == nil {
		r.logger.DebugContext(ctx, "version pattern not found", "path", path, "pattern", r.pattern)
		return nil, nil
	}

	return &Resolution{Raw: string(match[1]), Source: SourceFile, Origin: r.file}, nil
}

// fromCommand runs the configured version command and takes its stdout.
func (r *Resolver) fromCommand(ctx context.Context) (*Resolution, error) {
	if len(r.command) == 0 {
		return nil, nil
	}
	if r.exec == nil {
		return nil, errors.New("version command configured without a runner")
	}

	opts := []executor.Option{executor.SilentMode()}
	if r.workdir != "" {
		opts = append(opts, executor.WithWorkingDir(r.workdir))
	}

	display := strings.Join(r.command, " ")
	result, err := r.exec.Run(ctx, r.command[0], r.command[1:], opts...)
	if err != nil {
		return nil, fmt.Errorf("version command %q: %w", display, err)
	}

	// Build frontends print warnings ahead of the version, so only the last
	// line counts.
	raw := lastLine(result.Stdout)
	if raw == "" {
		return nil, fmt.Errorf("version command %q produced no output", display)
	}

	return &Resolution{Raw: raw, Source: SourceCommand, Origin: display}, nil
}

func (r *Resolver) join(path string) string {
	if filepath.IsAbs(path) || r.workdir == "" {
		return path
	}
	return filepath.Join(r.workdir, path)
}

// parseVersion validates a raw version string. Prerelease and build metadata
// are allowed; a leading tag prefix is not, since the tag is derived by
// prepending "v".
func parseVersion(raw string) (*semver.Version, error) {
	if strings.HasPrefix(raw, "v") || strings.HasPrefix(raw, "V") {
		return nil, fmt.Errorf("%w: %q carries a tag-style prefix", ErrInvalidVersion, raw)
	}

	version, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, raw, err)
	}
	return version, nil
}

// lastLine returns the final non-empty line of s, trimmed.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
