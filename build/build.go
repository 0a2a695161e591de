// Package build invokes the project's build tool and collects what it
// produces.
//
// The build command runs inside the provisioned environment (so "python"
// resolves to the environment's interpreter), drops distribution files into
// the configured output directory, and the directory is then scanned into an
// artifact.Set. The build tool is an external collaborator; this package
// never inspects what it does beyond the exit status and the output
// directory contents.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/input-output-hk/catalyst-forge-release/artifact"
	"github.com/input-output-hk/catalyst-forge-release/executor"
	"github.com/input-output-hk/catalyst-forge-release/fs"
)

const (
	// DefaultOutputDir is where build tools drop distribution files.
	DefaultOutputDir = "dist"

	// VersionEnvVar is exported to build subprocesses when the project
	// version is already known, for project scripts that read it.
	VersionEnvVar = "CURRENT_LIB_VERSION"
)

// DefaultCommand builds both sdist and wheel through the standard frontend.
var DefaultCommand = []string{"python", "-m", "build"}

// ErrBuildFailed indicates the build command did not complete successfully.
var ErrBuildFailed = errors.New("build command failed")

// Builder runs the configured build command and scans its output.
type Builder struct {
	fs        fs.ReadFS
	workdir   string
	command   []string
	outputDir string
	logger    *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithWorkDir sets the project directory the build runs in.
func WithWorkDir(dir string) Option {
	return func(b *Builder) {
		b.workdir = dir
	}
}

// WithCommand overrides the build command.
func WithCommand(cmd ...string) Option {
	return func(b *Builder) {
		if len(cmd) > 0 {
			b.command = cmd
		}
	}
}

// WithOutputDir overrides the output directory scanned after the build.
func WithOutputDir(dir string) Option {
	return func(b *Builder) {
		if dir != "" {
			b.outputDir = dir
		}
	}
}

// WithLogger sets the logger for build progress.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates a Builder scanning artifacts through the given filesystem.
func New(fsys fs.ReadFS, opts ...Option) *Builder {
	b := &Builder{
		fs:        fsys,
		command:   DefaultCommand,
		outputDir: DefaultOutputDir,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build runs the build command through the given runner, typically a
// provisioned toolchain.Env, and returns the scanned artifact set. The
// version is exported to the subprocess when non-empty. An empty artifact
// set is a valid outcome.
func (b *Builder) Build(ctx context.Context, runner executor.Runner, version string) (*artifact.Set, error) {
	if len(b.command) == 0 {
		return nil, fmt.Errorf("%w: no command configured", ErrBuildFailed)
	}

	opts := []executor.Option{executor.CaptureAll()}
	if b.workdir != "" {
		opts = append(opts, executor.WithWorkingDir(b.workdir))
	}
	if version != "" {
		opts = append(opts, executor.WithEnvVar(VersionEnvVar, version))
	}

	display := strings.Join(b.command, " ")
	b.logger.InfoContext(ctx, "running build command", "command", display, "output_dir", b.outputDir)

	result, err := runner.Run(ctx, b.command[0], b.command[1:], opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrBuildFailed, display, failureDetail(result, err))
	}

	set, err := artifact.Scan(b.fs, b.outputPath())
	if err != nil {
		return nil, fmt.Errorf("scanning build output: %w", err)
	}

	b.logger.InfoContext(ctx, "build completed",
		"artifact_count", set.Len(), "total_size", set.TotalSize())
	return set, nil
}

// outputPath resolves the output directory against the work directory.
func (b *Builder) outputPath() string {
	if filepath.IsAbs(b.outputDir) || b.workdir == "" {
		return b.outputDir
	}
	return filepath.Join(b.workdir, b.outputDir)
}

// failureDetail prefers the command's captured stderr over the bare exec
// error, since build frontends report the actual cause there.
func failureDetail(result *executor.Result, err error) string {
	if result != nil {
		if stderr := strings.TrimSpace(result.Stderr); stderr != "" {
			return fmt.Sprintf("%v: %s", err, stderr)
		}
	}
	return err.Error()
}
