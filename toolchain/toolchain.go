// Package toolchain establishes the runtime a release run builds with. It
// discovers candidate interpreters on the host, picks the newest one
// satisfying the configured version constraint, provisions an isolated
// environment for the run, and installs the project's development
// dependencies into it.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/input-output-hk/catalyst-forge-release/executor"
)

const (
	// DefaultConstraint selects the latest available 3.x interpreter.
	DefaultConstraint = "3.x"

	// DefaultVenvDir is the environment directory created inside the
	// project workdir.
	DefaultVenvDir = ".venv"
)

// DefaultInterpreters are the interpreter names probed in order when none
// are configured.
var DefaultInterpreters = []string{"python3", "python"}

// DefaultInstallCommand installs the project with its development extras.
var DefaultInstallCommand = []string{"pip", "install", "-e", ".[dev]"}

var (
	// ErrNoInterpreter indicates no discovered interpreter satisfies the
	// version constraint.
	ErrNoInterpreter = errors.New("no interpreter satisfies constraint")

	// ErrInvalidConstraint indicates the configured version constraint is
	// not parseable.
	ErrInvalidConstraint = errors.New("invalid version constraint")

	// ErrProvisionFailed indicates the run environment could not be created.
	ErrProvisionFailed = errors.New("environment provisioning failed")

	// ErrInstallFailed indicates dependency installation failed.
	ErrInstallFailed = errors.New("dependency installation failed")
)

// versionPattern extracts the numeric version from interpreter banners such
// as "Python 3.12.4" or "Python 3.13.0rc1".
var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// Interpreter is a discovered runtime candidate.
type Interpreter struct {
	// Name is the program name the interpreter was probed as.
	Name string

	// Version is the parsed interpreter version.
	Version *semver.Version
}

// Toolchain discovers interpreters and provisions run environments.
type Toolchain struct {
	exec         executor.Runner
	workdir      string
	interpreters []string
	constraint   string
	venvDir      string
	disableVenv  bool
	installCmd   []string
	logger       *slog.Logger
}

// Option configures a Toolchain.
type Option func(*Toolchain)

// WithWorkDir sets the project directory commands run in.
func WithWorkDir(dir string) Option {
	return func(t *Toolchain) {
		t.workdir = dir
	}
}

// WithInterpreters sets the interpreter names probed during discovery, in
// preference order.
func WithInterpreters(names ...string) Option {
	return func(t *Toolchain) {
		if len(names) > 0 {
			t.interpreters = names
		}
	}
}

// WithConstraint sets the version constraint discovered interpreters must
// satisfy. Wildcards select the latest available match, e.g. "3.x".
func WithConstraint(constraint string) Option {
	return func(t *Toolchain) {
		if constraint != "" {
			t.constraint = constraint
		}
	}
}

// WithVenvDir sets the environment directory created within the workdir.
func WithVenvDir(dir string) Option {
	return func(t *Toolchain) {
		if dir != "" {
			t.venvDir = dir
		}
	}
}

// WithoutVenv disables environment isolation; commands run against the host
// interpreter directly.
func WithoutVenv() Option {
	return func(t *Toolchain) {
		t.disableVenv = true
	}
}

// WithInstallCommand overrides the dependency install command.
func WithInstallCommand(cmd ...string) Option {
	return func(t *Toolchain) {
		if len(cmd) > 0 {
			t.installCmd = cmd
		}
	}
}

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Toolchain) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// New creates a Toolchain running commands through the given executor.
func New(exec executor.Runner, opts ...Option) *Toolchain {
	t := &Toolchain{
		exec:         exec,
		interpreters: DefaultInterpreters,
		constraint:   DefaultConstraint,
		venvDir:      DefaultVenvDir,
		installCmd:   DefaultInstallCommand,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Discover probes the configured interpreter names and returns every
// candidate whose version banner parses. Candidates that are missing from
// the host or produce unparseable output are skipped, not fatal.
func (t *Toolchain) Discover(ctx context.Context) ([]Interpreter, error) {
	var found []Interpreter
	for _, name := range t.interpreters {
		result, err := t.exec.Run(ctx, name, []string{"--version"},
			executor.WithCapture(true, true, true),
		)
		if err != nil {
			t.logger.DebugContext(ctx, "interpreter not available", "name", name, "error", err)
			continue
		}

		version, err := parseVersionBanner(result.Output())
		if err != nil {
			t.logger.DebugContext(ctx, "unparseable version banner",
				"name", name, "output", strings.TrimSpace(result.Output()))
			continue
		}

		t.logger.DebugContext(ctx, "discovered interpreter", "name", name, "version", version.String())
		found = append(found, Interpreter{Name: name, Version: version})
	}
	return found, nil
}

// Select picks the newest discovered interpreter satisfying the constraint.
// Candidates with equal versions keep their configured preference order.
func (t *Toolchain) Select(candidates []Interpreter) (Interpreter, error) {
	constraint, err := semver.NewConstraint(t.constraint)
	if err != nil {
		return Interpreter{}, fmt.Errorf("%w: %q", ErrInvalidConstraint, t.constraint)
	}

	matching := make([]Interpreter, 0, len(candidates))
	for _, candidate := range candidates {
		if constraint.Check(candidate.Version) {
			matching = append(matching, candidate)
		}
	}
	if len(matching) == 0 {
		return Interpreter{}, fmt.Errorf("%w: %q (probed %s)",
			ErrNoInterpreter, t.constraint, strings.Join(t.interpreters, ", "))
	}

	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].Version.GreaterThan(matching[j].Version)
	})
	return matching[0], nil
}

// Provision discovers and selects an interpreter, then creates the isolated
// environment for the run. With venvs disabled the returned Env runs against
// the host interpreter directly.
func (t *Toolchain) Provision(ctx context.Context) (*Env, error) {
	candidates, err := t.Discover(ctx)
	if err != nil {
		return nil, err
	}

	selected, err := t.Select(candidates)
	if err != nil {
		return nil, err
	}
	t.logger.InfoContext(ctx, "selected interpreter",
		"name", selected.Name, "version", selected.Version.String(), "constraint", t.constraint)

	if t.disableVenv {
		return &Env{
			Interpreter: selected,
			Python:      selected.Name,
			workdir:     t.workdir,
			exec:        t.exec,
			logger:      t.logger,
		}, nil
	}

	venvPath := t.venvDir
	if !filepath.IsAbs(venvPath) {
		venvPath = filepath.Join(t.workdir, t.venvDir)
	}

	// --clear guarantees a fresh environment even when the directory is
	// left over from an earlier run.
	result, err := t.exec.Run(ctx, selected.Name, []string{"-m", "venv", "--clear", venvPath},
		executor.SilentMode(),
		executor.WithWorkingDir(t.workdir),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: creating venv at %s: %s", ErrProvisionFailed, venvPath, execFailure(result, err))
	}

	binDir := filepath.Join(venvPath, "bin")
	return &Env{
		Interpreter: selected,
		Python:      filepath.Join(binDir, "python"),
		VenvDir:     venvPath,
		binDir:      binDir,
		workdir:     t.workdir,
		exec:        t.exec,
		logger:      t.logger,
	}, nil
}

// InstallDeps installs the project and its development dependencies into the
// environment using the configured install command.
func (t *Toolchain) InstallDeps(ctx context.Context, env *Env) error {
	if len(t.installCmd) == 0 {
		return fmt.Errorf("%w: install command is empty", ErrInstallFailed)
	}

	t.logger.InfoContext(ctx, "installing dependencies", "command", strings.Join(t.installCmd, " "))

	result, err := env.Exec(ctx, t.installCmd[0], t.installCmd[1:], executor.SilentMode())
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInstallFailed, execFailure(result, err))
	}
	return nil
}

// execFailure renders a tool failure for error messages, preferring captured
// stderr over the bare exit error.
func execFailure(result *executor.Result, err error) string {
	if result != nil {
		if detail := strings.TrimSpace(result.Stderr); detail != "" {
			return fmt.Sprintf("%v: %s", err, detail)
		}
	}
	return err.Error()
}

// parseVersionBanner extracts a semantic version from interpreter --version
// output. Suffixes like release-candidate markers are ignored.
func parseVersionBanner(output string) (*semver.Version, error) {
	match := versionPattern.FindStringSubmatch(output)
	if match == nil {
		return nil, fmt.Errorf("no version in %q", strings.TrimSpace(output))
	}

	raw := match[1] + "." + match[2]
	if match[3] != "" {
		raw += "." + match[3]
	}

	version, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing version %q: %w", raw, err)
	}
	return version, nil
}
