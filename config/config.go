// Package config provides parsing, validation, and convenient access to
// release run configuration defined in YAML.
//
// A configuration file is optional. Every field has a default matching the
// behavior of the component it configures, so an empty file and a missing
// file both produce a runnable configuration.
//
// Load a configuration:
//
//	cfg, err := config.Load(ctx, fsys, ".forge-release.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Or locate one first, falling back to defaults:
//
//	cfg := config.Defaults()
//	if path, ok := config.Locate(fsys, flagPath); ok {
//	    cfg, err = config.Load(ctx, fsys, path)
//	}
package config

import (
	"context"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/input-output-hk/catalyst-forge-release/build"
	"github.com/input-output-hk/catalyst-forge-release/errors"
	"github.com/input-output-hk/catalyst-forge-release/fs"
	"github.com/input-output-hk/catalyst-forge-release/release"
	"github.com/input-output-hk/catalyst-forge-release/toolchain"
)

// DefaultFileName is the configuration file looked for in the working
// directory when no explicit path is given.
const DefaultFileName = ".forge-release.yaml"

// DefaultTokenEnv is the environment variable the publish token is read
// from.
const DefaultTokenEnv = "GITHUB_TOKEN"

// Config is the root configuration for a release run.
type Config struct {
	Repository Repository `yaml:"repository"`
	Workspace  Workspace  `yaml:"workspace"`
	Runtime    Runtime    `yaml:"runtime"`
	Install    Install    `yaml:"install"`
	Build      Build      `yaml:"build"`
	Version    Version    `yaml:"version"`
	Release    Release    `yaml:"release"`
	Auth       Auth       `yaml:"auth"`
	Telemetry  Telemetry  `yaml:"telemetry"`
	Report     Report     `yaml:"report"`
}

// Repository identifies the repository releases are cut from.
type Repository struct {
	// URL is the clone URL. Owner and Name are derived from it when unset.
	URL string `yaml:"url"`

	// Owner and Name identify the hosted repository for publishing.
	Owner string `yaml:"owner"`
	Name  string `yaml:"name"`

	// DefaultBranch is checked out for runs not pinned to a tag or commit.
	DefaultBranch string `yaml:"default_branch"`
}

// Workspace controls where run directories are created.
type Workspace struct {
	// Root is the directory run workspaces are created under.
	Root string `yaml:"root"`

	// Keep disables workspace cleanup after a run.
	Keep bool `yaml:"keep"`
}

// Runtime configures interpreter discovery and the run environment.
type Runtime struct {
	// Interpreters are the program names probed in order.
	Interpreters []string `yaml:"interpreters"`

	// Constraint is the version constraint a candidate must satisfy.
	Constraint string `yaml:"constraint"`

	// VenvDir is the environment directory created inside the workdir.
	VenvDir string `yaml:"venv_dir"`

	// Disable skips environment provisioning and runs against the host.
	Disable bool `yaml:"disable"`
}

// Install configures dependency installation.
type Install struct {
	// Command overrides the dependency install command.
	Command []string `yaml:"command"`
}

// Build configures the artifact build.
type Build struct {
	// Command overrides the build command.
	Command []string `yaml:"command"`

	// OutputDir is the directory artifacts are collected from.
	OutputDir string `yaml:"output_dir"`
}

// Version configures version resolution sources beyond project metadata.
type Version struct {
	// File is a file to scan for a version declaration.
	File string `yaml:"file"`

	// Pattern is the regular expression applied to File. Its first capture
	// group is the version.
	Pattern string `yaml:"pattern"`

	// Command is a command printing the version on its last output line.
	Command []string `yaml:"command"`
}

// Release configures how the release is published.
type Release struct {
	// DisplayNamePrefix is prepended to the tag name for the release title.
	DisplayNamePrefix string `yaml:"display_name_prefix"`

	// NotesMode selects how release notes are produced.
	NotesMode string `yaml:"notes_mode"`

	// MakeLatest promotes the release to latest.
	MakeLatest bool `yaml:"make_latest"`

	// Draft and Prerelease mark the release accordingly.
	Draft      bool `yaml:"draft"`
	Prerelease bool `yaml:"prerelease"`
}

// Auth configures credentials for the hosting platform.
type Auth struct {
	// TokenEnv names the environment variable holding the publish token.
	TokenEnv string `yaml:"token_env"`

	// Provider is the hosting platform. Only "github" is supported.
	Provider string `yaml:"provider"`
}

// Telemetry configures run tracing.
type Telemetry struct {
	Enabled     bool    `yaml:"enabled"`
	Exporter    string  `yaml:"exporter"`
	FilePath    string  `yaml:"file_path"`
	SampleRate  float64 `yaml:"sample_rate"`
	ServiceName string  `yaml:"service_name"`
}

// Report configures the machine-readable run report.
type Report struct {
	// Path is where the run report is written. Empty disables the report.
	Path string `yaml:"path"`
}

// Defaults returns the configuration used when no file overrides it.
// Component defaults are referenced rather than restated so the two cannot
// drift.
func Defaults() *Config {
	return &Config{
		Repository: Repository{
			DefaultBranch: "master",
		},
		Workspace: Workspace{
			Root: filepath.Join(xdg.StateHome, "forge-release", "runs"),
		},
		Runtime: Runtime{
			Interpreters: append([]string(nil), toolchain.DefaultInterpreters...),
			Constraint:   toolchain.DefaultConstraint,
			VenvDir:      toolchain.DefaultVenvDir,
		},
		Install: Install{
			Command: append([]string(nil), toolchain.DefaultInstallCommand...),
		},
		Build: Build{
			Command:   append([]string(nil), build.DefaultCommand...),
			OutputDir: build.DefaultOutputDir,
		},
		Release: Release{
			NotesMode:  release.NotesModeGenerated,
			MakeLatest: true,
		},
		Auth: Auth{
			TokenEnv: DefaultTokenEnv,
			Provider: "github",
		},
		Telemetry: Telemetry{
			Exporter:    "none",
			SampleRate:  1.0,
			ServiceName: "forge-release",
		},
	}
}

// LoadOptions configures the behavior of configuration loading operations.
type LoadOptions struct {
	// SkipValidation disables automatic validation after loading. Useful
	// when validation will be performed separately or when loading
	// partially complete configurations.
	SkipValidation bool
}

// Load reads and validates a configuration file. Fields the file does not
// set keep their defaults.
func Load(ctx context.Context, filesystem fs.ReadFS, path string) (*Config, error) {
	return load(ctx, filesystem, path, LoadOptions{})
}

// LoadWithOptions loads a configuration file with custom options.
func LoadWithOptions(ctx context.Context, filesystem fs.ReadFS, path string, opts LoadOptions) (*Config, error) {
	return load(ctx, filesystem, path, opts)
}

func load(ctx context.Context, filesystem fs.ReadFS, path string, opts LoadOptions) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.CodeTimeout, err, "configuration load canceled")
	}

	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.CodeInvalidConfig, err, "failed to read configuration %s", path)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(errors.CodeInvalidConfig, err, "failed to parse configuration %s", path)
	}

	if !opts.SkipValidation {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Locate returns the configuration file to load: the explicit path when
// given, then DefaultFileName in the current directory, then the user
// config directory. ok is false when no file exists, in which case
// Defaults apply.
func Locate(filesystem fs.ReadFS, explicit string) (path string, ok bool) {
	if explicit != "" {
		return explicit, true
	}
	if found, err := filesystem.Exists(DefaultFileName); err == nil && found {
		return DefaultFileName, true
	}
	candidate := filepath.Join(xdg.ConfigHome, "forge-release", "config.yaml")
	if found, err := filesystem.Exists(candidate); err == nil && found {
		return candidate, true
	}
	return "", false
}

// WriteDefault writes a starter configuration file holding the defaults.
func WriteDefault(filesystem fs.WriteFS, path string) error {
	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "failed to encode default configuration")
	}

	header := []byte("# forge-release configuration. Omitted values fall back to built-in defaults.\n")
	if err := filesystem.WriteFile(path, append(header, data...), 0o644); err != nil {
		return errors.Wrapf(errors.CodeInternal, err, "failed to write configuration %s", path)
	}

	return nil
}
