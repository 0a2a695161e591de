package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/input-output-hk/catalyst-forge-release/errors"
	"github.com/input-output-hk/catalyst-forge-release/release"
)

// validNotesModes are the accepted release.notes_mode values. The empty
// string falls back to the default mode.
var validNotesModes = map[string]bool{
	"":                         true,
	release.NotesModeGenerated: true,
	release.NotesModeChangelog: true,
	release.NotesModeBoth:      true,
}

// validExporters are the accepted telemetry.exporter values.
var validExporters = map[string]bool{
	"":       true,
	"none":   true,
	"file":   true,
	"stdout": true,
}

// Validate checks the configuration for structural problems. It collects
// every problem it finds and reports them as a single coded error, so an
// operator can fix a file in one pass.
//
// Run readiness, such as whether the publish token is actually set, is the
// preflight checks' concern, not Validate's.
func (c *Config) Validate() error {
	var problems []string

	if c.Runtime.Constraint != "" {
		if _, err := semver.NewConstraint(c.Runtime.Constraint); err != nil {
			problems = append(problems,
				fmt.Sprintf("runtime.constraint %q is not parseable", c.Runtime.Constraint))
		}
	}

	if c.Version.Pattern != "" {
		if re, err := regexp.Compile(c.Version.Pattern); err != nil {
			problems = append(problems,
				fmt.Sprintf("version.pattern is not a valid regular expression: %v", err))
		} else if re.NumSubexp() < 1 {
			problems = append(problems,
				"version.pattern needs a capture group for the version")
		}
	}

	if !validNotesModes[c.Release.NotesMode] {
		problems = append(problems,
			fmt.Sprintf("release.notes_mode %q is not one of %s, %s, %s",
				c.Release.NotesMode, release.NotesModeGenerated, release.NotesModeChangelog, release.NotesModeBoth))
	}

	if c.Auth.Provider != "" && c.Auth.Provider != "github" {
		problems = append(problems,
			fmt.Sprintf("auth.provider %q is not supported", c.Auth.Provider))
	}

	if c.Auth.TokenEnv == "" {
		problems = append(problems, "auth.token_env must name an environment variable")
	}

	if c.Build.OutputDir == "" {
		problems = append(problems, "build.output_dir must be set")
	}

	if !validExporters[c.Telemetry.Exporter] {
		problems = append(problems,
			fmt.Sprintf("telemetry.exporter %q is not one of none, file, stdout", c.Telemetry.Exporter))
	}

	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		problems = append(problems,
			fmt.Sprintf("telemetry.sample_rate %v is outside [0, 1]", c.Telemetry.SampleRate))
	}

	if len(problems) > 0 {
		return errors.Newf(errors.CodeInvalidConfig,
			"configuration validation failed: %s", strings.Join(problems, "; "))
	}

	return nil
}
