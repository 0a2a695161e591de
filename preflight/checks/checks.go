// Package checks provides the built-in readiness checks for release runs.
// Each check examines one configured value or one part of the project tree
// and reports issues through the preflight framework.
package checks

import (
	"fmt"
	"path/filepath"

	"github.com/Masterminds/semver/v3"

	"github.com/input-output-hk/catalyst-forge-release/artifact"
	"github.com/input-output-hk/catalyst-forge-release/preflight"
)

// Params carries the configured values the standard checks examine.
type Params struct {
	// TokenEnv is the environment variable holding the publish token.
	TokenEnv string

	// Owner and Repository identify the release repository.
	Owner      string
	Repository string

	// Constraint is the runtime version constraint.
	Constraint string

	// OutputDir is the build output directory.
	OutputDir string

	// Pyproject, VersionFile, and VersionCommand are the configured
	// version sources, in resolution order.
	Pyproject      string
	VersionFile    string
	VersionCommand []string
}

// Standard returns the built-in checks for a release run, in execution
// order.
func Standard(p Params) []preflight.Check {
	return []preflight.Check{
		TokenPresent(p.TokenEnv),
		RepositoryConfigured(p.Owner, p.Repository),
		RuntimeConstraintValid(p.Constraint),
		OutputDirConfigured(p.OutputDir),
		VersionSourceAvailable(p.Pyproject, p.VersionFile, p.VersionCommand),
		ArtifactsPresent(p.OutputDir),
	}
}

// TokenPresent verifies the publish token environment variable is set and
// non-empty. The token value itself is never inspected or reported.
//
//nolint:ireturn // Builder functions should return interfaces
func TokenPresent(envName string) preflight.Check {
	const name = "token-present"
	return preflight.SimpleCheck(
		name,
		"publish token is available in the environment",
		func(ctx *preflight.Context) []preflight.Issue {
			if envName == "" {
				return []preflight.Issue{preflight.NewIssue(name, preflight.SeverityError,
					"no token environment variable configured")}
			}
			if value, ok := ctx.Env(envName); !ok || value == "" {
				issue := preflight.NewIssue(name, preflight.SeverityError,
					fmt.Sprintf("environment variable %s is not set", envName))
				return []preflight.Issue{issue.WithContext("variable", envName)}
			}
			return nil
		},
	)
}

// RepositoryConfigured verifies the release repository owner and name are
// both configured.
//
//nolint:ireturn // Builder functions should return interfaces
func RepositoryConfigured(owner, repository string) preflight.Check {
	return preflight.RequireCheck(
		"repository-configured",
		"release repository owner and name are configured",
		func(*preflight.Context) bool {
			return owner != "" && repository != ""
		},
	)
}

// RuntimeConstraintValid verifies the runtime version constraint parses.
//
//nolint:ireturn // Builder functions should return interfaces
func RuntimeConstraintValid(constraint string) preflight.Check {
	return preflight.RequireCheck(
		"runtime-constraint",
		fmt.Sprintf("runtime version constraint %q is parseable", constraint),
		func(*preflight.Context) bool {
			_, err := semver.NewConstraint(constraint)
			return err == nil
		},
	)
}

// OutputDirConfigured verifies a build output directory is configured.
//
//nolint:ireturn // Builder functions should return interfaces
func OutputDirConfigured(dir string) preflight.Check {
	return preflight.RequireCheck(
		"output-dir-configured",
		"build output directory is configured",
		func(*preflight.Context) bool {
			return dir != ""
		},
	)
}

// VersionSourceAvailable verifies at least one version source can serve a
// resolution: a configured command, a configured version file that exists,
// or project metadata in the tree.
//
//nolint:ireturn // Builder functions should return interfaces
func VersionSourceAvailable(pyproject, versionFile string, command []string) preflight.Check {
	const name = "version-source"
	return preflight.SimpleCheck(
		name,
		"a version source is available",
		func(ctx *preflight.Context) []preflight.Issue {
			if len(command) > 0 {
				return nil
			}
			if versionFile != "" && exists(ctx, versionFile) {
				return nil
			}
			if pyproject != "" && exists(ctx, pyproject) {
				return nil
			}
			issue := preflight.NewIssue(name, preflight.SeverityError,
				"no version source available: project metadata missing and no version file or command configured")
			if pyproject != "" {
				issue = issue.WithContext("metadata", pyproject)
			}
			if versionFile != "" {
				issue = issue.WithContext("version_file", versionFile)
			}
			return []preflight.Issue{issue}
		},
	)
}

// ArtifactsPresent warns when the output directory holds no artifacts. An
// empty set is legal, publishing proceeds without assets, so this never
// blocks a run.
//
//nolint:ireturn // Builder functions should return interfaces
func ArtifactsPresent(dir string) preflight.Check {
	const name = "artifacts-present"
	return preflight.SimpleCheck(
		name,
		"build output directory holds artifacts",
		func(ctx *preflight.Context) []preflight.Issue {
			if dir == "" {
				return nil
			}
			set, err := artifact.Scan(ctx.FS, resolve(ctx, dir))
			if err != nil {
				issue := preflight.NewIssue(name, preflight.SeverityWarning,
					fmt.Sprintf("output directory unreadable: %v", err))
				return []preflight.Issue{issue.WithContext("dir", dir)}
			}
			if set.Empty() {
				issue := preflight.NewIssue(name, preflight.SeverityWarning,
					fmt.Sprintf("no artifacts staged in %s", dir))
				return []preflight.Issue{issue.WithContext("dir", dir)}
			}
			return nil
		},
	)
}

// resolve joins a relative path onto the context working directory.
func resolve(ctx *preflight.Context, path string) string {
	if path == "" || filepath.IsAbs(path) || ctx.WorkDir == "" {
		return path
	}
	return filepath.Join(ctx.WorkDir, path)
}

// exists reports whether a path is present in the context tree. Unreadable
// paths count as missing, checks report the gap rather than fail.
func exists(ctx *preflight.Context, path string) bool {
	ok, err := ctx.FS.Exists(resolve(ctx, path))
	return err == nil && ok
}
