package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	fsbilly "github.com/input-output-hk/catalyst-forge-release/fs/billy"
	"github.com/input-output-hk/catalyst-forge-release/preflight"
	"github.com/input-output-hk/catalyst-forge-release/preflight/checks"
	pkgversion "github.com/input-output-hk/catalyst-forge-release/version"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run release readiness checks",
	Long: `Check verifies the project and environment are ready for a release run
without changing anything: the publish token is present, the repository
is identified, the runtime constraint parses, and a version source
exists. Warnings do not fail the command; errors do.`,
	RunE: runCheck,
}

var (
	checkFormat string
	checkDir    string
)

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkFormat, "format", "text", "output format (text or json)")
	checkCmd.Flags().StringVar(&checkDir, "dir", ".", "project directory to examine")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	owner, name, _ := cfg.Repository.Slug()
	standard := checks.Standard(checks.Params{
		TokenEnv:       cfg.Auth.TokenEnv,
		Owner:          owner,
		Repository:     name,
		Constraint:     cfg.Runtime.Constraint,
		OutputDir:      cfg.Build.OutputDir,
		Pyproject:      pkgversion.DefaultPyprojectPath,
		VersionFile:    cfg.Version.File,
		VersionCommand: cfg.Version.Command,
	})

	runner := preflight.NewRunner(standard, preflight.WithLogger(logger))
	summary := runner.Run(&preflight.Context{
		FS:      fsbilly.NewOSFS("/"),
		WorkDir: absPath(checkDir),
	})

	reporter := preflight.NewReporter(cmd.OutOrStdout(), preflight.ParseFormat(checkFormat))
	if err := reporter.Report(summary); err != nil {
		return err
	}

	if summary.HasErrors() {
		return fmt.Errorf("readiness checks failed")
	}
	return nil
}
