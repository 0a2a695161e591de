package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/catalyst-forge-release/executor"
	fsbilly "github.com/input-output-hk/catalyst-forge-release/fs/billy"
	pkgversion "github.com/input-output-hk/catalyst-forge-release/version"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the project version and release tag",
	Long: `Resolve reads the project version the way a release run would: project
metadata first, then the configured version file, then the configured
command. The release tag is the version with a "v" prefix.`,
	RunE: runResolve,
}

var resolveDir string

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&resolveDir, "dir", ".", "project directory")
}

func runResolve(cmd *cobra.Command, _ []string) error {
	resolver := pkgversion.New(fsbilly.NewOSFS("/"),
		pkgversion.WithWorkDir(absPath(resolveDir)),
		pkgversion.WithVersionFile(cfg.Version.File),
		pkgversion.WithPattern(cfg.Version.Pattern),
		pkgversion.WithCommand(cfg.Version.Command...),
		pkgversion.WithRunner(executor.NewRunner()),
		pkgversion.WithLogger(newLogger()),
	)

	res, err := resolver.Resolve(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "version: %s\n", res.Raw)
	fmt.Fprintf(out, "tag:     %s\n", res.TagName())
	fmt.Fprintf(out, "source:  %s (%s)\n", res.Source, res.Origin)
	return nil
}
