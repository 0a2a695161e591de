// Package cmd wires the release pipeline into the forge-release command
// line.
package cmd

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/input-output-hk/catalyst-forge-release/config"
	"github.com/input-output-hk/catalyst-forge-release/fs"
	fsbilly "github.com/input-output-hk/catalyst-forge-release/fs/billy"
)

var (
	version = "dev"
	cfgFile string
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "forge-release",
	Short: "Publish version-tagged releases with built artifacts",
	Long: `forge-release runs the tag-to-release sequence as a single command:
check out the triggering commit, provision the runtime, install
dependencies, build distribution artifacts, resolve the package version,
and publish a release with the artifacts attached.

Runs are strictly linear and fail fast: each step either completes or
classifies the failure and ends the run.`,
	Version:       version,
	SilenceUsage:  true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./.forge-release.yaml, then the user config directory)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false,
		"enable debug logging")

	viper.SetEnvPrefix("FORGE_RELEASE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// initConfig loads the configuration file before any command runs. Missing
// files are not an error; every field has a default.
func initConfig() {
	fsys := fsbilly.NewOSFS("/")

	path, ok := config.Locate(fsys, explicitConfig())
	if !ok {
		cfg = config.Defaults()
		return
	}

	loaded, err := config.Load(context.Background(), fsys, path)
	cobra.CheckErr(err)
	cfg = loaded
}

// explicitConfig absolutizes the configuration candidates so they resolve
// against the / rooted filesystem handle. The --config flag wins; without
// it the working-directory file is promoted when present, leaving the user
// config directory to Locate.
func explicitConfig() string {
	if cfgFile != "" {
		return absPath(cfgFile)
	}
	local := absPath(config.DefaultFileName)
	if found, err := fs.Exists(local); err == nil && found {
		return local
	}
	return ""
}

// absPath resolves a path against the working directory.
func absPath(path string) string {
	abs, err := fs.GetAbs(path)
	if err != nil {
		return path
	}
	return abs
}

// newLogger builds the command logger. Debug level requires --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
