package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/input-output-hk/catalyst-forge-release/changelog"
	"github.com/input-output-hk/catalyst-forge-release/config"
	"github.com/input-output-hk/catalyst-forge-release/domain"
	"github.com/input-output-hk/catalyst-forge-release/errors"
	"github.com/input-output-hk/catalyst-forge-release/executor"
	fsbilly "github.com/input-output-hk/catalyst-forge-release/fs/billy"
	"github.com/input-output-hk/catalyst-forge-release/git"
	"github.com/input-output-hk/catalyst-forge-release/pipeline"
	"github.com/input-output-hk/catalyst-forge-release/release"
	"github.com/input-output-hk/catalyst-forge-release/secrets"
	envprovider "github.com/input-output-hk/catalyst-forge-release/secrets/providers/env"
	"github.com/input-output-hk/catalyst-forge-release/telemetry"
	"github.com/input-output-hk/catalyst-forge-release/toolchain"
	"github.com/input-output-hk/catalyst-forge-release/trigger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a release run",
	Long: `Run executes the full release sequence in a fresh workspace: checkout,
runtime setup, dependency install, artifact build, version resolution,
and release publication.

A --ref makes the run a tag-push release of that tag; without it the run
is a manual dispatch and the version comes from project metadata alone.
The publish token is read from the environment variable named in the
configuration (GITHUB_TOKEN unless overridden).`,
	Example: `  forge-release run --ref refs/tags/v2.3.0
  forge-release run --actor nightly-dispatch
  forge-release run --ref v2.3.0 --dry-run`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("ref", "",
		"pushed tag reference (refs/tags/v2.3.0 or v2.3.0); omit for a manual run")
	runCmd.Flags().String("sha", "", "commit to pin the checkout to")
	runCmd.Flags().String("actor", "", "who or what triggered the run")
	runCmd.Flags().String("url", "", "clone URL, overriding the configuration")
	runCmd.Flags().String("workspace", "", "workspace root, overriding the configuration")
	runCmd.Flags().Bool("keep-workspace", false, "keep the run workspace after the run")
	runCmd.Flags().String("report", "", "write the run report to this path")
	runCmd.Flags().Bool("dry-run", false, "assemble the release but do not publish it")

	for _, name := range []string{"ref", "sha", "actor", "url", "workspace", "keep-workspace", "report", "dry-run"} {
		_ = viper.BindPFlag(name, runCmd.Flags().Lookup(name))
	}
}

func runRun(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	applyOverrides(cfg)

	event, err := buildTrigger(viper.GetString("ref"), viper.GetString("sha"), viper.GetString("actor"))
	if err != nil {
		return err
	}

	dryRun := viper.GetBool("dry-run")

	var token string
	if !dryRun {
		token, err = publishToken(ctx, cfg.Auth.TokenEnv)
		if err != nil {
			return err
		}
	}

	fsys := fsbilly.NewOSFS("/")
	runID := uuid.NewString()
	workdir := filepath.Join(absPath(cfg.Workspace.Root), runID)
	if err := fsys.MkdirAll(workdir, 0o750); err != nil {
		return errors.Wrapf(errors.CodeInternal, err, "failed to create workspace %s", workdir)
	}
	if cfg.Workspace.Keep {
		logger.InfoContext(ctx, "keeping workspace after run", "path", workdir)
	} else {
		defer func() {
			if err := os.RemoveAll(workdir); err != nil {
				logger.Warn("failed to remove workspace", "path", workdir, "error", err)
			}
		}()
	}

	st := &pipeline.State{Trigger: event, FS: fsys, Workdir: workdir}

	steps, err := assembleSteps(cfg, st, token, dryRun, logger)
	if err != nil {
		return err
	}

	tel, err := telemetry.NewProvider(telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Exporter:    cfg.Telemetry.Exporter,
		FilePath:    cfg.Telemetry.FilePath,
		SampleRate:  cfg.Telemetry.SampleRate,
		ServiceName: cfg.Telemetry.ServiceName,
	}, telemetry.WithFS(fsys))
	if err != nil {
		return err
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Warn("failed to shut down telemetry", "error", err)
		}
	}()

	pipe := pipeline.New(steps,
		pipeline.WithRunID(runID),
		pipeline.WithLogger(logger),
		pipeline.WithTracer(tel.Tracer()),
	)

	logger.InfoContext(ctx, "starting release run",
		"run_id", runID, "trigger", event.Kind.String(), "tag", event.Tag, "workspace", workdir)

	report, runErr := pipe.Run(ctx, st)

	fmt.Fprintln(cmd.OutOrStdout(), pipeline.Summarize(report))
	if dryRun && st.Descriptor != nil {
		fmt.Fprint(cmd.OutOrStdout(), describeRelease(st.Descriptor))
	}

	if path := cfg.Report.Path; path != "" {
		if err := pipeline.WriteReport(fsys, absPath(path), report); err != nil {
			logger.ErrorContext(ctx, "failed to write run report", "path", path, "error", err)
		}
	}

	return runErr
}

// applyOverrides copies per-invocation flag values over the loaded
// configuration. Empty flags leave the configuration untouched.
func applyOverrides(cfg *config.Config) {
	if v := viper.GetString("url"); v != "" {
		cfg.Repository.URL = v
	}
	if v := viper.GetString("workspace"); v != "" {
		cfg.Workspace.Root = v
	}
	if viper.GetBool("keep-workspace") {
		cfg.Workspace.Keep = true
	}
	if v := viper.GetString("report"); v != "" {
		cfg.Report.Path = v
	}
}

// buildTrigger maps the invocation onto a trigger event: a ref makes a
// tag-push run, no ref makes a manual dispatch.
func buildTrigger(ref, sha, actor string) (domain.TriggerEvent, error) {
	var opts []trigger.Option
	if actor != "" {
		opts = append(opts, trigger.WithTriggeredBy(actor))
	}
	if sha != "" {
		opts = append(opts, trigger.WithCommitSHA(sha))
	}

	if ref != "" {
		return trigger.NewTagPushEvent(ref, opts...)
	}
	return trigger.NewManualEvent(opts...), nil
}

// publishToken resolves the hosting token from the configured environment
// variable through the secrets manager. The value never appears in logs or
// reports.
func publishToken(ctx context.Context, tokenEnv string) (string, error) {
	if tokenEnv == "" {
		tokenEnv = config.DefaultTokenEnv
	}

	manager := secrets.NewManager(&secrets.Config{DefaultProvider: "env"})
	if err := manager.RegisterProvider("env", envprovider.New()); err != nil {
		return "", err
	}

	secret, err := manager.Resolve(ctx, secrets.SecretRef{Path: tokenEnv})
	if err != nil {
		return "", fmt.Errorf("publish token: %w", err)
	}
	return secret.String(), nil
}

// assembleSteps builds the six pipeline steps from the configuration. The
// state is shared with the notes generator so changelog assembly can reach
// the repository the checkout step produces.
func assembleSteps(cfg *config.Config, st *pipeline.State, token string, dryRun bool, logger *slog.Logger) ([]pipeline.Step, error) {
	owner, name, ok := cfg.Repository.Slug()
	if !ok && !dryRun {
		return nil, errors.New(errors.CodeInvalidConfig,
			"repository owner and name are not configured and cannot be derived from the clone URL")
	}

	tc := toolchainFromConfig(cfg, st.Workdir, logger)

	var publisher pipeline.Publisher
	if !dryRun {
		publisher = release.New(release.NewGitHubAPI(token), owner, name, release.WithLogger(logger))
	}

	return []pipeline.Step{
		&pipeline.CheckoutStep{
			URL:           cfg.Repository.CloneURL(),
			DefaultBranch: cfg.Repository.DefaultBranch,
			Auth:          git.TokenAuth{Token: token},
		},
		&pipeline.SetupRuntimeStep{Toolchain: tc},
		&pipeline.InstallDepsStep{Toolchain: tc},
		&pipeline.BuildStep{
			Command:   cfg.Build.Command,
			OutputDir: cfg.Build.OutputDir,
		},
		&pipeline.ResolveVersionStep{
			File:    cfg.Version.File,
			Pattern: cfg.Version.Pattern,
			Command: cfg.Version.Command,
		},
		&pipeline.PublishStep{
			Publisher:         publisher,
			Notes:             &stateNotes{state: st, logger: logger},
			NotesMode:         cfg.Release.NotesMode,
			DisplayNamePrefix: cfg.Release.DisplayNamePrefix,
			MakeLatest:        cfg.Release.MakeLatest,
			Draft:             cfg.Release.Draft,
			Prerelease:        cfg.Release.Prerelease,
			DryRun:            dryRun,
		},
	}, nil
}

func toolchainFromConfig(cfg *config.Config, workdir string, logger *slog.Logger) *toolchain.Toolchain {
	opts := []toolchain.Option{
		toolchain.WithWorkDir(workdir),
		toolchain.WithInterpreters(cfg.Runtime.Interpreters...),
		toolchain.WithConstraint(cfg.Runtime.Constraint),
		toolchain.WithVenvDir(cfg.Runtime.VenvDir),
		toolchain.WithInstallCommand(cfg.Install.Command...),
		toolchain.WithLogger(logger),
	}
	if cfg.Runtime.Disable {
		opts = append(opts, toolchain.WithoutVenv())
	}
	return toolchain.New(executor.NewRunner(), opts...)
}

// describeRelease renders the assembled descriptor for dry runs, which end
// before anything reaches the hosting platform.
func describeRelease(desc *release.Descriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "would publish %s (title %q)\n", desc.TagName, desc.Title())
	fmt.Fprintf(&b, "  draft=%v prerelease=%v latest=%v generated_notes=%v\n",
		desc.Draft, desc.Prerelease, desc.MakeLatest, desc.GenerateNotes)
	if desc.TargetCommitish != "" {
		fmt.Fprintf(&b, "  target commit %s\n", desc.TargetCommitish)
	}
	fmt.Fprintf(&b, "  %d asset(s)\n", len(desc.Assets))
	for _, asset := range desc.Assets {
		fmt.Fprintf(&b, "    %s (%d bytes)\n", asset.Name, asset.Size)
	}
	return b.String()
}

// stateNotes defers changelog generation until the checkout step has placed
// the repository in the shared state.
type stateNotes struct {
	state  *pipeline.State
	logger *slog.Logger
}

// Generate implements pipeline.NotesGenerator.
func (n *stateNotes) Generate(ctx context.Context, tag string) (*changelog.Notes, error) {
	if n.state.Repo == nil {
		return nil, fmt.Errorf("no repository checked out")
	}
	gen := changelog.New(n.state.Repo, changelog.WithLogger(n.logger))
	return gen.Generate(ctx, tag)
}
