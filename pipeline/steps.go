package pipeline

import (
	"context"
	"path/filepath"

	"github.com/input-output-hk/catalyst-forge-release/build"
	"github.com/input-output-hk/catalyst-forge-release/changelog"
	"github.com/input-output-hk/catalyst-forge-release/domain"
	"github.com/input-output-hk/catalyst-forge-release/errors"
	"github.com/input-output-hk/catalyst-forge-release/git"
	"github.com/input-output-hk/catalyst-forge-release/release"
	"github.com/input-output-hk/catalyst-forge-release/toolchain"
	"github.com/input-output-hk/catalyst-forge-release/version"
)

// CheckoutStep acquires the source tree at the triggering commit. A fresh
// workspace is cloned from the configured URL; a workspace that already
// holds a repository is opened in place. The worktree is then checked out
// at the revision the trigger names.
type CheckoutStep struct {
	// URL is the remote repository to clone when the workspace is empty.
	URL string

	// DefaultBranch is the revision manual runs check out when the trigger
	// carries neither a commit nor a tag. Empty leaves a fresh clone at
	// the remote's default HEAD.
	DefaultBranch string

	// Auth optionally provides credentials for the clone.
	Auth git.AuthProvider

	// ShallowDepth limits clone depth when > 0.
	ShallowDepth int
}

// Name implements Step.
func (s *CheckoutStep) Name() string { return StepCheckout }

// Run implements Step.
func (s *CheckoutStep) Run(ctx context.Context, st *State) error {
	repo, err := s.acquire(ctx, st)
	if err != nil {
		return err
	}

	if rev := s.revision(st.Trigger); rev != "" {
		if err := repo.CheckoutRef(ctx, rev); err != nil {
			return errors.Wrapf(errors.CodeCheckoutFailed, err, "checking out %q", rev)
		}
	}

	head, err := repo.Head(ctx)
	if err != nil {
		return errors.Wrap(errors.CodeCheckoutFailed, err, "reading checked-out HEAD")
	}

	st.Repo = repo
	st.CommitSHA = head
	return nil
}

// acquire opens the workspace repository, cloning it first when absent.
func (s *CheckoutStep) acquire(ctx context.Context, st *State) (*git.Repo, error) {
	opts := &git.Options{
		FS:           st.FS,
		Workdir:      st.Workdir,
		Auth:         s.Auth,
		ShallowDepth: s.ShallowDepth,
	}

	present, err := st.FS.Exists(filepath.Join(st.Workdir, ".git"))
	if err != nil {
		return nil, errors.Wrap(errors.CodeCheckoutFailed, err, "probing workspace")
	}

	if present {
		repo, openErr := git.Open(ctx, opts)
		if openErr != nil {
			return nil, errors.Wrap(errors.CodeCheckoutFailed, openErr, "opening workspace repository")
		}
		return repo, nil
	}

	if s.URL == "" {
		return nil, errors.New(errors.CodeCheckoutFailed, "workspace has no repository and no remote URL is configured")
	}

	repo, cloneErr := git.Clone(ctx, s.URL, opts)
	if cloneErr != nil {
		return nil, errors.Wrapf(errors.CodeCheckoutFailed, cloneErr, "cloning %s", s.URL)
	}
	return repo, nil
}

// revision picks the checkout target: an explicit commit pin wins, then
// the pushed tag, then the default branch for manual runs.
func (s *CheckoutStep) revision(trigger domain.TriggerEvent) string {
	if trigger.CommitSHA != "" {
		return trigger.CommitSHA
	}
	if trigger.Tag != "" {
		return trigger.Tag
	}
	return s.DefaultBranch
}

// SetupRuntimeStep provisions the run environment through the toolchain.
type SetupRuntimeStep struct {
	// Toolchain discovers interpreters and provisions the environment.
	Toolchain *toolchain.Toolchain
}

// Name implements Step.
func (s *SetupRuntimeStep) Name() string { return StepSetupRuntime }

// Run implements Step.
func (s *SetupRuntimeStep) Run(ctx context.Context, st *State) error {
	if s.Toolchain == nil {
		return errors.New(errors.CodeRuntimeSetupFailed, "no toolchain configured")
	}

	env, err := s.Toolchain.Provision(ctx)
	if err != nil {
		return errors.Wrap(errors.CodeRuntimeSetupFailed, err, "provisioning runtime")
	}

	st.Env = env
	return nil
}

// InstallDepsStep installs the project and its development dependencies
// into the provisioned environment.
type InstallDepsStep struct {
	// Toolchain runs the configured install command.
	Toolchain *toolchain.Toolchain
}

// Name implements Step.
func (s *InstallDepsStep) Name() string { return StepInstallDeps }

// Run implements Step.
func (s *InstallDepsStep) Run(ctx context.Context, st *State) error {
	if s.Toolchain == nil {
		return errors.New(errors.CodeDependencyInstallFailed, "no toolchain configured")
	}
	if st.Env == nil {
		return errors.New(errors.CodeDependencyInstallFailed, "no runtime environment provisioned")
	}

	if err := s.Toolchain.InstallDeps(ctx, st.Env); err != nil {
		return errors.Wrap(errors.CodeDependencyInstallFailed, err, "installing dependencies")
	}
	return nil
}

// BuildStep runs the build tool inside the provisioned environment and
// scans the output directory into the artifact set. An empty output
// directory is not a failure; publishing without assets is legal.
type BuildStep struct {
	// Command overrides the build invocation.
	Command []string

	// OutputDir overrides the directory artifacts are scanned from.
	OutputDir string
}

// Name implements Step.
func (s *BuildStep) Name() string { return StepBuild }

// Run implements Step.
func (s *BuildStep) Run(ctx context.Context, st *State) error {
	if st.Env == nil {
		return errors.New(errors.CodeBuildFailed, "no runtime environment provisioned")
	}

	opts := []build.Option{build.WithWorkDir(st.Workdir)}
	if len(s.Command) > 0 {
		opts = append(opts, build.WithCommand(s.Command...))
	}
	if s.OutputDir != "" {
		opts = append(opts, build.WithOutputDir(s.OutputDir))
	}

	// The version is known here only when an earlier run resolved it, as
	// on manual re-runs; first runs resolve it from the built metadata.
	known := ""
	if st.Version != nil {
		known = st.Version.Raw
	}

	set, err := build.New(st.FS, opts...).Build(ctx, st.Env, known)
	if err != nil {
		return errors.Wrap(errors.CodeBuildFailed, err, "build failed")
	}

	st.Artifacts = set
	return nil
}

// ResolveVersionStep resolves the project version from the checked-out
// tree, derives the release tag, and verifies it against the pushed tag.
type ResolveVersionStep struct {
	// Pyproject overrides the project metadata path.
	Pyproject string

	// File is an optional version file scanned with Pattern.
	File string

	// Pattern overrides the version file regex.
	Pattern string

	// Command is an optional fallback command run inside the environment.
	Command []string
}

// Name implements Step.
func (s *ResolveVersionStep) Name() string { return StepResolveVersion }

// Run implements Step.
func (s *ResolveVersionStep) Run(ctx context.Context, st *State) error {
	opts := []version.Option{version.WithWorkDir(st.Workdir)}
	if s.Pyproject != "" {
		opts = append(opts, version.WithPyprojectPath(s.Pyproject))
	}
	if s.File != "" {
		opts = append(opts, version.WithVersionFile(s.File))
	}
	if s.Pattern != "" {
		opts = append(opts, version.WithPattern(s.Pattern))
	}
	if len(s.Command) > 0 {
		opts = append(opts, version.WithCommand(s.Command...))
	}
	if st.Env != nil {
		opts = append(opts, version.WithRunner(st.Env))
	}

	res, err := version.New(st.FS, opts...).Resolve(ctx)
	if err != nil {
		return errors.Wrap(errors.CodeVersionResolutionFailed, err, "resolving project version")
	}

	tagName := res.TagName()
	if st.Trigger.Kind == domain.TriggerKindTagPush && st.Trigger.Tag != tagName {
		return errors.Newf(errors.CodeVersionResolutionFailed,
			"resolved tag %s does not match pushed tag %s", tagName, st.Trigger.Tag)
	}

	st.Version = res
	st.TagName = tagName
	return nil
}

// Publisher creates a release from a descriptor. *release.Publisher
// implements it.
type Publisher interface {
	Publish(ctx context.Context, desc *release.Descriptor) (*release.Published, error)
}

// NotesGenerator renders release notes from repository history.
// *changelog.Generator implements it.
type NotesGenerator interface {
	Generate(ctx context.Context, tag string) (*changelog.Notes, error)
}

// PublishStep assembles the release descriptor and publishes it.
// Publishing is the last step of a run, so no partial release ever
// precedes an earlier failure; a duplicate tag is rejected by the host
// and surfaces here.
type PublishStep struct {
	// Publisher creates the release. Required unless DryRun is set.
	Publisher Publisher

	// Notes renders changelog notes when NotesMode asks for them.
	Notes NotesGenerator

	// NotesMode selects the notes source; release.NotesModeGenerated when
	// empty.
	NotesMode string

	// DisplayNamePrefix, when set, prefixes the tag in the release title.
	DisplayNamePrefix string

	// MakeLatest marks the release as the repository's latest.
	MakeLatest bool

	// Draft publishes as a draft when set.
	Draft bool

	// Prerelease marks the release as a prerelease when set.
	Prerelease bool

	// DryRun assembles the descriptor but skips publishing.
	DryRun bool
}

// Name implements Step.
func (s *PublishStep) Name() string { return StepPublish }

// Run implements Step.
func (s *PublishStep) Run(ctx context.Context, st *State) error {
	if st.TagName == "" {
		return errors.New(errors.CodePublishFailed, "no release tag resolved")
	}

	desc, err := s.descriptor(ctx, st)
	if err != nil {
		return err
	}
	st.Descriptor = desc

	if s.DryRun {
		return nil
	}
	if s.Publisher == nil {
		return errors.New(errors.CodePublishFailed, "no publisher configured")
	}

	published, err := s.Publisher.Publish(ctx, desc)
	if err != nil {
		return errors.Wrap(errors.CodePublishFailed, err, "publishing release")
	}

	st.Release = published
	return nil
}

// descriptor assembles the release descriptor from the run state.
func (s *PublishStep) descriptor(ctx context.Context, st *State) (*release.Descriptor, error) {
	desc := release.NewDescriptor(st.TagName)
	desc.MakeLatest = s.MakeLatest
	desc.Draft = s.Draft
	desc.Prerelease = s.Prerelease

	if s.DisplayNamePrefix != "" {
		desc.DisplayName = s.DisplayNamePrefix + st.TagName
	}
	if st.Artifacts != nil {
		desc.Assets = st.Artifacts.Artifacts()
	}

	// Tag-push runs release an existing tag; manual runs pin the new tag
	// to the commit that was checked out.
	if st.Trigger.Kind == domain.TriggerKindManual {
		desc.TargetCommitish = st.CommitSHA
	}

	switch s.NotesMode {
	case "", release.NotesModeGenerated:
		return desc, nil
	case release.NotesModeChangelog, release.NotesModeBoth:
	default:
		return nil, errors.Newf(errors.CodePublishFailed, "unknown notes mode %q", s.NotesMode)
	}

	if s.Notes == nil {
		return nil, errors.Newf(errors.CodePublishFailed, "notes mode %q requires repository history", s.NotesMode)
	}

	notes, err := s.Notes.Generate(ctx, st.TagName)
	if err != nil {
		return nil, errors.Wrap(errors.CodePublishFailed, err, "generating release notes")
	}
	desc.Notes = notes.Markdown()
	desc.GenerateNotes = s.NotesMode == release.NotesModeBoth
	return desc, nil
}
