// Package pipeline runs the release publication sequence.
//
// A Pipeline executes a fixed, ordered slice of Steps over a shared State.
// Execution is strictly sequential and fail-fast: the first step error ends
// the run, every later step is recorded as skipped, and the failure reaches
// the caller as a *StepError naming the step and carrying its failure code.
// Each run produces a domain.RunReport regardless of outcome, so a failed
// run is as inspectable as a successful one.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/input-output-hk/catalyst-forge-release/artifact"
	"github.com/input-output-hk/catalyst-forge-release/domain"
	"github.com/input-output-hk/catalyst-forge-release/errors"
	"github.com/input-output-hk/catalyst-forge-release/fs"
	"github.com/input-output-hk/catalyst-forge-release/git"
	"github.com/input-output-hk/catalyst-forge-release/release"
	"github.com/input-output-hk/catalyst-forge-release/toolchain"
	"github.com/input-output-hk/catalyst-forge-release/version"
)

// Step names in execution order.
const (
	StepCheckout       = "checkout"
	StepSetupRuntime   = "setup-runtime"
	StepInstallDeps    = "install-deps"
	StepBuild          = "build"
	StepResolveVersion = "resolve-version"
	StepPublish        = "publish"
)

// Step is one stage of a release run. Steps read their inputs from State
// and write their results back for the steps that follow.
type Step interface {
	// Name identifies the step in logs, reports, and errors.
	Name() string

	// Run executes the step. Returned errors carry an errors.ErrorCode
	// classifying the failure.
	Run(ctx context.Context, st *State) error
}

// State is the shared blackboard of one run. Each step consumes what
// earlier steps produced and leaves its own results for the later ones;
// version and tag name travel here as ordinary fields, never through
// process-global environment.
type State struct {
	// Trigger is the event that started the run.
	Trigger domain.TriggerEvent

	// FS is the filesystem the run operates within.
	FS fs.Filesystem

	// Workdir is the checkout root within FS.
	Workdir string

	// Repo is the checked-out repository. Set by the checkout step.
	Repo *git.Repo

	// CommitSHA is the commit the worktree points at after checkout.
	CommitSHA string

	// Env is the provisioned runtime. Set by the setup-runtime step.
	Env *toolchain.Env

	// Artifacts holds the scanned build outputs. Set by the build step.
	Artifacts *artifact.Set

	// Version is the resolved project version. Set by the resolve-version
	// step.
	Version *version.Resolution

	// TagName is the release tag derived from Version.
	TagName string

	// Descriptor is the assembled release descriptor. Set by the publish
	// step, on dry runs too.
	Descriptor *release.Descriptor

	// Release is the published release. Set by the publish step, nil on
	// dry runs.
	Release *release.Published
}

// StepError is a run-terminating failure raised by a step.
type StepError struct {
	// Step is the name of the step that failed.
	Step string

	// Code classifies the failure.
	Code errors.ErrorCode

	// Err is the underlying cause.
	Err error
}

// Error returns the step name with the underlying failure.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StepError) Unwrap() error {
	return e.Err
}

// Pipeline executes steps in order over a shared state.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
	tracer trace.Tracer
	runID  string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger for run progress. Defaults to a discarding
// logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTracer sets the tracer for run and step spans. Defaults to a noop
// tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// WithRunID fixes the run report identifier, which otherwise is a fresh
// UUID per run. Fixing it lets the caller name the run's workspace
// directory after the same identifier.
func WithRunID(id string) Option {
	return func(p *Pipeline) {
		if id != "" {
			p.runID = id
		}
	}
}

// New creates a pipeline over the given steps.
func New(steps []Step, opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:  steps,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer: noop.NewTracerProvider().Tracer("pipeline"),
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes every step in order. The first failure stops execution:
// the remaining steps are recorded as skipped and the failure is returned
// as a *StepError. The report is returned for every outcome, including
// failure and cancellation.
func (p *Pipeline) Run(ctx context.Context, st *State) (*domain.RunReport, error) {
	runID := p.runID
	if runID == "" {
		runID = uuid.NewString()
	}

	started := time.Now().UTC()
	report := &domain.RunReport{
		ID:        runID,
		Trigger:   st.Trigger,
		Status:    domain.RunStatusRunning,
		StartedAt: &started,
		Steps:     make([]domain.StepRecord, 0, len(p.steps)),
	}

	ctx, span := p.tracer.Start(ctx, "release.run", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("trigger.kind", st.Trigger.Kind.String()),
		attribute.String("trigger.tag", st.Trigger.Tag),
	))
	defer span.End()

	p.logger.InfoContext(ctx, "run started",
		"run_id", runID,
		"trigger", st.Trigger.Kind.String(),
		"tag", st.Trigger.Tag,
	)

	var failure *StepError
	for _, step := range p.steps {
		name := step.Name()
		if failure != nil {
			report.Steps = append(report.Steps, domain.StepRecord{
				Name:   name,
				Status: domain.RunStatusSkipped,
			})
			continue
		}

		record, err := p.runStep(ctx, name, step, st)
		report.Steps = append(report.Steps, record)
		if err != nil {
			failure = &StepError{Step: name, Code: errors.Code(err), Err: err}
		}
	}

	completed := time.Now().UTC()
	report.CompletedAt = &completed
	summarize(report, st)

	if failure != nil {
		report.Status = domain.RunStatusFailed
		if canceled(failure.Err) {
			report.Status = domain.RunStatusCancelled
		}
		span.SetStatus(codes.Error, failure.Error())
		p.logger.ErrorContext(ctx, "run failed",
			"run_id", runID,
			"step", failure.Step,
			"code", string(failure.Code),
		)
		return report, failure
	}

	report.Status = domain.RunStatusSuccess
	span.SetStatus(codes.Ok, "")
	p.logger.InfoContext(ctx, "run completed",
		"run_id", runID,
		"tag", report.TagName,
		"artifact_count", report.ArtifactCount,
		"release_url", report.ReleaseURL,
	)
	return report, nil
}

// runStep executes one step inside its own span and returns its record.
func (p *Pipeline) runStep(ctx context.Context, name string, step Step, st *State) (domain.StepRecord, error) {
	stepCtx, span := p.tracer.Start(ctx, "step."+name, trace.WithAttributes(
		attribute.String("step.name", name),
	))
	defer span.End()

	startedAt := time.Now().UTC()
	p.logger.InfoContext(stepCtx, "step started", "step", name)

	err := step.Run(stepCtx, st)

	completedAt := time.Now().UTC()
	record := domain.StepRecord{
		Name:        name,
		Status:      domain.RunStatusSuccess,
		StartedAt:   &startedAt,
		CompletedAt: &completedAt,
	}

	if err != nil {
		record.Status = domain.RunStatusFailed
		if canceled(err) {
			record.Status = domain.RunStatusCancelled
		}
		record.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.ErrorContext(stepCtx, "step failed",
			"step", name,
			"code", string(errors.Code(err)),
			"error", err,
		)
		return record, err
	}

	span.SetStatus(codes.Ok, "")
	p.logger.InfoContext(stepCtx, "step completed",
		"step", name,
		"duration", completedAt.Sub(startedAt),
	)
	return record, nil
}

// summarize copies the step outcomes the report surfaces directly.
func summarize(report *domain.RunReport, st *State) {
	if st.Version != nil {
		report.Version = st.Version.Raw
	}
	report.TagName = st.TagName
	if st.Artifacts != nil {
		report.ArtifactCount = st.Artifacts.Len()
	}
	if st.Release != nil {
		report.ReleaseURL = st.Release.URL
	}
}

// canceled reports whether err stems from context cancellation or expiry.
func canceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
