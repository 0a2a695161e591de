package build

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-release/domain"
	"github.com/input-output-hk/catalyst-forge-release/executor"
	fsbilly "github.com/input-output-hk/catalyst-forge-release/fs/billy"
)

type recordedCall struct {
	program string
	args    []string
	options *executor.Options
}

// mockRunner scripts the build command and optionally drops artifacts into
// the filesystem, the way a real build tool would.
type mockRunner struct {
	run   func(program string, args []string) (*executor.Result, error)
	calls []recordedCall
}

func (m *mockRunner) Run(ctx context.Context, program string, args []string, opts ...executor.Option) (*executor.Result, error) {
	options := executor.DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	m.calls = append(m.calls, recordedCall{program: program, args: args, options: options})

	if m.run != nil {
		return m.run(program, args)
	}
	return &executor.Result{}, nil
}

func TestBuild(t *testing.T) {
	fsys := fsbilly.NewInMemoryFS()
	runner := &mockRunner{
		run: func(program string, args []string) (*executor.Result, error) {
			require.NoError(t, fsys.WriteFile("dist/widget-2.3.0-py3-none-any.whl", []byte("wheel"), 0o644))
			require.NoError(t, fsys.WriteFile("dist/widget-2.3.0.tar.gz", []byte("sdist"), 0o644))
			return &executor.Result{Stdout: "Successfully built widget"}, nil
		},
	}

	set, err := New(fsys).Build(context.Background(), runner, "")
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, "python", call.program)
	assert.Equal(t, []string{"-m", "build"}, call.args)

	require.Equal(t, 2, set.Len())
	assert.Equal(t, []string{"widget-2.3.0-py3-none-any.whl", "widget-2.3.0.tar.gz"}, set.Names())
	assert.Equal(t, domain.ArtifactTypeWheel, set.Artifacts()[0].Type)
}

func TestBuild_ExportsKnownVersion(t *testing.T) {
	runner := &mockRunner{}

	_, err := New(fsbilly.NewInMemoryFS()).Build(context.Background(), runner, "2.3.0")
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "2.3.0", runner.calls[0].options.Env[VersionEnvVar])
}

func TestBuild_UnknownVersionNotExported(t *testing.T) {
	runner := &mockRunner{}

	_, err := New(fsbilly.NewInMemoryFS()).Build(context.Background(), runner, "")
	require.NoError(t, err)

	_, exported := runner.calls[0].options.Env[VersionEnvVar]
	assert.False(t, exported)
}

func TestBuild_EmptyOutputIsValid(t *testing.T) {
	set, err := New(fsbilly.NewInMemoryFS()).Build(context.Background(), &mockRunner{}, "")
	require.NoError(t, err)

	assert.True(t, set.Empty())
}

func TestBuild_CommandFailure(t *testing.T) {
	runner := &mockRunner{
		run: func(program string, args []string) (*executor.Result, error) {
			return &executor.Result{ExitCode: 1, Stderr: "ERROR Missing dependencies: hatchling"},
				fmt.Errorf("command execution failed: exit status 1")
		},
	}

	_, err := New(fsbilly.NewInMemoryFS()).Build(context.Background(), runner, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBuildFailed)
	assert.Contains(t, err.Error(), "Missing dependencies")
}

func TestBuild_CustomCommandAndOutputDir(t *testing.T) {
	fsys := fsbilly.NewInMemoryFS()
	runner := &mockRunner{
		run: func(program string, args []string) (*executor.Result, error) {
			require.NoError(t, fsys.WriteFile("build/out/widget.whl", []byte("wheel"), 0o644))
			return &executor.Result{}, nil
		},
	}

	builder := New(fsys,
		WithCommand("hatch", "build"),
		WithOutputDir("build/out"),
	)
	set, err := builder.Build(context.Background(), runner, "")
	require.NoError(t, err)

	assert.Equal(t, "hatch", runner.calls[0].program)
	assert.Equal(t, []string{"build"}, runner.calls[0].args)
	assert.Equal(t, []string{"widget.whl"}, set.Names())
}

func TestBuild_WorkdirScopesCommandAndScan(t *testing.T) {
	fsys := fsbilly.NewInMemoryFS()
	runner := &mockRunner{
		run: func(program string, args []string) (*executor.Result, error) {
			require.NoError(t, fsys.WriteFile("checkout/dist/widget.whl", []byte("wheel"), 0o644))
			return &executor.Result{}, nil
		},
	}

	set, err := New(fsys, WithWorkDir("checkout")).Build(context.Background(), runner, "")
	require.NoError(t, err)

	assert.Equal(t, "checkout", runner.calls[0].options.WorkingDir)
	assert.Equal(t, []string{"widget.whl"}, set.Names())
	assert.Equal(t, "checkout/dist", set.Dir())
}
