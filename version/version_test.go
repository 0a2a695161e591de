package version

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-release/executor"
	fsbilly "github.com/input-output-hk/catalyst-forge-release/fs/billy"
)

// mockRunner scripts the command source.
type mockRunner struct {
	run   func(program string, args []string) (*executor.Result, error)
	calls int
}

func (m *mockRunner) Run(ctx context.Context, program string, args []string, opts ...executor.Option) (*executor.Result, error) {
	m.calls++
	if m.run != nil {
		return m.run(program, args)
	}
	return &executor.Result{}, nil
}

func writeProject(t *testing.T, fsys *fsbilly.FS, files map[string]string) {
	t.Helper()

	for path, content := range files {
		require.NoError(t, fsys.WriteFile(path, []byte(content), 0o644))
	}
}

func TestResolve_ProjectVersion(t *testing.T) {
	fsys := fsbilly.NewInMemoryFS()
	writeProject(t, fsys, map[string]string{
		"pyproject.toml": "[project]\nname = \"widget\"\nversion = \"2.3.0\"\n",
	})

	res, err := New(fsys).Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2.3.0", res.Raw)
	assert.Equal(t, "2.3.0", res.Version.String())
	assert.Equal(t, SourcePyproject, res.Source)
	assert.Equal(t, "pyproject.toml:project.version", res.Origin)
	assert.Equal(t, "v2.3.0", res.TagName())
}

func TestResolve_PoetryVersion(t *testing.T) {
	fsys := fsbilly.NewInMemoryFS()
	writeProject(t, fsys, map[string]string{
		"pyproject.toml": "[tool.poetry]\nname = \"widget\"\nversion = \"1.8.5\"\n",
	})

	res, err := New(fsys).Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "1.8.5", res.Raw)
	assert.Equal(t, "pyproject.toml:tool.poetry.version", res.Origin)
}

func TestResolve_ProjectVersionWinsOverPoetry(t *testing.T) {
	fsys := fsbilly.NewInMemoryFS()
	writeProject(t, fsys, map[string]string{
		"pyproject.toml": "[project]\nversion = \"2.3.0\"\n\n[tool.poetry]\nversion = \"9.9.9\"\n",
	})

	res, err := New(fsys).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.3.0", res.Raw)
}

func TestResolve_DynamicVersionFallsThroughToFile(t *testing.T) {
	fsys := fsbilly.NewInMemoryFS()
	writeProject(t, fsys, map[string]string{
		"pyproject.toml":      "[project]\nname = \"widget\"\ndynamic = [\"version\"]\n",
		"widget/__init__.py":  "__version__ = \"2.3.0\"\n",
		"widget/unrelated.py": "value = \"0.0.1\"\n",
	})

	res, err := New(fsys, WithVersionFile("widget/__init__.py")).Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2.3.0", res.Raw)
	assert.Equal(t, SourceFile, res.Source)
	assert.Equal(t, "widget/__init__.py", res.Origin)
}

func TestResolve_VersionFileSingleQuotes(t *testing.T) {
	fsys := fsbilly.NewInMemoryFS()
	writeProject(t, fsys, map[string]string{
		"widget/__init__.py": "__version__ = '4.1.0'\n",
	})

	res, err := New(fsys, WithVersionFile("widget/__init__.py")).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "4.1.0", res.Raw)
}

func TestResolve_WorkdirScopesPaths(t *testing.T) {
	fsys := fsbilly.NewInMemoryFS()
	writeProject(t, fsys, map[string]string{
		"checkout/pyproject.toml": "[project]\nversion = \"2.3.0\"\n",
	})

	res, err := New(fsys, WithWorkDir("checkout")).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.3.0", res.Raw)
}

func TestResolve_CommandSource(t *testing.T) {
	fsys := fsbilly.NewInMemoryFS()
	runner := &mockRunner{
		run: func(program string, args []string) (*executor.Result, error) {
			return &executor.Result{Stdout: "running check\n2.3.0\n"}, nil
		},
	}

	res, err := New(fsys,
		WithCommand("hatch", "version"),
		WithRunner(runner),
	).Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2.3.0", res.Raw)
	assert.Equal(t, SourceCommand, res.Source)
	assert.Equal(t, "hatch version", res.Origin)
	assert.Equal(t, 1, runner.calls)
}

func TestResolve_CommandFailure(t *testing.T) {
	runner := &mockRunner{
		run: func(program string, args []string) (*executor.Result, error) {
			return &executor.Result{ExitCode: 1}, fmt.Errorf("command execution failed: exit status 1")
		},
	}

	_, err := New(fsbilly.NewInMemoryFS(),
		WithCommand("hatch", "version"),
		WithRunner(runner),
	).Resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hatch version")
}

func TestResolve_CommandEmptyOutput(t *testing.T) {
	runner := &mockRunner{
		run: func(program string, args []string) (*executor.Result, error) {
			return &executor.Result{Stdout: "  \n"}, nil
		},
	}

	_, err := New(fsbilly.NewInMemoryFS(),
		WithCommand("hatch", "version"),
		WithRunner(runner),
	).Resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "produced no output")
}

func TestResolve_CommandWithoutRunner(t *testing.T) {
	_, err := New(fsbilly.NewInMemoryFS(), WithCommand("hatch", "version")).Resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without a runner")
}

func TestResolve_NoSourceProducesVersion(t *testing.T) {
	_, err := New(fsbilly.NewInMemoryFS()).Resolve(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoVersion)
}

func TestResolve_InvalidVersionIsFatal(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{name: "not a version", version: "two point three"},
		{name: "tag-style prefix", version: "v2.3.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fsbilly.NewInMemoryFS()
			writeProject(t, fsys, map[string]string{
				"pyproject.toml": fmt.Sprintf("[project]\nversion = %q\n", tt.version),
			})

			_, err := New(fsys).Resolve(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidVersion)
		})
	}
}

func TestResolve_PrereleaseAllowed(t *testing.T) {
	fsys := fsbilly.NewInMemoryFS()
	writeProject(t, fsys, map[string]string{
		"pyproject.toml": "[project]\nversion = \"2.3.0-rc.1\"\n",
	})

	res, err := New(fsys).Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2.3.0-rc.1", res.Raw)
	assert.Equal(t, "rc.1", res.Version.Prerelease())
	assert.Equal(t, "v2.3.0-rc.1", res.TagName())
}

func TestResolve_MalformedTOMLIsFatal(t *testing.T) {
	fsys := fsbilly.NewInMemoryFS()
	writeProject(t, fsys, map[string]string{
		"pyproject.toml": "[project\nversion = \"2.3.0\"\n",
	})

	_, err := New(fsys).Resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}

func TestResolve_ConfiguredFileMissingIsFatal(t *testing.T) {
	_, err := New(fsbilly.NewInMemoryFS(), WithVersionFile("widget/__init__.py")).Resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading version file")
}

func TestResolve_PatternWithoutCaptureGroup(t *testing.T) {
	fsys := fsbilly.NewInMemoryFS()
	writeProject(t, fsys, map[string]string{
		"widget/__init__.py": "__version__ = \"2.3.0\"\n",
	})

	_, err := New(fsys,
		WithVersionFile("widget/__init__.py"),
		WithPattern(`__version__`),
	).Resolve(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestResolve_PatternNotMatchingFallsThrough(t *testing.T) {
	fsys := fsbilly.NewInMemoryFS()
	writeProject(t, fsys, map[string]string{
		"widget/__init__.py": "VERSION = (2, 3, 0)\n",
	})
	runner := &mockRunner{
		run: func(program string, args []string) (*executor.Result, error) {
			return &executor.Result{Stdout: "2.3.0\n"}, nil
		},
	}

	res, err := New(fsys,
		WithVersionFile("widget/__init__.py"),
		WithCommand("hatch", "version"),
		WithRunner(runner),
	).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceCommand, res.Source)
}

func TestLastLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "single line", in: "2.3.0\n", want: "2.3.0"},
		{name: "noise above", in: "warning: deprecated\n2.3.0\n", want: "2.3.0"},
		{name: "trailing blanks", in: "2.3.0\n\n  \n", want: "2.3.0"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lastLine(tt.in))
		})
	}
}
