package toolchain

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/input-output-hk/catalyst-forge-release/executor"
	"github.com/input-output-hk/catalyst-forge-release/fs"
)

// Env is a provisioned run environment. Commands executed through it resolve
// programs from the environment's bin directory first, the way an activated
// venv would.
type Env struct {
	// Interpreter is the base interpreter the environment was built from.
	Interpreter Interpreter

	// Python is the interpreter invocation for this environment: the venv's
	// python binary, or the host interpreter name when isolation is off.
	Python string

	// VenvDir is the environment directory; empty when isolation is off.
	VenvDir string

	binDir  string
	workdir string
	exec    executor.Runner
	logger  *slog.Logger
}

// Exec runs a program inside the environment. Programs present in the
// environment's bin directory are invoked from there; PATH and VIRTUAL_ENV
// are set so subprocesses resolve the same way. Caller options are applied
// after the environment's own and therefore win.
func (e *Env) Exec(ctx context.Context, program string, args []string, opts ...executor.Option) (*executor.Result, error) {
	envOpts := []executor.Option{
		executor.WithWorkingDir(e.workdir),
	}

	if e.binDir != "" {
		envOpts = append(envOpts,
			executor.WithEnvVar("VIRTUAL_ENV", e.VenvDir),
			executor.WithEnvVar("PATH", e.binDir+string(os.PathListSeparator)+os.Getenv("PATH")),
		)
		program = e.resolveProgram(program)
	}

	e.logger.DebugContext(ctx, "executing in environment",
		"program", program, "args", strings.Join(args, " "))

	return e.exec.Run(ctx, program, args, append(envOpts, opts...)...)
}

// Run implements executor.Runner so an Env can stand in anywhere a plain
// runner is accepted.
func (e *Env) Run(ctx context.Context, program string, args []string, opts ...executor.Option) (*executor.Result, error) {
	return e.Exec(ctx, program, args, opts...)
}

// resolveProgram maps a bare program name to the environment's bin directory
// when the binary exists there. Subprocess spawning resolves through the
// child PATH, but the program itself must be addressed directly.
func (e *Env) resolveProgram(program string) string {
	if filepath.IsAbs(program) || strings.ContainsRune(program, os.PathSeparator) {
		return program
	}

	candidate := filepath.Join(e.binDir, program)
	if ok, err := fs.Exists(candidate); err == nil && ok {
		return candidate
	}
	return program
}
