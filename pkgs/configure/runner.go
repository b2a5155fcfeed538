package configure

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Runner executes shell command lines on behalf of a Builder.
type Runner interface {
	// Output returns the standard output of cmdline. Failures are not
	// reported; the caller only looks at what was printed.
	Output(ctx context.Context, cmdline string) string
	// Status returns the exit code of cmdline, or -1 if it could not run.
	Status(ctx context.Context, cmdline string) int
}

// ShellRunner runs command lines through "sh -c" with standard error
// discarded.
type ShellRunner struct {
	// Shell defaults to "sh".
	Shell string

	// Env is the child environment; nil inherits the current process.
	Env []string
}

func (r *ShellRunner) Output(ctx context.Context, cmdline string) string {
	var stdout bytes.Buffer
	cmd := r.command(ctx, cmdline)
	cmd.Stdout = &stdout
	_ = cmd.Run()
	return stdout.String()
}

func (r *ShellRunner) Status(ctx context.Context, cmdline string) int {
	err := r.command(ctx, cmdline).Run()
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func (r *ShellRunner) command(ctx context.Context, cmdline string) *exec.Cmd {
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}
	cmd := exec.CommandContext(ctx, shell, "-c", cmdline)
	cmd.Env = r.Env
	// nil Stdout/Stderr go to the null device
	return cmd
}
