// Package command runs the external tools llvmmgmt delegates to (cmake, svn)
// and reports their failures as a single error carrying the exit status.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// ErrCommandFailed is the sentinel wrapped by ExitError.
var ErrCommandFailed = errors.New("external command failed")

// Cmd describes one external invocation.
type Cmd struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
}

func (c Cmd) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// ExitError is returned when a command exits with a non-zero status.
type ExitError struct {
	Cmd  Cmd
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", e.Cmd.String(), e.Code)
}

// Unwrap returns ErrCommandFailed so callers can use errors.Is.
func (e *ExitError) Unwrap() error { return ErrCommandFailed }

// Runner runs commands to completion.
type Runner interface {
	Run(ctx context.Context, cmd Cmd) error
	// Output runs cmd and returns its standard output.
	Output(ctx context.Context, cmd Cmd) (string, error)
}

// ExecRunner runs commands with os/exec, streaming their output to Stdout/Stderr.
// Immutable
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner streaming to stdout and stderr. Nil writers
// fall back to the process's own.
func NewExecRunner(stdout, stderr io.Writer) *ExecRunner {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &ExecRunner{Stdout: stdout, Stderr: stderr}
}

func (r *ExecRunner) Run(ctx context.Context, c Cmd) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	slog.Debug("Run", "cmd", c.String(), "dir", c.Dir)
	return check(c, cmd.Run())
}

func (r *ExecRunner) Output(ctx context.Context, c Cmd) (string, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stderr = r.Stderr
	out, err := cmd.Output()
	if err := check(c, err); err != nil {
		return "", err
	}
	return string(out), nil
}

func check(c Cmd, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Cmd: c, Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("failed to start %s: %w", c.Name, err)
}

// LookPath reports whether an executable is discoverable on PATH.
// It is a variable so tests can pin tool discovery.
var LookPath = func(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
