package command

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"
)

func TestExecRunnerExitError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	r := &ExecRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	err := r.Run(context.Background(), Cmd{Name: "sh", Args: []string{"-c", "exit 3"}})

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %v", err)
	}
	if exitErr.Code != 3 {
		t.Errorf("code = %d, want 3", exitErr.Code)
	}
	if !errors.Is(err, ErrCommandFailed) {
		t.Errorf("expected errors.Is ErrCommandFailed")
	}
}

func TestExecRunnerOutput(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	r := &ExecRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	out, err := r.Output(context.Background(), Cmd{Name: "sh", Args: []string{"-c", "echo 10.0.0"}})
	if err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if out != "10.0.0\n" {
		t.Errorf("out = %q", out)
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	r := NewExecRunner(nil, nil)
	if r.Stdout == nil || r.Stderr == nil {
		t.Fatal("nil writers should fall back to the process streams")
	}
	err := r.Run(context.Background(), Cmd{Name: "llvmmgmt-no-such-binary"})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrCommandFailed) {
		t.Errorf("a missing binary is a start failure, not an exit status")
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{Fail: map[string]bool{"cmake": true}}
	if err := r.Run(context.Background(), Cmd{Name: "svn", Args: []string{"update"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Run(context.Background(), Cmd{Name: "cmake"}); err == nil {
		t.Fatalf("expected failure")
	}
	if len(r.Cmds) != 2 || r.Cmds[0].String() != "svn update" {
		t.Errorf("recorded = %+v", r.Cmds)
	}
}
