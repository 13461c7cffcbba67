package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"llvmmgmt/pkg/display"
)

// Immutable
type gitResource struct {
	url    string
	branch string
	disp   display.Display
}

func (g *gitResource) Download(ctx context.Context, dest string) error {
	if exists(dest) {
		slog.Info("Already exists, skip clone", "path", dest)
		return nil
	}

	task := g.disp.StartTask("git")
	defer task.Done()
	task.SetStage("Clone", g.url)

	opts := &git.CloneOptions{
		URL:      g.url,
		Depth:    1,
		Progress: &progressLines{task: task},
	}
	if g.branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(g.branch)
		opts.SingleBranch = true
	}

	slog.Info("Git clone", "url", g.url, "branch", g.branch, "path", dest)
	if _, err := git.PlainCloneContext(ctx, dest, false, opts); err != nil {
		os.RemoveAll(dest)
		return fmt.Errorf("failed to clone repository %s: %w", g.url, err)
	}
	return nil
}

func (g *gitResource) Update(ctx context.Context, dest string) error {
	repo, err := git.PlainOpen(dest)
	if err != nil {
		return fmt.Errorf("failed to open repository %s: %w", dest, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}

	task := g.disp.StartTask("git")
	defer task.Done()
	task.SetStage("Pull", dest)

	opts := &git.PullOptions{
		RemoteName: "origin",
		Depth:      1,
		Progress:   &progressLines{task: task},
	}
	if g.branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(g.branch)
		opts.SingleBranch = true
	}

	slog.Info("Git pull", "path", dest)
	err = wt.PullContext(ctx, opts)
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		slog.Info("Already up to date", "path", dest)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to pull %s: %w", dest, err)
	}
	return nil
}

// progressLines forwards git sideband progress to a task.
type progressLines struct {
	task display.Task
}

func (p *progressLines) Write(b []byte) (int, error) {
	line := strings.TrimSpace(strings.ReplaceAll(string(b), "\r", "\n"))
	if i := strings.LastIndex(line, "\n"); i >= 0 {
		line = line[i+1:]
	}
	if line != "" {
		p.task.Progress(0, line)
	}
	return len(b), nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
