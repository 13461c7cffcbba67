package resource

import (
	"context"
	"log/slog"

	"llvmmgmt/pkg/command"
)

// Immutable
type svnResource struct {
	url    string
	runner command.Runner
}

func (s *svnResource) Download(ctx context.Context, dest string) error {
	if exists(dest) {
		slog.Info("Already exists, skip checkout", "path", dest)
		return nil
	}
	slog.Info("SVN checkout", "url", s.url, "path", dest)
	return s.runner.Run(ctx, command.Cmd{Name: "svn", Args: []string{"co", "-q", s.url, dest}})
}

func (s *svnResource) Update(ctx context.Context, dest string) error {
	slog.Info("SVN update", "path", dest)
	return s.runner.Run(ctx, command.Cmd{Name: "svn", Args: []string{"update", "-q"}, Dir: dest})
}
