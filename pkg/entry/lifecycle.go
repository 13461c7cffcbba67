package entry

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"llvmmgmt/pkg/command"
	"llvmmgmt/pkg/config"
	"llvmmgmt/pkg/resource"
)

// SrcDir is the source tree: the cache dir entry for remote entries,
// the configured path for local ones.
func (e *Entry) SrcDir() string {
	if e.kind == Local {
		return e.path
	}
	return filepath.Join(e.cat.cfg.GetCacheDir(), e.name)
}

func (e *Entry) BuildDir() string {
	return filepath.Join(e.SrcDir(), "build")
}

// Prefix is the install prefix, CMAKE_INSTALL_PREFIX.
func (e *Entry) Prefix() string {
	return filepath.Join(e.cat.cfg.GetDataDir(), e.name)
}

type fetchFunc func(ctx context.Context, r resource.Resource, dest string) error

// Checkout downloads the primary source and then every tool below it.
// Local entries have nothing to fetch.
func (e *Entry) Checkout(ctx context.Context) error {
	return e.fetch(ctx, "Checkout", func(ctx context.Context, r resource.Resource, dest string) error {
		return r.Download(ctx, dest)
	})
}

// Update refreshes the primary source and every tool.
func (e *Entry) Update(ctx context.Context) error {
	return e.fetch(ctx, "Update", func(ctx context.Context, r resource.Resource, dest string) error {
		return r.Update(ctx, dest)
	})
}

func (e *Entry) fetch(ctx context.Context, op string, fn fetchFunc) error {
	if e.kind == Local {
		slog.Debug("Local entry, nothing to fetch", "entry", e.name, "path", e.path)
		return nil
	}

	src := e.SrcDir()
	slog.Info(op, "entry", e.name, "url", e.url, "path", src)
	r, err := e.cat.resources.Resolve(e.url, resource.Options{})
	if err != nil {
		return err
	}
	if err := fn(ctx, r, src); err != nil {
		return fmt.Errorf("%s %s: %w", strings.ToLower(op), e.name, err)
	}

	for _, tool := range e.setting.Tools {
		rel, err := tool.RelPath()
		if err != nil {
			return err
		}
		dest := filepath.Join(src, filepath.FromSlash(rel))
		slog.Info(op, "tool", tool.Name, "url", tool.URL, "path", dest)
		r, err := e.cat.resources.Resolve(tool.URL, resource.Options{Branch: tool.Branch})
		if err != nil {
			return err
		}
		if err := fn(ctx, r, dest); err != nil {
			return fmt.Errorf("%s %s tool %s: %w", strings.ToLower(op), e.name, tool.Name, err)
		}
	}
	return nil
}

// ConfigureOptions returns the cmake arguments used to generate the build files.
func (e *Entry) ConfigureOptions() []string {
	s := e.setting
	opts := slices.Clone(s.generator().ConfigureOptions())
	opts = append(opts,
		e.SrcDir(),
		"-DCMAKE_INSTALL_PREFIX="+e.Prefix(),
		"-DCMAKE_BUILD_TYPE="+s.BuildType.String(),
	)
	if command.LookPath("ccache") {
		opts = append(opts, "-DLLVM_CCACHE_BUILD=ON")
	}
	if command.LookPath("lld") {
		opts = append(opts, "-DLLVM_ENABLE_LLD=ON")
	}
	if len(s.Target) > 0 {
		opts = append(opts, "-DLLVM_TARGETS_TO_BUILD="+strings.Join(s.Target, ";"))
	}
	for _, k := range slices.Sorted(maps.Keys(s.Option)) {
		opts = append(opts, fmt.Sprintf("-D%s=%s", k, s.Option[k]))
	}
	return opts
}

// Configure runs cmake inside the build directory, creating it if needed.
func (e *Entry) Configure(ctx context.Context) error {
	dir := e.BuildDir()
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		slog.Info("Create build dir", "path", dir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return config.WrapPath("mkdir", dir, err)
		}
	}
	return e.cat.runner.Run(ctx, command.Cmd{Name: "cmake", Args: e.ConfigureOptions(), Dir: dir})
}

// Build configures the entry, then builds and installs it into Prefix.
// nproc is handed to the underlying build tool.
func (e *Entry) Build(ctx context.Context, nproc int) error {
	if err := e.Configure(ctx); err != nil {
		return err
	}
	args := []string{"--build", e.BuildDir(), "--target", "install"}
	args = append(args, e.setting.generator().BuildOptions(nproc, e.setting.BuildType)...)
	return e.cat.runner.Run(ctx, command.Cmd{Name: "cmake", Args: args})
}

// CleanCacheDir removes the downloaded source directory. The source tree of
// a local entry belongs to the user and is never removed.
func (e *Entry) CleanCacheDir() error {
	if e.kind == Local {
		return &InvalidEntryError{Name: e.name, Message: "local source directory is not managed by llvmmgmt"}
	}
	dir := e.SrcDir()
	slog.Info("Remove cache dir", "path", dir)
	return config.WrapPath("remove", dir, os.RemoveAll(dir))
}

// CleanBuildDir removes the build directory.
func (e *Entry) CleanBuildDir() error {
	dir := e.BuildDir()
	slog.Info("Remove build dir", "path", dir)
	return config.WrapPath("remove", dir, os.RemoveAll(dir))
}
