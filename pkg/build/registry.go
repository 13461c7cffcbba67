package build

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"llvmmgmt/pkg/command"
	"llvmmgmt/pkg/config"
	"llvmmgmt/pkg/display"
	"llvmmgmt/pkg/version"
)

// Registry finds builds below the data directory.
// Immutable
type Registry struct {
	cfg    config.ReadOnly
	runner command.Runner
	disp   display.Display
}

func NewRegistry(cfg config.ReadOnly, runner command.Runner, disp display.Display) *Registry {
	return &Registry{cfg: cfg, runner: runner, disp: disp}
}

// System is the synthetic build for the platform's LLVM.
func (r *Registry) System() Build {
	return Build{Name: SystemName, Prefix: r.cfg.GetSystemPrefix()}
}

// FromName returns the build called name, whether installed or not.
func (r *Registry) FromName(name string) (Build, error) {
	if name == SystemName {
		return r.System(), nil
	}
	if err := ValidateName(name); err != nil {
		return Build{}, err
	}
	return Build{Name: name, Prefix: filepath.Join(r.cfg.GetDataDir(), name)}, nil
}

// Get returns the installed build called name.
func (r *Registry) Get(name string) (Build, error) {
	b, err := r.FromName(name)
	if err != nil {
		return Build{}, err
	}
	if !b.Exists() {
		return Build{}, &InvalidBuildError{Name: name, Message: "not installed"}
	}
	return b, nil
}

// Builds lists the installed builds sorted by name, after the system build.
// A build is any directory of the data dir with a bin/ subdirectory.
func (r *Registry) Builds() ([]Build, error) {
	bins, err := filepath.Glob(filepath.Join(r.cfg.GetDataDir(), "*", "bin"))
	if err != nil {
		return nil, err
	}

	var builds []Build
	for _, bin := range bins {
		if info, err := os.Stat(bin); err != nil || !info.IsDir() {
			continue
		}
		prefix := filepath.Dir(bin)
		builds = append(builds, Build{Name: filepath.Base(prefix), Prefix: prefix})
	}
	sort.Slice(builds, func(i, j int) bool { return builds[i].Name < builds[j].Name })
	return append([]Build{r.System()}, builds...), nil
}

// Seek resolves the active build for cwd. The nearest ancestor of cwd
// (cwd included) with a marker naming an installed build wins, then the
// global marker, then the system build. Markers naming missing builds are
// skipped.
func (r *Registry) Seek(cwd string) (Build, error) {
	dir, err := filepath.Abs(cwd)
	if err != nil {
		return Build{}, err
	}
	for {
		if b, ok := r.readMarker(filepath.Join(dir, config.MarkerFileName)); ok {
			return b, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if b, ok := r.readMarker(r.cfg.GetGlobalMarker()); ok {
		return b, nil
	}
	return r.System(), nil
}

func (r *Registry) readMarker(path string) (Build, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Ignore unreadable marker", "path", path, "error", err)
		}
		return Build{}, false
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return Build{}, false
	}
	b, err := r.FromName(name)
	if err != nil {
		slog.Debug("Ignore marker with invalid build name", "path", path, "error", err)
		return Build{}, false
	}
	if !b.Exists() {
		slog.Debug("Ignore marker of missing build", "path", path, "build", name)
		return Build{}, false
	}
	b.Marker = path
	return b, true
}

// SetLocal makes b the active build for dir and its descendants.
func (r *Registry) SetLocal(b Build, dir string) error {
	return writeMarker(filepath.Join(dir, config.MarkerFileName), b.Name)
}

// SetGlobal makes b the active build wherever no local marker applies.
func (r *Registry) SetGlobal(b Build) error {
	path := r.cfg.GetGlobalMarker()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return config.WrapPath("mkdir", filepath.Dir(path), err)
	}
	return writeMarker(path, b.Name)
}

func writeMarker(path, name string) error {
	slog.Info("Write marker", "path", path, "build", name)
	return config.WrapPath("write", path, os.WriteFile(path, []byte(name), 0644))
}

// Uninstall removes an installed build. The system build cannot be removed.
func (r *Registry) Uninstall(b Build) error {
	if b.IsSystem() {
		return &InvalidBuildError{Name: b.Name, Message: "the system build is not managed by llvmmgmt"}
	}
	if err := ValidateName(b.Name); err != nil {
		return err
	}
	if b.Prefix != filepath.Join(r.cfg.GetDataDir(), b.Name) {
		return &InvalidBuildError{Name: b.Name, Message: "prefix is outside the data directory"}
	}
	slog.Info("Remove build dir", "path", b.Prefix)
	return config.WrapPath("remove", b.Prefix, os.RemoveAll(b.Prefix))
}

// Version asks the build's llvm-config for its version.
func (r *Registry) Version(ctx context.Context, b Build) (*semver.Version, error) {
	out, err := r.runner.Output(ctx, command.Cmd{Name: b.LLVMConfig(), Args: []string{"--version"}})
	if err != nil {
		return nil, err
	}
	return version.Parse(out)
}
