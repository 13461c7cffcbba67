package entry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llvmmgmt/pkg/command"
	"llvmmgmt/pkg/config"
	"llvmmgmt/pkg/resource"
)

// fakeProvider records fetches and creates the destination directories.
type fakeProvider struct {
	calls []string
}

type fakeResource struct {
	p      *fakeProvider
	url    string
	branch string
}

func (p *fakeProvider) Resolve(url string, opts resource.Options) (resource.Resource, error) {
	return &fakeResource{p: p, url: url, branch: opts.Branch}, nil
}

func (r *fakeResource) Download(_ context.Context, dest string) error {
	r.p.calls = append(r.p.calls, "download "+r.url+" "+r.branch+" "+dest)
	return os.MkdirAll(dest, 0755)
}

func (r *fakeResource) Update(_ context.Context, dest string) error {
	r.p.calls = append(r.p.calls, "update "+r.url+" "+r.branch+" "+dest)
	return nil
}

func newLifecycleCatalog(t *testing.T) (*Catalog, *config.Config, *fakeProvider, *command.Recorder) {
	t.Helper()
	cfg := config.NewTestConfig(t.TempDir())
	p := &fakeProvider{}
	rec := &command.Recorder{}
	return NewCatalog(cfg, p, rec), cfg, p, rec
}

func pinTools(t *testing.T, found ...string) {
	t.Helper()
	orig := command.LookPath
	command.LookPath = func(name string) bool {
		for _, f := range found {
			if f == name {
				return true
			}
		}
		return false
	}
	t.Cleanup(func() { command.LookPath = orig })
}

func TestDirectories(t *testing.T) {
	cat, cfg, _, _ := newLifecycleCatalog(t)

	e, err := cat.NewEntry("llvm-mirror", Setting{URL: "https://github.com/llvm-mirror/llvm"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.GetCacheDir(), "llvm-mirror"), e.SrcDir())
	assert.Equal(t, filepath.Join(cfg.GetCacheDir(), "llvm-mirror", "build"), e.BuildDir())
	assert.Equal(t, filepath.Join(cfg.GetDataDir(), "llvm-mirror"), e.Prefix())

	local, err := cat.NewEntry("mine", Setting{Path: "/src/llvm"})
	require.NoError(t, err)
	assert.Equal(t, "/src/llvm", local.SrcDir())
	assert.Equal(t, filepath.Join("/src/llvm", "build"), local.BuildDir())
	assert.Equal(t, filepath.Join(cfg.GetDataDir(), "mine"), local.Prefix())
}

func TestCheckoutAndUpdate(t *testing.T) {
	cat, _, p, _ := newLifecycleCatalog(t)

	e, err := cat.NewEntry("llvm-mirror", Setting{
		URL: "https://github.com/llvm-mirror/llvm",
		Tools: []Tool{
			{Name: "clang", URL: "https://github.com/llvm-mirror/clang", Branch: "release_60"},
			{Name: "clang-extra", URL: "https://github.com/llvm-mirror/clang-tools-extra", RelativePath: "tools/clang/tools/extra"},
		},
	})
	require.NoError(t, err)

	src := e.SrcDir()
	require.NoError(t, e.Checkout(context.Background()))
	assert.Equal(t, []string{
		"download https://github.com/llvm-mirror/llvm  " + src,
		"download https://github.com/llvm-mirror/clang release_60 " + filepath.Join(src, "tools", "clang"),
		"download https://github.com/llvm-mirror/clang-tools-extra  " + filepath.Join(src, "tools", "clang", "tools", "extra"),
	}, p.calls)

	p.calls = nil
	require.NoError(t, e.Update(context.Background()))
	assert.Equal(t, []string{
		"update https://github.com/llvm-mirror/llvm  " + src,
		"update https://github.com/llvm-mirror/clang release_60 " + filepath.Join(src, "tools", "clang"),
		"update https://github.com/llvm-mirror/clang-tools-extra  " + filepath.Join(src, "tools", "clang", "tools", "extra"),
	}, p.calls)
}

func TestCheckoutUnknownTool(t *testing.T) {
	cat, _, p, _ := newLifecycleCatalog(t)

	e, err := cat.NewEntry("llvm-mirror", Setting{
		URL:   "https://github.com/llvm-mirror/llvm",
		Tools: []Tool{{Name: "mlir", URL: "https://github.com/llvm-mirror/mlir"}},
	})
	require.NoError(t, err)

	err = e.Checkout(context.Background())
	assert.ErrorIs(t, err, ErrUnknownToolPath)
	assert.Len(t, p.calls, 1)
}

func TestCheckoutLocalIsNoop(t *testing.T) {
	cat, _, p, _ := newLifecycleCatalog(t)

	e, err := cat.NewEntry("mine", Setting{Path: "/src/llvm"})
	require.NoError(t, err)
	require.NoError(t, e.Checkout(context.Background()))
	require.NoError(t, e.Update(context.Background()))
	assert.Empty(t, p.calls)
}

func TestConfigureOptions(t *testing.T) {
	cat, _, _, _ := newLifecycleCatalog(t)

	e, err := cat.NewEntry("llvm-mirror", Setting{
		URL:       "https://github.com/llvm-mirror/llvm",
		Target:    []string{"X86", "AArch64"},
		Generator: Ninja{},
		BuildType: Debug,
		Option:    map[string]string{"LLVM_ENABLE_RTTI": "ON", "LLVM_ENABLE_ASSERTIONS": "OFF"},
	})
	require.NoError(t, err)

	pinTools(t, "ccache", "lld")
	assert.Equal(t, []string{
		"-G", "Ninja",
		e.SrcDir(),
		"-DCMAKE_INSTALL_PREFIX=" + e.Prefix(),
		"-DCMAKE_BUILD_TYPE=Debug",
		"-DLLVM_CCACHE_BUILD=ON",
		"-DLLVM_ENABLE_LLD=ON",
		"-DLLVM_TARGETS_TO_BUILD=X86;AArch64",
		"-DLLVM_ENABLE_ASSERTIONS=OFF",
		"-DLLVM_ENABLE_RTTI=ON",
	}, e.ConfigureOptions())

	pinTools(t)
	assert.Equal(t, []string{
		"-G", "Ninja",
		e.SrcDir(),
		"-DCMAKE_INSTALL_PREFIX=" + e.Prefix(),
		"-DCMAKE_BUILD_TYPE=Debug",
		"-DLLVM_TARGETS_TO_BUILD=X86;AArch64",
		"-DLLVM_ENABLE_ASSERTIONS=OFF",
		"-DLLVM_ENABLE_RTTI=ON",
	}, e.ConfigureOptions())
}

func TestConfigureOptionsPlatformDefaults(t *testing.T) {
	cat, _, _, _ := newLifecycleCatalog(t)
	pinTools(t, "lld")

	e, err := cat.NewEntry("llvm-mirror", Setting{URL: "https://github.com/llvm-mirror/llvm"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		e.SrcDir(),
		"-DCMAKE_INSTALL_PREFIX=" + e.Prefix(),
		"-DCMAKE_BUILD_TYPE=Release",
		"-DLLVM_ENABLE_LLD=ON",
	}, e.ConfigureOptions())
}

func TestBuild(t *testing.T) {
	cat, _, _, rec := newLifecycleCatalog(t)
	pinTools(t)

	e, err := cat.NewEntry("llvm-mirror", Setting{
		URL:       "https://github.com/llvm-mirror/llvm",
		Generator: Makefile{},
	})
	require.NoError(t, err)

	require.NoError(t, e.Build(context.Background(), 4))
	assert.DirExists(t, e.BuildDir())
	require.Len(t, rec.Cmds, 2)

	assert.Equal(t, command.Cmd{Name: "cmake", Args: e.ConfigureOptions(), Dir: e.BuildDir()}, rec.Cmds[0])
	assert.Equal(t, command.Cmd{
		Name: "cmake",
		Args: []string{"--build", e.BuildDir(), "--target", "install", "--", "-j", "4"},
	}, rec.Cmds[1])
}

func TestBuildVisualStudioUsesConfig(t *testing.T) {
	cat, _, _, rec := newLifecycleCatalog(t)
	pinTools(t)

	e, err := cat.NewEntry("llvm-mirror", Setting{URL: "https://github.com/llvm-mirror/llvm"})
	require.NoError(t, err)
	require.NoError(t, e.SetBuilder("vs"))
	e.SetBuildType(RelWithDebInfo)

	require.NoError(t, e.Build(context.Background(), 4))
	require.Len(t, rec.Cmds, 2)
	assert.Equal(t, []string{"--build", e.BuildDir(), "--target", "install", "--config", "RelWithDebInfo"}, rec.Cmds[1].Args)
}

func TestBuildStopsWhenConfigureFails(t *testing.T) {
	cat, _, _, rec := newLifecycleCatalog(t)
	rec.Fail = map[string]bool{"cmake": true}

	e, err := cat.NewEntry("llvm-mirror", Setting{URL: "https://github.com/llvm-mirror/llvm"})
	require.NoError(t, err)

	err = e.Build(context.Background(), 4)
	require.Error(t, err)
	var exitErr *command.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Len(t, rec.Cmds, 1)
}

func TestClean(t *testing.T) {
	cat, _, _, _ := newLifecycleCatalog(t)

	e, err := cat.NewEntry("llvm-mirror", Setting{URL: "https://github.com/llvm-mirror/llvm"})
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(e.BuildDir(), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(e.SrcDir(), "CMakeLists.txt"), nil, 0644))

	require.NoError(t, e.CleanBuildDir())
	assert.NoDirExists(t, e.BuildDir())
	assert.DirExists(t, e.SrcDir())

	require.NoError(t, e.CleanCacheDir())
	assert.NoDirExists(t, e.SrcDir())

	src := t.TempDir()
	local, err := cat.NewEntry("mine", Setting{Path: src})
	require.NoError(t, err)
	assert.True(t, IsInvalidEntry(local.CleanCacheDir()))
	assert.DirExists(t, src)
}
