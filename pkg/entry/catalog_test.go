package entry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userEntries = `
[llvm-mirror]
url    = "https://github.com/llvm-mirror/llvm"
target = ["X86", "AArch64"]
generator = "Ninja"
build_type = "Debug"

[llvm-mirror.option]
LLVM_ENABLE_ASSERTIONS = "ON"

[[llvm-mirror.tools]]
name = "clang"
url = "https://github.com/llvm-mirror/clang"
branch = "release_60"

[[llvm-mirror.tools]]
name = "clang-extra"
url = "https://github.com/llvm-mirror/clang-tools-extra"
relative_path = "tools/clang/tools/extra"

[my-local-llvm]
path = "/src/llvm"
target = ["X86"]
`

func writeEntryFile(t *testing.T, cat *Catalog, text string) {
	t.Helper()
	path := cat.cfg.GetEntryFile()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
}

func TestLoadEntryTOML(t *testing.T) {
	cat, _ := newTestCatalog(t)

	entries, err := cat.LoadEntryTOML(userEntries)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	remote := entries[0]
	assert.Equal(t, "llvm-mirror", remote.Name())
	assert.Equal(t, Remote, remote.Kind())
	assert.Equal(t, "https://github.com/llvm-mirror/llvm", remote.URL())

	s := remote.Setting()
	assert.Equal(t, []string{"X86", "AArch64"}, s.Target)
	assert.Equal(t, Ninja{}, s.Generator)
	assert.Equal(t, Debug, s.BuildType)
	assert.Equal(t, map[string]string{"LLVM_ENABLE_ASSERTIONS": "ON"}, s.Option)
	require.Len(t, remote.Tools(), 2)
	assert.Equal(t, Tool{Name: "clang", URL: "https://github.com/llvm-mirror/clang", Branch: "release_60"}, remote.Tools()[0])
	assert.Equal(t, "tools/clang/tools/extra", remote.Tools()[1].RelativePath)

	local := entries[1]
	assert.Equal(t, "my-local-llvm", local.Name())
	assert.Equal(t, Local, local.Kind())
	assert.Equal(t, "/src/llvm", local.Path())
	assert.Equal(t, Release, local.Setting().BuildType)
}

func TestLoadEntryTOMLErrors(t *testing.T) {
	cat, _ := newTestCatalog(t)

	tests := []struct {
		name string
		text string
		want error
	}{
		{"malformed", "[llvm\nurl = ", nil},
		{"both", "[a]\nurl = \"https://github.com/llvm-mirror/llvm\"\npath = \"/src\"\n", ErrInvalidEntry},
		{"neither", "[a]\ntarget = [\"X86\"]\n", ErrInvalidEntry},
		{"generator", "[a]\npath = \"/src\"\ngenerator = \"scons\"\n", ErrUnsupportedGenerator},
		{"build type", "[a]\npath = \"/src\"\nbuild_type = \"Fast\"\n", ErrUnsupportedBuildType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cat.LoadEntryTOML(tt.text)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}

	// One bad entry fails the whole load.
	_, err := cat.LoadEntryTOML(userEntries + "\n[broken]\n")
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func findOfficial(t *testing.T, cat *Catalog, name string) *Entry {
	t.Helper()
	for _, e := range cat.OfficialReleases() {
		if e.Name() == name {
			return e
		}
	}
	t.Fatalf("no official release %s", name)
	return nil
}

func toolByName(t *testing.T, e *Entry, name string) Tool {
	t.Helper()
	for _, tool := range e.Tools() {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("%s has no tool %s", e.Name(), name)
	return Tool{}
}

func TestOfficialReleases(t *testing.T) {
	cat, _ := newTestCatalog(t)

	entries := cat.OfficialReleases()
	require.Len(t, entries, 37)
	assert.Equal(t, "21.1.1", entries[0].Name())
	assert.Equal(t, "3.9.0", entries[len(entries)-1].Name())

	for _, e := range entries {
		assert.True(t, e.IsOfficial(), e.Name())
		require.NotNil(t, e.Version(), e.Name())
		assert.Equal(t, e.Name(), e.Version().String())
		assert.Equal(t, Remote, e.Kind())
		assert.Len(t, e.Tools(), 10, e.Name())
		for _, tool := range e.Tools() {
			_, err := tool.RelPath()
			assert.NoError(t, err)
		}
	}
}

func TestOfficialReleaseURLs(t *testing.T) {
	cat, _ := newTestCatalog(t)

	tests := []struct {
		name string
		base string
	}{
		{"8.0.0", "http://releases.llvm.org/8.0.0"},
		{"8.0.1", "https://github.com/llvm/llvm-project/releases/download/llvmorg-8.0.1"},
		{"9.0.0", "http://releases.llvm.org/9.0.0"},
		{"9.0.1", "https://github.com/llvm/llvm-project/releases/download/llvmorg-9.0.1"},
		{"3.9.0", "http://releases.llvm.org/3.9.0"},
		{"21.1.1", "https://github.com/llvm/llvm-project/releases/download/llvmorg-21.1.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := findOfficial(t, cat, tt.name)
			assert.Equal(t, tt.base+"/llvm-"+tt.name+".src.tar.xz", e.URL())
			assert.Equal(t, tt.base+"/lld-"+tt.name+".src.tar.xz", toolByName(t, e, "lld").URL)
		})
	}
}

func TestOfficialReleaseClangName(t *testing.T) {
	cat, _ := newTestCatalog(t)

	clang := toolByName(t, findOfficial(t, cat, "9.0.0"), "clang")
	assert.True(t, strings.HasSuffix(clang.URL, "/cfe-9.0.0.src.tar.xz"), clang.URL)
	assert.Equal(t, "tools/clang", clang.RelativePath)

	clang = toolByName(t, findOfficial(t, cat, "9.0.1"), "clang")
	assert.True(t, strings.HasSuffix(clang.URL, "/clang-9.0.1.src.tar.xz"), clang.URL)
}

func TestOfficialReleaseRuntimeLayout(t *testing.T) {
	cat, _ := newTestCatalog(t)

	tests := []struct {
		name string
		dir  string
	}{
		{"10.0.0", "projects"},
		{"10.0.1", "projects"},
		{"11.0.0", "runtimes"},
		{"18.1.8", "runtimes"},
	}
	for _, tt := range tests {
		e := findOfficial(t, cat, tt.name)
		for _, rt := range []string{"compiler-rt", "libcxx", "libcxxabi", "libunwind"} {
			assert.Equal(t, tt.dir+"/"+rt, toolByName(t, e, rt).RelativePath, tt.name)
		}
		assert.Equal(t, "projects/openmp", toolByName(t, e, "openmp").RelativePath, tt.name)
	}
}

func TestLoadEntries(t *testing.T) {
	cat, _ := newTestCatalog(t)

	// Without entry.toml only the official releases are known.
	entries, err := cat.LoadEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 37)

	writeEntryFile(t, cat, userEntries)
	entries, err = cat.LoadEntries()
	require.NoError(t, err)
	require.Len(t, entries, 39)
	assert.Equal(t, "llvm-mirror", entries[0].Name())
	assert.Equal(t, "my-local-llvm", entries[1].Name())
	assert.Equal(t, "21.1.1", entries[2].Name())
}

func TestLoadEntry(t *testing.T) {
	cat, _ := newTestCatalog(t)
	writeEntryFile(t, cat, userEntries)

	e, err := cat.LoadEntry("10.0.0")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0", e.Name())

	e, err = cat.LoadEntry("llvm-mirror")
	require.NoError(t, err)
	assert.Equal(t, "llvm-mirror", e.Name())

	// Newest release satisfying the requirement.
	e, err = cat.LoadEntry("^10")
	require.NoError(t, err)
	assert.Equal(t, "10.0.1", e.Name())

	e, err = cat.LoadEntry("~9.0.0")
	require.NoError(t, err)
	assert.Equal(t, "9.0.1", e.Name())

	e, err = cat.LoadEntry(">=10.0.0, <10.0.1")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0", e.Name())

	for _, id := range []string{"no-such-entry", "^99"} {
		_, err = cat.LoadEntry(id)
		require.Error(t, err, id)
		assert.True(t, IsInvalidEntry(err), id)
	}
}

func TestLoadEntryUserBeforeOfficial(t *testing.T) {
	cat, _ := newTestCatalog(t)
	writeEntryFile(t, cat, "[\"10.0.1\"]\npath = \"/src/llvm-10\"\n")

	e, err := cat.LoadEntry("^10")
	require.NoError(t, err)
	assert.Equal(t, "10.0.1", e.Name())
	assert.Equal(t, Local, e.Kind())
	assert.False(t, e.IsOfficial())
}

func TestLoadEntryAmbiguous(t *testing.T) {
	cat, _ := newTestCatalog(t)
	writeEntryFile(t, cat, "[\"10.0.1\"]\npath = \"/src/a\"\n\n[\"10.0.0\"]\npath = \"/src/b\"\n")

	_, err := cat.LoadEntry("^10")
	require.Error(t, err)
	assert.True(t, IsInvalidEntry(err))
	var ae *AmbiguousEntryError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, []string{"10.0.0", "10.0.1"}, ae.Names)

	// An exact name is never ambiguous.
	e, err := cat.LoadEntry("10.0.0")
	require.NoError(t, err)
	assert.Equal(t, "/src/b", e.Path())
}

func TestSaveSetting(t *testing.T) {
	cat, _ := newTestCatalog(t)
	writeEntryFile(t, cat, userEntries)

	e, err := cat.LoadEntry("my-local-llvm")
	require.NoError(t, err)
	require.NoError(t, e.SetBuilder("vs"))
	e.SetBuildType(MinSizeRel)
	require.NoError(t, cat.SaveSetting(e))

	reloaded, err := cat.LoadEntry("my-local-llvm")
	require.NoError(t, err)
	assert.Equal(t, VisualStudio{}, reloaded.Setting().Generator)
	assert.Equal(t, MinSizeRel, reloaded.Setting().BuildType)
	assert.Equal(t, []string{"X86"}, reloaded.Setting().Target)

	// Other entries survive the rewrite.
	mirror, err := cat.LoadEntry("llvm-mirror")
	require.NoError(t, err)
	assert.Len(t, mirror.Tools(), 2)
	assert.Equal(t, Ninja{}, mirror.Setting().Generator)
}

func TestSaveSettingOfficialOverride(t *testing.T) {
	cat, _ := newTestCatalog(t)

	e, err := cat.LoadEntry("18.1.8")
	require.NoError(t, err)
	require.NoError(t, e.SetBuilder("ninja"))
	require.NoError(t, cat.SaveSetting(e))

	reloaded, err := cat.LoadEntry("18.1.8")
	require.NoError(t, err)
	assert.False(t, reloaded.IsOfficial())
	assert.Equal(t, Ninja{}, reloaded.Setting().Generator)
	assert.Equal(t, e.URL(), reloaded.URL())
	assert.Equal(t, e.Tools(), reloaded.Tools())
}

func TestInit(t *testing.T) {
	cat, _ := newTestCatalog(t)

	created, err := cat.Init()
	require.NoError(t, err)
	assert.True(t, created)

	entries, err := cat.LoadUserEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "llvm-mirror", entries[0].Name())
	assert.Len(t, entries[0].Tools(), 2)

	writeEntryFile(t, cat, userEntries)
	created, err = cat.Init()
	require.NoError(t, err)
	assert.False(t, created)

	entries, err = cat.LoadUserEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
