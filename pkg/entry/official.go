package entry

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"llvmmgmt/pkg/version"
)

// releases lists the official LLVM releases, newest first.
// 9.0.1 precedes 8.0.1 and 9.0.0 as in the upstream release history.
var releases = [][3]uint64{
	{21, 1, 1}, {21, 1, 0}, {20, 1, 0}, {19, 0, 0},
	{18, 1, 8}, {18, 1, 0}, {17, 0, 6}, {17, 0, 0},
	{16, 0, 6}, {16, 0, 0}, {15, 0, 7}, {15, 0, 0},
	{14, 0, 6}, {14, 0, 0}, {13, 0, 1}, {13, 0, 0},
	{12, 0, 1}, {12, 0, 0}, {11, 1, 0}, {11, 0, 0},
	{10, 0, 1}, {10, 0, 0}, {9, 0, 1}, {8, 0, 1},
	{9, 0, 0}, {8, 0, 0}, {7, 1, 0}, {7, 0, 1},
	{7, 0, 0}, {6, 0, 1}, {6, 0, 0}, {5, 0, 2},
	{5, 0, 1}, {4, 0, 1}, {4, 0, 0}, {3, 9, 1},
	{3, 9, 0},
}

const (
	legacyReleaseURL  = "http://releases.llvm.org/%s"
	currentReleaseURL = "https://github.com/llvm/llvm-project/releases/download/llvmorg-%s"
)

// OfficialReleases synthesizes an entry for every known LLVM release.
func (c *Catalog) OfficialReleases() []*Entry {
	entries := make([]*Entry, 0, len(releases))
	for _, r := range releases {
		entries = append(entries, c.official(semver.New(r[0], r[1], r[2], "", "")))
	}
	return entries
}

// ReleaseBaseURL is where the source tarballs of release v are hosted.
// Releases up to 9.0.0 live on releases.llvm.org, except 8.0.1 which,
// like every later release, is published on GitHub.
func ReleaseBaseURL(v *semver.Version) string {
	if !v.GreaterThan(version.LLVM900) && !v.Equal(version.LLVM801) {
		return fmt.Sprintf(legacyReleaseURL, v)
	}
	return fmt.Sprintf(currentReleaseURL, v)
}

func (c *Catalog) official(v *semver.Version) *Entry {
	base := ReleaseBaseURL(v)
	tarball := func(project string) string {
		return fmt.Sprintf("%s/%s-%s.src.tar.xz", base, project, v)
	}

	// clang sources were called cfe up to 9.0.0.
	clang := "cfe"
	if v.GreaterThan(version.LLVM900) {
		clang = "clang"
	}
	runtimes := "projects"
	if !v.LessThan(version.LLVM1100) {
		runtimes = "runtimes"
	}

	setting := Setting{
		URL: tarball("llvm"),
		Tools: []Tool{
			{Name: "clang", URL: tarball(clang), RelativePath: "tools/clang"},
			{Name: "lld", URL: tarball("lld"), RelativePath: "tools/lld"},
			{Name: "lldb", URL: tarball("lldb"), RelativePath: "tools/lldb"},
			{Name: "clang-tools-extra", URL: tarball("clang-tools-extra"), RelativePath: "tools/clang/tools/extra"},
			{Name: "polly", URL: tarball("polly"), RelativePath: "tools/polly"},
			{Name: "compiler-rt", URL: tarball("compiler-rt"), RelativePath: runtimes + "/compiler-rt"},
			{Name: "libcxx", URL: tarball("libcxx"), RelativePath: runtimes + "/libcxx"},
			{Name: "libcxxabi", URL: tarball("libcxxabi"), RelativePath: runtimes + "/libcxxabi"},
			{Name: "libunwind", URL: tarball("libunwind"), RelativePath: runtimes + "/libunwind"},
			{Name: "openmp", URL: tarball("openmp"), RelativePath: "projects/openmp"},
		},
		Generator: Platform{},
	}

	// A remote setting with a version name always validates.
	e, err := newEntry(c, v.String(), v, setting)
	if err != nil {
		panic(err)
	}
	e.official = true
	return e
}
