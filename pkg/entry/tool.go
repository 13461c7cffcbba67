package entry

// Tool is an LLVM sub-project fetched into the primary source tree,
// e.g. clang into tools/clang.
type Tool struct {
	Name string
	// URL is a git/svn repository or an archive.
	URL string
	// Branch selects a git branch; empty means the remote default.
	Branch string
	// RelativePath overrides the default location below the source tree.
	RelativePath string
}

// defaultToolPaths is where LLVM's CMake looks for known sub-projects.
var defaultToolPaths = map[string]string{
	"clang":             "tools/clang",
	"lld":               "tools/lld",
	"lldb":              "tools/lldb",
	"polly":             "tools/polly",
	"clang-tools-extra": "tools/clang/tools/extra",
	"compiler-rt":       "runtimes/compiler-rt",
	"libcxx":            "runtimes/libcxx",
	"libcxxabi":         "runtimes/libcxxabi",
	"libunwind":         "runtimes/libunwind",
	"openmp":            "projects/openmp",
}

// RelPath returns the tool's location relative to the source directory.
func (t Tool) RelPath() (string, error) {
	if t.RelativePath != "" {
		return t.RelativePath, nil
	}
	if p, ok := defaultToolPaths[t.Name]; ok {
		return p, nil
	}
	return "", &UnknownToolPathError{Tool: t.Name}
}
