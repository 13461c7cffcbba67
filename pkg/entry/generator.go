package entry

import (
	"strconv"
	"strings"
)

// Generator is a CMake build-file generator.
type Generator interface {
	// Name is the value stored in entry.toml.
	Name() string
	// ConfigureOptions are passed to cmake when generating the build files.
	ConfigureOptions() []string
	// BuildOptions are passed to "cmake --build".
	BuildOptions(nproc int, bt BuildType) []string
}

// Platform lets cmake pick its default generator.
type Platform struct{}

func (Platform) Name() string                         { return "Platform" }
func (Platform) ConfigureOptions() []string           { return nil }
func (Platform) BuildOptions(int, BuildType) []string { return nil }

type Makefile struct{}

func (Makefile) Name() string               { return "Makefile" }
func (Makefile) ConfigureOptions() []string { return []string{"-G", "Unix Makefiles"} }
func (Makefile) BuildOptions(nproc int, _ BuildType) []string {
	return parallelOptions(nproc)
}

type Ninja struct{}

func (Ninja) Name() string               { return "Ninja" }
func (Ninja) ConfigureOptions() []string { return []string{"-G", "Ninja"} }
func (Ninja) BuildOptions(nproc int, _ BuildType) []string {
	return parallelOptions(nproc)
}

// VisualStudio is Visual Studio 15 2017; the configuration is chosen at build time.
type VisualStudio struct{}

func (VisualStudio) Name() string               { return "VisualStudio" }
func (VisualStudio) ConfigureOptions() []string { return []string{"-G", "Visual Studio 15 2017"} }
func (VisualStudio) BuildOptions(_ int, bt BuildType) []string {
	return []string{"--config", bt.String()}
}

// VisualStudioWin64 is the 64-bit Visual Studio 15 2017 generator with a 64-bit host toolset.
type VisualStudioWin64 struct{}

func (VisualStudioWin64) Name() string { return "VisualStudioWin64" }
func (VisualStudioWin64) ConfigureOptions() []string {
	return []string{"-G", "Visual Studio 15 2017 Win64", "-Thost=x64"}
}
func (VisualStudioWin64) BuildOptions(_ int, bt BuildType) []string {
	return []string{"--config", bt.String()}
}

func parallelOptions(nproc int) []string {
	return []string{"--", "-j", strconv.Itoa(nproc)}
}

// Generators lists every supported generator.
func Generators() []Generator {
	return []Generator{Platform{}, Makefile{}, Ninja{}, VisualStudio{}, VisualStudioWin64{}}
}

func generatorNames() []string {
	var names []string
	for _, g := range Generators() {
		names = append(names, g.Name())
	}
	return names
}

// ParseGenerator resolves a generator name case-insensitively.
// "vs" and "vs64" are accepted as aliases.
func ParseGenerator(name string) (Generator, error) {
	switch strings.ToLower(name) {
	case "platform":
		return Platform{}, nil
	case "makefile":
		return Makefile{}, nil
	case "ninja":
		return Ninja{}, nil
	case "visualstudio", "vs":
		return VisualStudio{}, nil
	case "visualstudiowin64", "vs64":
		return VisualStudioWin64{}, nil
	default:
		return nil, &UnsupportedGeneratorError{Generator: name}
	}
}
