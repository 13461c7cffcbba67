package entry

import (
	"fmt"
	"maps"
	"slices"
)

// Setting is the declarative payload of an entry, as stored in entry.toml.
type Setting struct {
	// URL of a remote LLVM source; exclusive with Path.
	URL string
	// Path of a local LLVM source tree; exclusive with URL.
	Path  string
	Tools []Tool
	// Target lists the backends to build, e.g. "X86". Empty builds all of them.
	Target    []string
	Generator Generator
	BuildType BuildType
	// Option holds extra CMake definitions, passed as -Dkey=value.
	Option map[string]string
}

func (s Setting) clone() Setting {
	c := s
	c.Tools = slices.Clone(s.Tools)
	c.Target = slices.Clone(s.Target)
	c.Option = maps.Clone(s.Option)
	return c
}

func (s Setting) generator() Generator {
	if s.Generator == nil {
		return Platform{}
	}
	return s.Generator
}

// settingFile is the entry.toml form of Setting.
type settingFile struct {
	URL       string            `toml:"url,omitempty"`
	Path      string            `toml:"path,omitempty"`
	Tools     []toolFile        `toml:"tools,omitempty"`
	Target    []string          `toml:"target,omitempty"`
	Generator string            `toml:"generator,omitempty"`
	BuildType string            `toml:"build_type,omitempty"`
	Option    map[string]string `toml:"option,omitempty"`
}

type toolFile struct {
	Name         string `toml:"name"`
	URL          string `toml:"url"`
	Branch       string `toml:"branch,omitempty"`
	RelativePath string `toml:"relative_path,omitempty"`
}

func (f settingFile) setting() (Setting, error) {
	s := Setting{
		URL:    f.URL,
		Path:   f.Path,
		Target: f.Target,
		Option: f.Option,
	}
	for _, t := range f.Tools {
		s.Tools = append(s.Tools, Tool{Name: t.Name, URL: t.URL, Branch: t.Branch, RelativePath: t.RelativePath})
	}

	s.Generator = Platform{}
	if f.Generator != "" {
		g, err := ParseGenerator(f.Generator)
		if err != nil {
			return Setting{}, err
		}
		s.Generator = g
	}
	if f.BuildType != "" {
		bt, err := ParseBuildType(f.BuildType)
		if err != nil {
			return Setting{}, err
		}
		s.BuildType = bt
	}
	return s, nil
}

func fileSetting(s Setting) settingFile {
	f := settingFile{
		URL:       s.URL,
		Path:      s.Path,
		Target:    s.Target,
		BuildType: s.BuildType.String(),
		Option:    s.Option,
	}
	if g := s.generator(); g.Name() != (Platform{}).Name() {
		f.Generator = g.Name()
	}
	for _, t := range s.Tools {
		f.Tools = append(f.Tools, toolFile{Name: t.Name, URL: t.URL, Branch: t.Branch, RelativePath: t.RelativePath})
	}
	return f
}

// String is a one-line summary used by "entries --verbose".
func (s Setting) String() string {
	src := s.URL
	if src == "" {
		src = s.Path
	}
	return fmt.Sprintf("%s (generator=%s, build_type=%s, tools=%d)", src, s.generator().Name(), s.BuildType, len(s.Tools))
}
