// Package entry describes how to obtain and compile one LLVM toolchain.
//
// Entries come from the user's entry.toml and from a built-in table of
// official LLVM releases. An entry is either remote (fetched from a URL,
// optionally with extra tools) or local (an existing source tree).
package entry

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/adrg/xdg"
)

// Kind tells where an entry's source comes from.
type Kind int

const (
	Remote Kind = iota
	Local
)

func (k Kind) String() string {
	if k == Local {
		return "local"
	}
	return "remote"
}

// Entry is a named build descriptor bound to the catalog that created it.
// Mutable
type Entry struct {
	name    string
	version *semver.Version
	kind    Kind
	url     string
	path    string
	setting Setting
	// official marks entries of the built-in release table.
	official bool
	cat      *Catalog
}

// newEntry validates that setting carries exactly one of url and path.
func newEntry(cat *Catalog, name string, v *semver.Version, setting Setting) (*Entry, error) {
	if setting.URL != "" && setting.Path != "" {
		return nil, &InvalidEntryError{Name: name, Message: "only one of url or path is allowed"}
	}
	if setting.URL == "" && setting.Path == "" {
		return nil, &InvalidEntryError{Name: name, Message: "neither url nor path is set"}
	}
	if setting.Generator == nil {
		setting.Generator = Platform{}
	}

	e := &Entry{name: name, version: v, setting: setting, cat: cat}
	if setting.Path != "" {
		if len(setting.Tools) > 0 {
			slog.Warn("Tools are only used with url, ignored", "entry", name)
		}
		e.kind = Local
		e.path = expandPath(setting.Path)
		return e, nil
	}
	e.kind = Remote
	e.url = setting.URL
	return e, nil
}

// expandPath resolves a leading "~" and environment variables.
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if p == "~" {
		return xdg.Home
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(xdg.Home, p[2:])
	}
	return p
}

func (e *Entry) Name() string { return e.name }

// Version is the version parsed from the entry name, or nil.
func (e *Entry) Version() *semver.Version { return e.version }

func (e *Entry) Kind() Kind { return e.kind }

// URL is empty for local entries.
func (e *Entry) URL() string { return e.url }

// Path is the expanded source path of a local entry.
func (e *Entry) Path() string { return e.path }

// Setting returns a copy of the entry's setting.
func (e *Entry) Setting() Setting { return e.setting.clone() }

// Tools are the extra sources of a remote entry.
func (e *Entry) Tools() []Tool {
	if e.kind == Local {
		return nil
	}
	return e.setting.Tools
}

// IsOfficial reports whether the entry comes from the built-in release table.
func (e *Entry) IsOfficial() bool { return e.official }

// SetBuilder changes the generator by name, e.g. "ninja".
func (e *Entry) SetBuilder(name string) error {
	g, err := ParseGenerator(name)
	if err != nil {
		return err
	}
	e.setting.Generator = g
	return nil
}

func (e *Entry) SetBuildType(bt BuildType) {
	e.setting.BuildType = bt
}

// matches reports whether the entry's version satisfies req.
func (e *Entry) matches(req *semver.Constraints) bool {
	return e.version != nil && req.Check(e.version)
}
