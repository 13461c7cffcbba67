package entry

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"llvmmgmt/pkg/command"
	"llvmmgmt/pkg/config"
	"llvmmgmt/pkg/resource"
	"llvmmgmt/pkg/version"
)

// Catalog loads entries and provides what their lifecycle needs.
// Immutable
type Catalog struct {
	cfg       config.ReadOnly
	resources resource.Provider
	runner    command.Runner
}

// NewCatalog creates a catalog reading entry.toml from cfg's config dir.
func NewCatalog(cfg config.ReadOnly, resources resource.Provider, runner command.Runner) *Catalog {
	return &Catalog{cfg: cfg, resources: resources, runner: runner}
}

// NewEntry builds an entry from a setting. The entry's version is parsed
// from name when name is a full semantic version.
func (c *Catalog) NewEntry(name string, setting Setting) (*Entry, error) {
	return newEntry(c, name, version.Exact(name), setting)
}

// LoadEntryTOML parses a name-keyed table of settings. Entries are returned
// sorted by name; a single invalid entry fails the whole load.
func (c *Catalog) LoadEntryTOML(text string) ([]*Entry, error) {
	var files map[string]settingFile
	if err := toml.Unmarshal([]byte(text), &files); err != nil {
		return nil, fmt.Errorf("failed to parse entries: %w", err)
	}

	names := slices.Sorted(maps.Keys(files))
	entries := make([]*Entry, 0, len(names))
	for _, name := range names {
		setting, err := files[name].setting()
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", name, err)
		}
		e, err := c.NewEntry(name, setting)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// LoadUserEntries reads entry.toml. A missing file means no user entries.
func (c *Catalog) LoadUserEntries() ([]*Entry, error) {
	path := c.cfg.GetEntryFile()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("No entry file, using official releases only", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, config.WrapPath("read", path, err)
	}
	entries, err := c.LoadEntryTOML(string(data))
	if err != nil {
		return nil, config.WrapPath("load", path, err)
	}
	return entries, nil
}

// LoadEntries returns the user entries followed by the official releases.
func (c *Catalog) LoadEntries() ([]*Entry, error) {
	entries, err := c.LoadUserEntries()
	if err != nil {
		return nil, err
	}
	return append(entries, c.OfficialReleases()...), nil
}

// LoadEntry resolves id to a single entry. An entry named exactly id wins;
// otherwise id is read as a version requirement such as "^10" or ">=9, <12".
// User entries are consulted before official releases, and a requirement
// satisfied by more than one user entry is an AmbiguousEntryError.
// Official releases are ordered newest first, so "^10" picks the latest 10.x.
func (c *Catalog) LoadEntry(id string) (*Entry, error) {
	entries, err := c.LoadEntries()
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.name == id {
			return e, nil
		}
	}

	notFound := &InvalidEntryError{Name: id, Message: "entry not found"}
	req, err := version.ParseRequirement(id)
	if err != nil {
		return nil, notFound
	}

	var user []*Entry
	for _, e := range entries {
		if e.official || !e.matches(req) {
			continue
		}
		user = append(user, e)
	}
	switch len(user) {
	case 0:
	case 1:
		return user[0], nil
	default:
		names := make([]string, len(user))
		for i, e := range user {
			names[i] = e.name
		}
		return nil, &AmbiguousEntryError{Requirement: id, Names: names}
	}

	for _, e := range entries {
		if e.official && e.matches(req) {
			return e, nil
		}
	}
	return nil, notFound
}

// SaveSetting writes e's setting into entry.toml, keeping every other entry.
func (c *Catalog) SaveSetting(e *Entry) error {
	path := c.cfg.GetEntryFile()
	files := map[string]settingFile{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &files); err != nil {
			return config.WrapPath("load", path, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return config.WrapPath("read", path, err)
	}

	files[e.name] = fileSetting(e.setting)
	out, err := toml.Marshal(files)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return config.WrapPath("mkdir", filepath.Dir(path), err)
	}
	slog.Info("Save entry", "entry", e.name, "path", path)
	return config.WrapPath("write", path, os.WriteFile(path, out, 0644))
}

// DefaultEntryTOML is written by Init.
const DefaultEntryTOML = `[llvm-mirror]
url    = "https://github.com/llvm-mirror/llvm"
target = ["X86"]

[[llvm-mirror.tools]]
name = "clang"
url = "https://github.com/llvm-mirror/clang"

[[llvm-mirror.tools]]
name = "clang-extra"
url = "https://github.com/llvm-mirror/clang-tools-extra"
relative_path = "tools/clang/tools/extra"
`

// Init writes the default entry.toml. It reports false when the file
// already exists, leaving it untouched.
func (c *Catalog) Init() (bool, error) {
	path := c.cfg.GetEntryFile()
	if _, err := os.Stat(path); err == nil {
		slog.Info("Entry file already exists", "path", path)
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, config.WrapPath("mkdir", filepath.Dir(path), err)
	}
	slog.Info("Create entry file", "path", path)
	if err := os.WriteFile(path, []byte(DefaultEntryTOML), 0644); err != nil {
		return false, config.WrapPath("write", path, err)
	}
	return true, nil
}
