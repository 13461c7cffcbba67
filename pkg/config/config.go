package config

import (
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

const (
	// AppName is the application name, used for every XDG sub directory.
	AppName = "llvmmgmt"
	// EntryFileName is the user entry catalog inside the config directory.
	EntryFileName = "entry.toml"
	// MarkerFileName is the scope marker naming the active build.
	MarkerFileName = ".llvmmgmt"
	// SettingsFileName is the optional settings file inside the config directory.
	SettingsFileName = "config.toml"
)

// ReadOnly defines the read-only interface for Config.
// Immutable
type ReadOnly interface {
	GetConfigDir() string
	GetDataDir() string
	GetCacheDir() string
	GetDownloadDir() string
	GetEntryFile() string
	GetGlobalMarker() string
	GetSystemPrefix() string
	GetOS() OSType
	GetJobs() int
	GetLogLevel() string
	Freeze()
	Checkout() Writable
}

// Writable defines the writable interface for Config.
// Mutable
type Writable interface {
	ReadOnly
	SetDataDir(string)
	SetCacheDir(string)
	SetJobs(int)
	SetLogLevel(string)
}

// Config holds the base directories and host info for llvmmgmt.
// Mutable
type Config struct {
	configDir string
	dataDir   string
	cacheDir  string

	downloadDir  string
	entryFile    string
	globalMarker string
	systemPrefix string

	os OSType

	jobs     int
	logLevel string

	frozen bool
	edited bool
}

var _ ReadOnly = (*Config)(nil)
var _ Writable = (*Config)(nil)

func (c *Config) GetConfigDir() string    { return c.configDir }
func (c *Config) GetDataDir() string      { return c.dataDir }
func (c *Config) GetCacheDir() string     { return c.cacheDir }
func (c *Config) GetDownloadDir() string  { return c.downloadDir }
func (c *Config) GetEntryFile() string    { return c.entryFile }
func (c *Config) GetGlobalMarker() string { return c.globalMarker }
func (c *Config) GetSystemPrefix() string { return c.systemPrefix }
func (c *Config) GetOS() OSType           { return c.os }
func (c *Config) GetJobs() int            { return c.jobs }
func (c *Config) GetLogLevel() string     { return c.logLevel }

func (c *Config) SetDataDir(s string) {
	if c.frozen {
		panic("cannot modify frozen config")
	}
	c.dataDir = s
	c.updateDerived()
}

func (c *Config) SetCacheDir(s string) {
	if c.frozen {
		panic("cannot modify frozen config")
	}
	c.cacheDir = s
	c.updateDerived()
}

func (c *Config) SetJobs(n int) {
	if c.frozen {
		panic("cannot modify frozen config")
	}
	if n > 0 {
		c.jobs = n
	}
}

func (c *Config) SetLogLevel(level string) {
	if c.frozen {
		panic("cannot modify frozen config")
	}
	c.logLevel = level
}

func (c *Config) Freeze() {
	c.frozen = true
}

func (c *Config) Checkout() Writable {
	if c.frozen {
		panic("cannot checkout from frozen config")
	}
	if c.edited {
		panic("config already checked out")
	}
	c.edited = true
	return c
}

func (c *Config) updateDerived() {
	c.downloadDir = filepath.Join(c.cacheDir, "downloads")
	c.entryFile = filepath.Join(c.configDir, EntryFileName)
	c.globalMarker = filepath.Join(c.configDir, MarkerFileName)
}

func newConfig(configDir, dataDir, cacheDir string) *Config {
	osType, _ := ParseOS(runtime.GOOS)

	c := &Config{
		configDir:    configDir,
		dataDir:      dataDir,
		cacheDir:     cacheDir,
		os:           osType,
		systemPrefix: systemPrefix(osType),
		jobs:         runtime.NumCPU(),
		logLevel:     "info",
	}
	c.updateDerived()
	return c
}

// systemPrefix is where the platform's own LLVM lives.
func systemPrefix(os OSType) string {
	if os == OSWindows {
		return `C:\Program Files\LLVM`
	}
	return "/usr"
}

// Init initializes the configuration using XDG base directories, then applies
// the optional settings file and LLVMMGMT_* environment overrides.
func Init() (ReadOnly, error) {
	c := newConfig(
		filepath.Join(xdg.ConfigHome, AppName),
		filepath.Join(xdg.DataHome, AppName),
		filepath.Join(xdg.CacheHome, AppName),
	)
	if err := c.loadSettings(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewTestConfig returns a config rooted entirely below root, for tests and
// sandboxed runs. Settings files and environment overrides are not consulted.
func NewTestConfig(root string) *Config {
	return newConfig(
		filepath.Join(root, "config"),
		filepath.Join(root, "data"),
		filepath.Join(root, "cache"),
	)
}
