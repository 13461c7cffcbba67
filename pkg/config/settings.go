package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding settings,
// e.g. LLVMMGMT_JOBS=4.
const EnvPrefix = "LLVMMGMT"

// Settings mirrors config.toml.
type Settings struct {
	Jobs     int    `mapstructure:"jobs"`
	DataDir  string `mapstructure:"data_dir"`
	CacheDir string `mapstructure:"cache_dir"`
	LogLevel string `mapstructure:"log_level"`
}

// LoadSettings reads config.toml from configDir (if present) and overlays the
// LLVMMGMT_* environment. A missing file is not an error.
func LoadSettings(configDir string, defaults Settings) (*Settings, error) {
	v := viper.New()
	v.SetDefault("jobs", defaults.Jobs)
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("cache_dir", defaults.CacheDir)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	path := filepath.Join(configDir, SettingsFileName)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, WrapPath("stat", path, err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &s, nil
}

// loadSettings applies config.toml and the environment on top of the
// defaults. It checks the config out, so it runs at most once.
func (c *Config) loadSettings() error {
	s, err := LoadSettings(c.configDir, Settings{
		Jobs:     c.jobs,
		DataDir:  c.dataDir,
		CacheDir: c.cacheDir,
		LogLevel: c.logLevel,
	})
	if err != nil {
		return err
	}
	w := c.Checkout()
	w.SetJobs(s.Jobs)
	if s.DataDir != "" {
		w.SetDataDir(s.DataDir)
	}
	if s.CacheDir != "" {
		w.SetCacheDir(s.CacheDir)
	}
	if s.LogLevel != "" {
		w.SetLogLevel(s.LogLevel)
	}
	return nil
}
