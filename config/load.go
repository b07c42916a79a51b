package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/schemats/errors"
)

// EnvPrefix prefixes environment overrides (SCHEMATS_WATCH_DEBOUNCE_MS)
const EnvPrefix = "SCHEMATS"

// Load finds schemats.toml above the working directory and reads it. With no
// config file on the path, the defaults are returned and Path is empty.
func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}

	path := FindProjectConfig(wd)
	if path == "" {
		v := newViper()
		return LoadWithViper(v)
	}
	return LoadFromFile(path)
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path. Relative target
// paths are resolved against the file's directory; a target without a
// source_label is labelled with its inputs as written in the file.
func LoadFromFile(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "failed to read config file %s", configPath),
			"schemats.toml must be valid TOML with one [[targets]] table per output")
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config from %s", configPath)
	}

	abs, err := filepath.Abs(configPath)
	if err != nil {
		abs = configPath
	}
	config.Path = abs
	config.resolvePaths(filepath.Dir(abs))

	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", configPath)
	}
	return config, nil
}

// FindProjectConfig searches for schemats.toml by walking up from dir.
// Returns the path to the first config file found, or empty string if none found.
func FindProjectConfig(dir string) string {
	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

func (c *Config) resolvePaths(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	for i := range c.Targets {
		t := &c.Targets[i]
		// The default label keeps inputs as written so headers match across checkouts
		if t.SourceLabel == "" {
			t.SourceLabel = filepath.ToSlash(t.Label())
		}
		for j, in := range t.Inputs {
			t.Inputs[j] = abs(in)
		}
		t.Output = abs(t.Output)
	}
}
