// Package config loads schemats.toml, the per-project generation settings.
package config

import (
	"strings"

	"github.com/teranos/schemats/errors"
)

// FileName is the project config file discovered by walking up from the
// working directory
const FileName = "schemats.toml"

// Config represents a schemats project configuration
type Config struct {
	Targets []TargetConfig `mapstructure:"targets"`
	Watch   WatchConfig    `mapstructure:"watch"`

	// Path of the file this config was read from; empty for defaults only
	Path string `mapstructure:"-"`
}

// TargetConfig describes one generated module
type TargetConfig struct {
	Name        string   `mapstructure:"name"`
	Inputs      []string `mapstructure:"inputs"` // descriptor files, in root order
	Output      string   `mapstructure:"output"`
	Exclude     []string `mapstructure:"exclude"`
	Renames     []string `mapstructure:"renames"` // "module.Name=Emitted"
	ConstEnums  bool     `mapstructure:"const_enums"`
	SourceLabel string   `mapstructure:"source_label"` // written into the header (default: input list)
}

// WatchConfig configures `schemats watch`
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms"` // delay before regenerating after a change (default: 200)
}

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// RenameMap parses the target's rename directives.
func (t TargetConfig) RenameMap() (map[string]string, error) {
	return ParseRenames(t.Renames)
}

// Label returns the source label for the generated header
func (t TargetConfig) Label() string {
	if t.SourceLabel != "" {
		return t.SourceLabel
	}
	return strings.Join(t.Inputs, ", ")
}

// ParseRenames parses "module.Name=Emitted" directives into a map.
func ParseRenames(directives []string) (map[string]string, error) {
	out := make(map[string]string, len(directives))
	for _, d := range directives {
		from, to, ok := strings.Cut(d, "=")
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if !ok || from == "" || to == "" {
			return nil, errors.WithHint(
				errors.Newf("invalid rename %q", d),
				"renames are written as module.Name=Emitted")
		}
		if !strings.Contains(from, ".") {
			return nil, errors.WithHint(
				errors.Newf("rename %q must name a qualified type", d),
				"qualify the source type with its module, e.g. pets.Cat=Kitty")
		}
		if prev, dup := out[from]; dup && prev != to {
			return nil, errors.Newf("%s is renamed twice (%s, %s)", from, prev, to)
		}
		out[from] = to
	}
	return out, nil
}
