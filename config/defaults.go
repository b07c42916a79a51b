package config

import "github.com/spf13/viper"

// DefaultDebounceMS is the watch debounce when none is configured
const DefaultDebounceMS = 200

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)
}
