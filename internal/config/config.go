// Package config loads and defaults wadmerge's CLI options (spec §6),
// grounded on exiledb's internal/config: viper defaults plus an optional
// config file, unmarshaled into a typed struct.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config is the full set of user-facing options, mirroring spec §6's CLI
// surface plus the ambient logging/progress knobs.
type Config struct {
	Output        string `mapstructure:"output"`
	Overwrite     bool   `mapstructure:"overwrite"`
	FilterPatches bool   `mapstructure:"filter_patches"`
	MergeText     bool   `mapstructure:"merge_text"`
	SortNamespace bool   `mapstructure:"sort_ns"`
	SortMaps      bool   `mapstructure:"sort_maps"`
	SortTextures  bool   `mapstructure:"sort_textures"`
	SortText      bool   `mapstructure:"sort_text"`
	SortLoose     bool   `mapstructure:"sort_loose"`
	DupLogPath    string `mapstructure:"dup_log"`
	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
	NoProgress    bool   `mapstructure:"no_progress"`
}

// Load sets defaults, optionally merges a wadmerge.yaml config file, and
// unmarshals the result. cfgFile overrides the default search path when
// non-empty (spec §6 defaults; exiledb's Load shape).
func Load(cfgFile string) (*Config, error) {
	viper.SetDefault("output", "merged.wad")
	viper.SetDefault("overwrite", false)
	viper.SetDefault("filter_patches", true)
	viper.SetDefault("merge_text", true)
	viper.SetDefault("sort_ns", true)
	viper.SetDefault("sort_maps", true)
	viper.SetDefault("sort_textures", false)
	viper.SetDefault("sort_text", true)
	viper.SetDefault("sort_loose", false)
	viper.SetDefault("dup_log", "")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("no_progress", false)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName("wadmerge")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
