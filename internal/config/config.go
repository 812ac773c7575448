// Package config loads tool configuration from an optional yaml file and
// UF2_-prefixed environment variables.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the tunables shared by the CLI commands.
type Config struct {
	// ChunkSize used when merging filesystem images; RP2 flash pages
	// are 256 bytes, which keeps merged images page-aligned.
	ChunkSize int `mapstructure:"chunk_size"`
	// LittlefsImage is the default filesystem image path for merges.
	LittlefsImage string `mapstructure:"littlefs_image"`
	// OutputPath is the default merged-firmware output path.
	OutputPath string `mapstructure:"output_path"`
	// PicotoolPath locates the picotool executable.
	PicotoolPath string `mapstructure:"picotool_path"`
	// MklittlefsPath locates the mklittlefs executable.
	MklittlefsPath string `mapstructure:"mklittlefs_path"`
	// FamiliesFile optionally merges extra family definitions
	// (uf2families.json shape) into the built-in registry.
	FamiliesFile string `mapstructure:"families_file"`
}

// Load reads uf2-config.yaml from the working directory or ~/.go-uf2,
// with environment variables (UF2_CHUNK_SIZE, UF2_OUTPUT_PATH, ...)
// taking precedence. A missing config file is not an error.
func Load() (*Config, error) {
	viper.SetConfigName("uf2-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.go-uf2")

	viper.SetDefault("chunk_size", 256)
	viper.SetDefault("littlefs_image", "build/littlefs.img")
	viper.SetDefault("output_path", "build/firmware_lfs.uf2")
	viper.SetDefault("picotool_path", "picotool")
	viper.SetDefault("mklittlefs_path", "mklittlefs")
	viper.SetDefault("families_file", "")

	viper.SetEnvPrefix("UF2")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
