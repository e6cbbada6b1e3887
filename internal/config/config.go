// Package config handles leaf's configuration: a TOML file under the user
// config directory with environment variable overrides on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/inkechoes/leaf/internal/paginate"
)

const configFileName = "config.toml"

// Config holds all runtime configuration for the leaf client.
type Config struct {
	// BaseURL is the Ink&Echoes API server, without the /api/v1 suffix.
	BaseURL string `toml:"base_url" env:"LEAF_BASE_URL"`

	// Token is the bearer token used to authenticate API calls.
	Token string `toml:"token" env:"LEAF_TOKEN"`

	// FontSize is the effective font size in pixels driving pagination.
	FontSize int `toml:"font_size" env:"LEAF_FONT_SIZE"`

	// LogFile receives log output while the reader owns the terminal.
	LogFile string `toml:"log_file" env:"LEAF_LOG_FILE"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:  "http://localhost:8000",
		FontSize: 18,
	}
}

// Load reads the config file from the default location, if present, then
// applies environment overrides. Missing file is not an error.
func Load() (Config, error) {
	return LoadFrom(filepath.Join(Dir(), configFileName))
}

// LoadFrom reads the config file at path, if present, then applies
// environment overrides.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("config: parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.FontSize < paginate.MinFontSizePx || c.FontSize > paginate.MaxFontSizePx {
		return fmt.Errorf("config: font_size %d out of range [%d, %d]",
			c.FontSize, paginate.MinFontSizePx, paginate.MaxFontSizePx)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("config: base_url must not be empty")
	}
	return nil
}

// Dir returns XDG_CONFIG_HOME/leaf or ~/.config/leaf.
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "leaf")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "leaf")
}
