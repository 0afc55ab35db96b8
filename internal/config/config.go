// Package config loads service settings from defaults, an optional YAML
// file and the environment, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jusunglee/trainusage/internal/feed"
	"github.com/jusunglee/trainusage/internal/palette"
)

// Environment variables read by Load
const (
	EnvPort            = "TRAINS_PORT"
	EnvSourceURL       = "TRAINS_CSV_URL"
	EnvRefreshInterval = "TRAINS_REFRESH_INTERVAL"
	EnvLogLevel        = "TRAINS_LOG_LEVEL"
	EnvPaletteFile     = "TRAINS_PALETTE_FILE"
)

// Config is the full service configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Source  SourceConfig  `yaml:"source"`
	Palette PaletteConfig `yaml:"palette"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Port           int      `yaml:"port" validate:"min=1,max=65535"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// SourceConfig locates the CSV dataset
type SourceConfig struct {
	URL             string        `yaml:"url" validate:"required,url"`
	Timeout         time.Duration `yaml:"timeout" validate:"gte=0"`
	RefreshInterval time.Duration `yaml:"refresh_interval" validate:"gte=0"`
}

// PaletteConfig optionally replaces the built-in line colors
type PaletteConfig struct {
	File     string `yaml:"file"`
	Fallback string `yaml:"fallback" validate:"omitempty,hexcolor"`
}

// LogConfig sets the log level
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"*"},
		},
		Source: SourceConfig{
			URL:     feed.DefaultSourceURL,
			Timeout: 30 * time.Second,
		},
		Palette: PaletteConfig{
			Fallback: palette.DefaultFallback,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration. path may be empty, in which case only the
// defaults and environment are used.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every section
func Validate(cfg Config) error {
	v := validator.New()
	for _, section := range []any{cfg.Server, cfg.Source, cfg.Palette, cfg.Log} {
		if err := v.Struct(section); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	return nil
}

// LoadPalette returns the configured registry
func (c Config) LoadPalette() (*palette.Registry, error) {
	if c.Palette.File == "" {
		reg := palette.Default()
		if c.Palette.Fallback == "" || c.Palette.Fallback == reg.Fallback() {
			return reg, nil
		}
		return palette.New(reg.Entries(), c.Palette.Fallback), nil
	}
	return palette.LoadFile(c.Palette.File)
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv(EnvSourceURL); v != "" {
		cfg.Source.URL = v
	}
	if v := os.Getenv(EnvRefreshInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRefreshInterval, err)
		}
		cfg.Source.RefreshInterval = d
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvPaletteFile); v != "" {
		cfg.Palette.File = v
	}
	return nil
}
