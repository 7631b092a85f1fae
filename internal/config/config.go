// Package config loads the optional YAML configuration file and applies
// SYMSTREAM_* environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel  string `yaml:"log_level"`  // "debug" | "info" | "warn" | "error"
	PrettyLog bool   `yaml:"pretty_log"` // true => colored dev output, false => JSON

	DiscoverTimeout time.Duration `yaml:"discover_timeout"` // listen window per search target
	DiscoverMX      int           `yaml:"discover_mx"`      // MX value advertised in M-SEARCH

	HTTPPort     int           `yaml:"http_port"`     // 0 = OS-assigned ephemeral port
	ProbeTimeout time.Duration `yaml:"probe_timeout"` // ffprobe invocation bound
}

func Default() *Config {
	return &Config{
		LogLevel:        "info",
		PrettyLog:       true,
		DiscoverTimeout: 2 * time.Second,
		DiscoverMX:      1,
		HTTPPort:        0,
		ProbeTimeout:    10 * time.Second,
	}
}

// DefaultPath returns ~/.config/symstream/config.yaml, best-effort.
func DefaultPath() string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "symstream", "config.yaml")
}

// Load reads the config file at path (DefaultPath when empty) and applies
// environment overrides. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
			// no config file is fine
		default:
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SYMSTREAM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SYMSTREAM_PRETTY_LOG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.PrettyLog = b
		}
	}
	if v := os.Getenv("SYMSTREAM_DISCOVER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.DiscoverTimeout = d
		}
	}
	if v := os.Getenv("SYMSTREAM_DISCOVER_MX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DiscoverMX = n
		}
	}
	if v := os.Getenv("SYMSTREAM_HTTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.HTTPPort = n
		}
	}
	if v := os.Getenv("SYMSTREAM_PROBE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ProbeTimeout = d
		}
	}
}
