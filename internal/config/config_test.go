package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadExplicitMissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope", "config.yaml")); err == nil {
		t.Fatal("explicit missing path should error")
	}
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	def := Default()
	if cfg.LogLevel != def.LogLevel || cfg.DiscoverTimeout != def.DiscoverTimeout {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `log_level: debug
pretty_log: false
discover_timeout: 5s
http_port: 8200
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.PrettyLog {
		t.Error("PrettyLog = true")
	}
	if cfg.DiscoverTimeout != 5*time.Second {
		t.Errorf("DiscoverTimeout = %v", cfg.DiscoverTimeout)
	}
	if cfg.HTTPPort != 8200 {
		t.Errorf("HTTPPort = %d", cfg.HTTPPort)
	}
	// unset keys keep their defaults
	if cfg.ProbeTimeout != Default().ProbeTimeout {
		t.Errorf("ProbeTimeout = %v", cfg.ProbeTimeout)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed yaml accepted")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: info\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SYMSTREAM_LOG_LEVEL", "error")
	t.Setenv("SYMSTREAM_DISCOVER_TIMEOUT", "7s")
	t.Setenv("SYMSTREAM_HTTP_PORT", "9000")
	t.Setenv("SYMSTREAM_PRETTY_LOG", "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.DiscoverTimeout != 7*time.Second {
		t.Errorf("DiscoverTimeout = %v", cfg.DiscoverTimeout)
	}
	if cfg.HTTPPort != 9000 {
		t.Errorf("HTTPPort = %d", cfg.HTTPPort)
	}
	if cfg.PrettyLog {
		t.Error("PrettyLog = true")
	}
}

func TestEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SYMSTREAM_DISCOVER_TIMEOUT", "soon")
	t.Setenv("SYMSTREAM_HTTP_PORT", "-5")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DiscoverTimeout != Default().DiscoverTimeout {
		t.Errorf("DiscoverTimeout = %v", cfg.DiscoverTimeout)
	}
	if cfg.HTTPPort != Default().HTTPPort {
		t.Errorf("HTTPPort = %d", cfg.HTTPPort)
	}
}
