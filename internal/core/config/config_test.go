package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestManager_LoadMissing(t *testing.T) {
	m := NewManagerWithDir(t.TempDir())

	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.TelemetryDecided() {
		t.Error("telemetry should be undecided by default")
	}
	if cfg.TelemetryEnabled() {
		t.Error("telemetry should be off by default")
	}
}

func TestManager_SaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), DirName)
	m := NewManagerWithDir(dir)

	cfg := &Config{
		PackagesDir: "/opt/agentkit/packages",
		Paths:       map[string]string{"claude": "~/work/.claude"},
		LogLevel:    "debug",
	}
	cfg.SetTelemetry(true, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))

	if err := m.Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(m.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}

	loaded, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.PackagesDir != cfg.PackagesDir {
		t.Errorf("PackagesDir = %q, want %q", loaded.PackagesDir, cfg.PackagesDir)
	}
	if loaded.Paths["claude"] != "~/work/.claude" {
		t.Errorf("Paths[claude] = %q", loaded.Paths["claude"])
	}
	if !loaded.TelemetryEnabled() {
		t.Error("expected telemetry enabled")
	}
	if loaded.TelemetryConsentDate == nil || loaded.TelemetryConsentDate.Year() != 2026 {
		t.Errorf("TelemetryConsentDate = %v", loaded.TelemetryConsentDate)
	}
}

func TestManager_LoadAcceptsJSONC(t *testing.T) {
	dir := t.TempDir()
	m := NewManagerWithDir(dir)
	content := `{
  // where the packages live
  "packagesDir": "/srv/packages",
  "telemetry": false,
}`
	if err := os.WriteFile(m.Path(), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.PackagesDir != "/srv/packages" {
		t.Errorf("PackagesDir = %q", cfg.PackagesDir)
	}
	if !cfg.TelemetryDecided() || cfg.TelemetryEnabled() {
		t.Error("expected telemetry explicitly disabled")
	}
}

func TestManager_LoadMalformed(t *testing.T) {
	m := NewManagerWithDir(t.TempDir())
	if err := os.WriteFile(m.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Load(); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestManager_Update(t *testing.T) {
	m := NewManagerWithDir(t.TempDir())

	_, err := m.Update(func(c *Config) error {
		c.LogLevel = "info"
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	cfg, err := m.Update(func(c *Config) error {
		c.PackagesDir = "/p"
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if cfg.LogLevel != "info" || cfg.PackagesDir != "/p" {
		t.Errorf("updates not merged: %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	good := &Config{Paths: map[string]string{"claude": "~/.claude", "droid": "~/.factory"}, LogLevel: "warn"}
	if err := good.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}

	bad := &Config{Paths: map[string]string{"cursor": "~/.cursor"}, LogLevel: "loud"}
	err := bad.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{`unknown tool "cursor"`, "logLevel"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestResolvePackagesDir(t *testing.T) {
	t.Setenv(PackagesEnv, "")
	cfg := &Config{PackagesDir: "/from/config"}

	dir, src, err := ResolvePackagesDir("/from/flag", cfg)
	if err != nil || dir != "/from/flag" || src != SourceFlag {
		t.Errorf("flag: got %q %q %v", dir, src, err)
	}

	t.Setenv(PackagesEnv, "/from/env")
	dir, src, _ = ResolvePackagesDir("", cfg)
	if dir != "/from/env" || src != SourceEnv {
		t.Errorf("env: got %q %q", dir, src)
	}

	t.Setenv(PackagesEnv, "")
	dir, src, _ = ResolvePackagesDir("", cfg)
	if dir != "/from/config" || src != SourceConfig {
		t.Errorf("config: got %q %q", dir, src)
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	dir, _, _ = ResolvePackagesDir("~/pkgs", nil)
	if dir != filepath.Join(home, "pkgs") {
		t.Errorf("tilde: got %q", dir)
	}
}
