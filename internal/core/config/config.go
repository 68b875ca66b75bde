// Package config reads and writes the agentkit user configuration stored at
// ~/.agentkit/config.json.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/barysiuk/agentkit/internal/core/system"
	"github.com/barysiuk/agentkit/internal/fsutil"
	"github.com/sirupsen/logrus"
	"github.com/tailscale/hujson"
)

const (
	// DirName is the per-user agentkit directory below the home directory.
	DirName  = ".agentkit"
	FileName = "config.json"

	// PackagesEnv overrides the package root.
	PackagesEnv = "AGENTKIT_PACKAGES"
	// PackagesDirName is the package root looked up next to the binary and
	// in the working directory.
	PackagesDirName = "packages"
)

// Config holds user preferences.
type Config struct {
	PackagesDir string `json:"packagesDir,omitempty"`
	// Paths overrides the default installation target per tool.
	Paths map[string]string `json:"paths,omitempty"`
	// Telemetry is nil until the user has answered the consent question.
	Telemetry            *bool      `json:"telemetry,omitempty"`
	TelemetryConsentDate *time.Time `json:"telemetryConsentDate,omitempty"`
	LogLevel             string     `json:"logLevel,omitempty"`
}

// TelemetryEnabled reports whether the user opted in.
func (c *Config) TelemetryEnabled() bool {
	return c.Telemetry != nil && *c.Telemetry
}

// TelemetryDecided reports whether the user answered the consent question.
func (c *Config) TelemetryDecided() bool {
	return c.Telemetry != nil
}

// SetTelemetry records the user's consent decision.
func (c *Config) SetTelemetry(enabled bool, now time.Time) {
	t := now.UTC()
	c.Telemetry = &enabled
	c.TelemetryConsentDate = &t
}

// Validate checks tool names and the log level.
func (c *Config) Validate() error {
	var problems []string
	tools := make([]string, 0, len(c.Paths))
	for tool := range c.Paths {
		tools = append(tools, tool)
	}
	sort.Strings(tools)
	for _, tool := range tools {
		if _, ok := system.ByName(tool); !ok {
			problems = append(problems, fmt.Sprintf("paths: unknown tool %q", tool))
		}
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			problems = append(problems, fmt.Sprintf("logLevel: %v", err))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Manager handles reading and writing the configuration file.
type Manager struct {
	dir string
	mu  sync.RWMutex
}

// NewManager creates a Manager using the default directory (~/.agentkit/).
func NewManager() (*Manager, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}
	return &Manager{dir: filepath.Join(home, DirName)}, nil
}

// NewManagerWithDir creates a Manager using a custom directory.
func NewManagerWithDir(dir string) *Manager {
	return &Manager{dir: dir}
}

// Dir returns the agentkit directory.
func (m *Manager) Dir() string { return m.dir }

// Path returns the full path to the config file.
func (m *Manager) Path() string { return filepath.Join(m.dir, FileName) }

// Load reads the config from disk. A missing file yields an empty config.
// Comments and trailing commas are accepted.
func (m *Manager) Load() (*Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.load()
}

func (m *Manager) load() (*Config, error) {
	data, err := os.ReadFile(m.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", m.Path(), err)
	}
	var cfg Config
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", m.Path(), err)
	}
	return &cfg, nil
}

// Save writes the config atomically, creating the directory if needed.
func (m *Manager) Save(cfg *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save(cfg)
}

func (m *Manager) save(cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')
	if err := fsutil.AtomicWrite(m.Path(), data, 0o644); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

// Update loads the config, applies fn and saves the result.
func (m *Manager) Update(fn func(*Config) error) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg, err := m.load()
	if err != nil {
		return nil, err
	}
	if err := fn(cfg); err != nil {
		return nil, err
	}
	if err := m.save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PackageSource names where the package root came from.
type PackageSource string

const (
	SourceFlag       PackageSource = "flag"
	SourceEnv        PackageSource = "env"
	SourceConfig     PackageSource = "config"
	SourceExecutable PackageSource = "executable"
	SourceWorkingDir PackageSource = "working directory"
)

// ResolvePackagesDir picks the package root: the flag value, then
// $AGENTKIT_PACKAGES, then the config's packagesDir, then a packages
// directory next to the executable, then ./packages.
func ResolvePackagesDir(flag string, cfg *Config) (string, PackageSource, error) {
	candidates := []struct {
		dir    string
		source PackageSource
	}{
		{flag, SourceFlag},
		{os.Getenv(PackagesEnv), SourceEnv},
	}
	if cfg != nil {
		candidates = append(candidates, struct {
			dir    string
			source PackageSource
		}{cfg.PackagesDir, SourceConfig})
	}
	for _, c := range candidates {
		if c.dir == "" {
			continue
		}
		abs, err := filepath.Abs(expandHome(c.dir))
		if err != nil {
			return "", c.source, fmt.Errorf("resolving packages directory %s: %w", c.dir, err)
		}
		return abs, c.source, nil
	}

	if exe, err := os.Executable(); err == nil {
		if real, err := filepath.EvalSymlinks(exe); err == nil {
			exe = real
		}
		dir := filepath.Join(filepath.Dir(exe), PackagesDirName)
		if fsutil.DirExists(dir) {
			return dir, SourceExecutable, nil
		}
	}

	abs, err := filepath.Abs(PackagesDirName)
	if err != nil {
		return "", SourceWorkingDir, err
	}
	return abs, SourceWorkingDir, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
