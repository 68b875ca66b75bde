package system

import (
	"os"
	"path/filepath"
	"strings"
)

// BaseSystem provides the common System implementation. Individual systems
// embed it and override methods as needed.
type BaseSystem struct {
	name          string
	displayName   string
	description   string
	defaultTarget string   // installation directory (with ~ or $VAR)
	detectPaths   []string // files/dirs to check for a global installation
}

func (b *BaseSystem) Name() string          { return b.name }
func (b *BaseSystem) DisplayName() string   { return b.displayName }
func (b *BaseSystem) Description() string   { return b.description }
func (b *BaseSystem) DefaultTarget() string { return b.defaultTarget }

func (b *BaseSystem) IsInstalled() bool {
	for _, p := range b.DetectPaths() {
		if dirExists(p) {
			return true
		}
	}
	return false
}

// DetectPaths returns the detection paths (expanded).
func (b *BaseSystem) DetectPaths() []string {
	result := make([]string, len(b.detectPaths))
	for i, p := range b.detectPaths {
		result[i] = expandPath(p)
	}
	return result
}

// expandPath resolves $XDG_CONFIG, other environment variables and a leading ~.
func expandPath(p string) string {
	if strings.Contains(p, "$XDG_CONFIG") {
		xdgConfig := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfig == "" {
			home, _ := os.UserHomeDir()
			xdgConfig = filepath.Join(home, ".config")
		}
		p = strings.ReplaceAll(p, "$XDG_CONFIG", xdgConfig)
	}

	if strings.Contains(p, "$") {
		p = os.ExpandEnv(p)
	}

	if strings.HasPrefix(p, "~/") {
		home, _ := os.UserHomeDir()
		p = filepath.Join(home, p[2:])
	} else if p == "~" {
		home, _ := os.UserHomeDir()
		p = home
	}
	return p
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
