// Package system defines the AI coding tools agentkit installs into.
//
// A System represents one tool (Claude Code, OpenCode, Amp, Droid). Each
// system knows its identity, its default installation target and how to tell
// whether it is present on this machine. Systems are self-contained Go
// structs registered at init time.
package system

import (
	"fmt"
	"strings"
)

// System describes an AI coding tool that receives an installed package.
type System interface {
	// Identity
	Name() string        // machine name, also the package directory: "claude"
	DisplayName() string // human name: "Claude Code"
	Description() string

	// DefaultTarget is the installation directory used when none is given.
	// It may start with "~".
	DefaultTarget() string

	// Detection
	IsInstalled() bool     // any detection path exists
	DetectPaths() []string // expanded detection paths
}

// --- Registry ---

var systems []System

// Tools are listed in this order everywhere.
func init() {
	Register(NewClaude())
	Register(NewOpenCode())
	Register(NewAmpcode())
	Register(NewDroid())
}

// Register adds a system to the global registry.
func Register(s System) { systems = append(systems, s) }

// All returns all registered systems in registration order.
func All() []System { return systems }

// ByName returns the system with the given machine name, if registered.
func ByName(name string) (System, bool) {
	for _, s := range systems {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// ByNames resolves a list of system names to System values.
// Returns an error if any name is unknown.
func ByNames(names []string) ([]System, error) {
	result := make([]System, 0, len(names))
	for _, name := range names {
		s, ok := ByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown tool %q; available: %s",
				name, strings.Join(Names(systems), ", "))
		}
		result = append(result, s)
	}
	return result, nil
}

// Detect returns all systems installed on this machine.
func Detect() []System {
	var detected []System
	for _, s := range systems {
		if s.IsInstalled() {
			detected = append(detected, s)
		}
	}
	return detected
}

// Names returns the machine names of the given systems.
func Names(systems []System) []string {
	names := make([]string, len(systems))
	for i, s := range systems {
		names[i] = s.Name()
	}
	return names
}

// DisplayNames returns the display names of the given systems.
func DisplayNames(systems []System) []string {
	names := make([]string, len(systems))
	for i, s := range systems {
		names[i] = s.DisplayName()
	}
	return names
}
