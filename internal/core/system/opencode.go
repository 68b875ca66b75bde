package system

// OpenCode implements the System interface for the OpenCode CLI.
type OpenCode struct {
	BaseSystem
}

// NewOpenCode creates a configured OpenCode system.
func NewOpenCode() *OpenCode {
	return &OpenCode{BaseSystem{
		name:          "opencode",
		displayName:   "OpenCode",
		description:   "CLI-optimized AI codegen tool",
		defaultTarget: "~/.config/opencode",
		detectPaths:   []string{"$XDG_CONFIG/opencode"},
	}}
}
