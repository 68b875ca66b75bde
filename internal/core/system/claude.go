package system

// Claude implements the System interface for Claude Code.
type Claude struct {
	BaseSystem
}

// NewClaude creates a configured Claude Code system.
func NewClaude() *Claude {
	return &Claude{BaseSystem{
		name:          "claude",
		displayName:   "Claude Code",
		description:   "AI-powered development assistant",
		defaultTarget: "~/.claude",
		detectPaths:   []string{"~/.claude"},
	}}
}
