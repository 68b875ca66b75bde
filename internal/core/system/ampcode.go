package system

// Ampcode implements the System interface for Amp.
type Ampcode struct {
	BaseSystem
}

// NewAmpcode creates a configured Amp system.
func NewAmpcode() *Ampcode {
	return &Ampcode{BaseSystem{
		name:          "ampcode",
		displayName:   "Ampcode",
		description:   "Amplified AI development accelerator",
		defaultTarget: "~/.config/amp",
		detectPaths:   []string{"$XDG_CONFIG/amp", "~/.amp"},
	}}
}
