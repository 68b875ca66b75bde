package system

// Droid implements the System interface for Factory's Droid.
type Droid struct {
	BaseSystem
}

// NewDroid creates a configured Droid system.
func NewDroid() *Droid {
	return &Droid{BaseSystem{
		name:          "droid",
		displayName:   "Droid",
		description:   "Factory AI development companion",
		defaultTarget: "~/.factory",
		detectPaths:   []string{"~/.factory"},
	}}
}
