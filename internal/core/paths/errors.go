package paths

import "fmt"

// Kind classifies a rejected path.
type Kind int

const (
	// PathUnsafe covers null bytes, reserved system directories and
	// symlinks that resolve somewhere unsafe.
	PathUnsafe Kind = iota + 1
	// PathOutsideSandbox is a path outside the home and temp directories.
	PathOutsideSandbox
	// PathNotWritable is a path the current user cannot write to.
	PathNotWritable
)

func (k Kind) String() string {
	switch k {
	case PathUnsafe:
		return "unsafe path"
	case PathOutsideSandbox:
		return "path outside sandbox"
	case PathNotWritable:
		return "path not writable"
	}
	return "invalid path"
}

// PathError reports why a target path was rejected and what to do about it.
type PathError struct {
	Kind   Kind
	Path   string
	Reason string
	Remedy string
	Err    error
}

func (e *PathError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Kind, e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PathError) Unwrap() error { return e.Err }
