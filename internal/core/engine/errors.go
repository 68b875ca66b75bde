package engine

import (
	"errors"
	"fmt"
	"syscall"
)

var (
	// ErrNotInstalled is returned when a target has no manifest.
	ErrNotInstalled = errors.New("not installed")
	// ErrCancelled is returned when the confirm callback declines.
	ErrCancelled = errors.New("cancelled by user")
	// ErrNoBackup is returned by Restore when no backup exists.
	ErrNoBackup = errors.New("no backup found")
	// ErrToolMismatch is returned when a manifest belongs to another tool.
	ErrToolMismatch = errors.New("manifest belongs to a different tool")
	// ErrOutsideTarget is returned when an item path leaves the target.
	ErrOutsideTarget = errors.New("path escapes the install target")
)

// OpError reports a filesystem failure during a mutating operation and
// whether the target was rolled back.
type OpError struct {
	Op    string // install, uninstall, upgrade, restore
	Tool  string
	Path  string
	Stage Stage
	// Code is the OS error name (EACCES, ENOSPC, ...) when known.
	Code        string
	Err         error
	RolledBack  bool
	RollbackErr error
	BackupPath  string
}

func (e *OpError) Error() string {
	msg := fmt.Sprintf("%s %s failed", e.Op, e.Tool)
	if e.Stage != "" {
		msg += " while " + string(e.Stage)
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	msg += ": " + e.Err.Error()
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	switch {
	case e.RollbackErr != nil:
		msg += "; rollback failed: " + e.RollbackErr.Error()
		if e.BackupPath != "" {
			msg += "; backup kept at " + e.BackupPath
		}
	case e.RolledBack:
		msg += "; changes rolled back"
	}
	return msg
}

func (e *OpError) Unwrap() error { return e.Err }

var errnoNames = map[syscall.Errno]string{
	syscall.EACCES:  "EACCES",
	syscall.EPERM:   "EPERM",
	syscall.ENOSPC:  "ENOSPC",
	syscall.EIO:     "EIO",
	syscall.EROFS:   "EROFS",
	syscall.ENOENT:  "ENOENT",
	syscall.EEXIST:  "EEXIST",
	syscall.ENOTDIR: "ENOTDIR",
	syscall.EISDIR:  "EISDIR",
	syscall.EMFILE:  "EMFILE",
	syscall.EBUSY:   "EBUSY",
	syscall.EDQUOT:  "EDQUOT",
}

// ErrnoName returns the symbolic OS error code wrapped in err, or "".
func ErrnoName(err error) string {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return ""
	}
	if name, ok := errnoNames[errno]; ok {
		return name
	}
	return fmt.Sprintf("errno %d", int(errno))
}
