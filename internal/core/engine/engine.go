// Package engine installs, uninstalls, upgrades and verifies tool packages
// at installation targets.
//
// Every mutating operation works on exactly one (tool, target) pair. Files
// the operation may destroy are first copied into a timestamped backup next
// to the target, and any failure rolls the target back to the state it had
// before the call. Only files listed in the target's manifest are managed;
// anything else in the target is left where it is.
package engine

import (
	"time"

	"github.com/barysiuk/agentkit/internal/core/catalog"
	"github.com/barysiuk/agentkit/internal/core/manifest"
	"github.com/barysiuk/agentkit/internal/core/paths"
	"github.com/barysiuk/agentkit/internal/fsutil"
)

// DefaultVersion is written into manifests when no version is configured.
const DefaultVersion = "dev"

// Stage names a phase of an operation in progress events.
type Stage string

const (
	StageReadingManifest   Stage = "reading_manifest"
	StageComparingVariants Stage = "comparing_variants"
	StageCreatingBackup    Stage = "creating_backup"
	StageRemovingFiles     Stage = "removing_files"
	StageAddingFiles       Stage = "adding_files"
	StageUpdatingManifest  Stage = "updating_manifest"
	StageVerifying         Stage = "verifying"
	StageComplete          Stage = "complete"
)

// Progress is reported after every file an operation copies or removes.
type Progress struct {
	Tool             string
	Stage            Stage
	CurrentFile      string
	FilesCompleted   int
	TotalFiles       int
	Percentage       int
	BytesTransferred int64
	TotalBytes       int64
	FilesRemoved     int
}

// ProgressFunc receives progress events synchronously. It may be nil.
type ProgressFunc func(Progress)

// ConfirmFunc is asked before a destructive operation; returning false
// aborts it without changes. It may be nil, meaning "yes".
type ConfirmFunc func(prompt string) bool

// CopyFunc copies one regular file. The destination's parent exists.
type CopyFunc func(src, dst string) error

// Option configures an Engine.
type Option func(*Engine)

// WithVersion sets the version recorded in manifests.
func WithVersion(v string) Option {
	return func(e *Engine) { e.version = v }
}

// WithClock sets the time source used for manifests and backup names.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithCopier replaces the file copy primitive.
func WithCopier(fn CopyFunc) Option {
	return func(e *Engine) { e.copyFile = fn }
}

// Engine drives single-target operations.
type Engine struct {
	catalog  *catalog.Catalog
	paths    *paths.Resolver
	version  string
	now      func() time.Time
	copyFile CopyFunc
	// readManifest is manifest.Read outside tests.
	readManifest func(dir string) (*manifest.Manifest, error)
}

// New returns an Engine reading packages from cat and checking targets with
// resolver.
func New(cat *catalog.Catalog, resolver *paths.Resolver, opts ...Option) *Engine {
	e := &Engine{
		catalog:  cat,
		paths:    resolver,
		version:  DefaultVersion,
		now:      time.Now,
		copyFile: fsutil.CopyFile,

		readManifest: manifest.Read,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog the engine reads packages from.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Paths returns the engine's path resolver.
func (e *Engine) Paths() *paths.Resolver { return e.paths }

// Version returns the version recorded in manifests.
func (e *Engine) Version() string { return e.version }

func percentage(done, total int) int {
	if total <= 0 {
		return 100
	}
	return done * 100 / total
}

func emit(fn ProgressFunc, p Progress) {
	if fn != nil {
		fn(p)
	}
}

func confirm(fn ConfirmFunc, prompt string) bool {
	if fn == nil {
		return true
	}
	return fn(prompt)
}
