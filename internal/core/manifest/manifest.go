// Package manifest reads and writes the record of what an installation put
// into a target directory. Uninstall, upgrade and verify consult only the
// manifest to decide which files are managed.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/barysiuk/agentkit/internal/core/catalog"
	"github.com/barysiuk/agentkit/internal/fsutil"
	"github.com/tailscale/hujson"
)

// FileName is the manifest's name inside an install target.
const FileName = "manifest.json"

var (
	// ErrNotFound is returned by Read when the target has no manifest.
	ErrNotFound = errors.New("manifest not found")
	// ErrMalformed is returned by Read when the manifest cannot be decoded.
	ErrMalformed = errors.New("manifest malformed")
)

// Components counts installed items per category.
type Components struct {
	Agents    int `json:"agents"`
	Skills    int `json:"skills"`
	Resources int `json:"resources"`
	Hooks     int `json:"hooks"`
}

// Count returns the per-category counts of c.
func Count(c catalog.Content) Components {
	return Components{
		Agents:    len(c.Agents),
		Skills:    len(c.Skills),
		Resources: len(c.Resources),
		Hooks:     len(c.Hooks),
	}
}

// Total returns the sum of all categories.
func (c Components) Total() int {
	return c.Agents + c.Skills + c.Resources + c.Hooks
}

// Manifest is the JSON document stored at <target>/manifest.json.
type Manifest struct {
	Tool         string              `json:"tool"`
	Variant      string              `json:"variant"`
	Version      string              `json:"version"`
	InstalledAt  time.Time           `json:"installed_at"`
	UpdatedAt    *time.Time          `json:"updated_at,omitempty"`
	MigratedFrom string              `json:"migrated_from,omitempty"`
	VariantInfo  catalog.VariantInfo `json:"variantInfo"`
	Components   Components          `json:"components"`
	// InstalledFiles is authoritative: only these items are managed.
	InstalledFiles catalog.Content `json:"installedFiles"`
}

// New builds a manifest for a fresh installation.
func New(tool, variant, version string, info catalog.VariantInfo, files catalog.Content, now time.Time) *Manifest {
	files = files.Normalized()
	return &Manifest{
		Tool:           tool,
		Variant:        variant,
		Version:        version,
		InstalledAt:    now.UTC(),
		VariantInfo:    info,
		Components:     Count(files),
		InstalledFiles: files,
	}
}

// Path returns the manifest path inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Exists reports whether dir holds a manifest file.
func Exists(dir string) bool {
	return fsutil.FileExists(Path(dir))
}

// Read loads the manifest of dir.
func Read(dir string) (*Manifest, error) {
	path := Path(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	var m Manifest
	if err := json.Unmarshal(std, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	if m.Tool == "" || m.Variant == "" {
		return nil, fmt.Errorf("%w: %s: tool and variant are required", ErrMalformed, path)
	}
	for _, cat := range catalog.Categories {
		for _, id := range m.InstalledFiles.Get(cat) {
			if !ValidID(id) {
				return nil, fmt.Errorf("%w: %s: invalid %s identifier %q", ErrMalformed, path, cat.Singular(), id)
			}
		}
	}
	m.InstalledFiles = m.InstalledFiles.Normalized()
	return &m, nil
}

// ValidID reports whether id names a single entry inside its category
// directory.
func ValidID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsRune(id, '/') && !strings.ContainsRune(id, filepath.Separator)
}

// Write stores m in dir atomically. Components are recomputed from
// InstalledFiles first so the two can never disagree on disk.
func Write(dir string, m *Manifest) error {
	m.InstalledFiles = m.InstalledFiles.Normalized()
	m.Components = Count(m.InstalledFiles)

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	data = append(data, '\n')
	if err := fsutil.AtomicWrite(Path(dir), data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// Remove deletes the manifest of dir. A missing manifest is not an error.
func Remove(dir string) error {
	if err := os.Remove(Path(dir)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing manifest: %w", err)
	}
	return nil
}

// Consistent reports whether Components matches InstalledFiles.
func (m *Manifest) Consistent() bool {
	return m.Components == Count(m.InstalledFiles)
}

// Diff compares the installed files with next and returns what must be added
// and removed to reach next.
func (m *Manifest) Diff(next catalog.Content) (toAdd, toRemove catalog.Content) {
	return m.InstalledFiles.Diff(next)
}

// Rewrite replaces variant and files for an upgrade or downgrade, keeping
// the original installation time.
func (m *Manifest) Rewrite(variant, version string, info catalog.VariantInfo, files catalog.Content, now time.Time) {
	t := now.UTC()
	m.Variant = variant
	m.Version = version
	m.VariantInfo = info
	m.InstalledFiles = files.Normalized()
	m.Components = Count(m.InstalledFiles)
	m.UpdatedAt = &t
}
