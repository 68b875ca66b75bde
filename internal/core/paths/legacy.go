package paths

import (
	"fmt"

	"github.com/barysiuk/agentkit/internal/core/catalog"
	"github.com/barysiuk/agentkit/internal/core/manifest"
	"github.com/barysiuk/agentkit/internal/fsutil"
)

// Existing describes what is already at an installation target.
type Existing struct {
	Path     string
	Exists   bool
	Manifest *manifest.Manifest
}

// CheckExisting looks for a managed installation at p. A manifest that
// cannot be read is reported as an error.
func (r *Resolver) CheckExisting(p string) (Existing, error) {
	full := r.Expand(p)
	ex := Existing{Path: full}
	if !manifest.Exists(full) {
		return ex, nil
	}
	m, err := manifest.Read(full)
	if err != nil {
		return ex, err
	}
	ex.Exists = true
	ex.Manifest = m
	return ex, nil
}

// Legacy describes an installation made before manifests existed.
type Legacy struct {
	Tool             string
	Path             string
	Exists           bool
	IsLegacy         bool
	Content          catalog.Content
	Components       manifest.Components
	SuggestedVariant string
	Reason           string
}

// DetectLegacy inspects a tool's target directory. Its installation is legacy
// when the directory exists and holds no manifest.
func (r *Resolver) DetectLegacy(tool, target string) (Legacy, error) {
	if target == "" {
		def, err := r.DefaultPath(tool)
		if err != nil {
			return Legacy{}, err
		}
		target = def
	}
	full := r.Expand(target)
	res := Legacy{Tool: tool, Path: full}

	if !fsutil.DirExists(full) {
		return res, nil
	}
	res.Exists = true

	if manifest.Exists(full) {
		res.Reason = "installation has " + manifest.FileName
		return res, nil
	}

	content, err := catalog.Scan(full)
	if err != nil {
		return res, fmt.Errorf("scanning %s: %w", full, err)
	}
	res.IsLegacy = true
	res.Content = content
	res.Components = manifest.Count(content)
	res.SuggestedVariant = ClassifyVariant(res.Components)
	res.Reason = "no " + manifest.FileName + " found"
	return res, nil
}

// ClassifyVariant guesses which variant produced an installation from its
// agent and skill counts.
func ClassifyVariant(c manifest.Components) string {
	agents, skills := c.Agents, c.Skills
	switch {
	case agents == 3 && skills == 0:
		return catalog.Lite
	case agents >= 13 && skills >= 9:
		return catalog.Pro
	case agents >= 10 && skills >= 1 && skills <= 8:
		return catalog.Standard
	case agents <= 3:
		return catalog.Lite
	case agents >= 10:
		if skills >= 9 {
			return catalog.Pro
		}
		return catalog.Standard
	}
	return catalog.Standard
}
