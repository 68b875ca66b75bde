package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/barysiuk/agentkit/internal/core/catalog"
	"github.com/barysiuk/agentkit/internal/fsutil"
	"github.com/barysiuk/agentkit/internal/logger"
)

// CategoryCheck compares one category of a manifest with the target.
type CategoryCheck struct {
	Category catalog.Category
	Expected int
	Found    int
	Missing  []string
	Extra    []string
}

// Verification is the result of checking a target against its manifest.
type Verification struct {
	Tool       string
	Path       string
	Variant    string
	Version    string
	Valid      bool
	Issues     []string
	Warnings   []string
	Categories []CategoryCheck
}

// Verify checks that every item the manifest lists is present in target.
// Unmanaged items are reported as warnings only.
func (e *Engine) Verify(ctx context.Context, tool, target string) (*Verification, error) {
	abs, err := e.paths.Sanitize(target)
	if err != nil {
		return nil, err
	}
	m, err := readManaged(abs, tool)
	if err != nil {
		return nil, err
	}

	onDisk, err := catalog.Scan(abs)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", abs, err)
	}

	v := &Verification{Tool: tool, Path: abs, Variant: m.Variant, Version: m.Version}
	if !m.Consistent() {
		v.Issues = append(v.Issues, fmt.Sprintf("manifest components %+v do not match its installed files", m.Components))
	}

	for _, cat := range catalog.Categories {
		expected := m.InstalledFiles.Get(cat)
		found := onDisk.Get(cat)
		check := CategoryCheck{Category: cat, Expected: len(expected)}
		for _, id := range expected {
			if slices.Contains(found, id) {
				check.Found++
				continue
			}
			check.Missing = append(check.Missing, id)
			v.Issues = append(v.Issues, fmt.Sprintf("%s '%s' missing from %s/", cat.Singular(), id, cat))
		}
		for _, id := range found {
			if !slices.Contains(expected, id) {
				check.Extra = append(check.Extra, id)
				v.Warnings = append(v.Warnings, fmt.Sprintf("%s '%s' in %s/ is not managed by agentkit", cat.Singular(), id, cat))
			}
		}
		if cat == catalog.Skills {
			for _, id := range expected {
				dir := filepath.Join(abs, catalog.RelPath(cat, id))
				if fsutil.DirExists(dir) && !fsutil.FileExists(filepath.Join(dir, catalog.SkillFile)) {
					v.Warnings = append(v.Warnings, fmt.Sprintf("skill '%s' has no %s", id, catalog.SkillFile))
				}
			}
		}
		v.Categories = append(v.Categories, check)
	}

	v.Valid = len(v.Issues) == 0
	logger.G(ctx).WithField("tool", tool).WithField("valid", v.Valid).
		WithField("issues", len(v.Issues)).Debug("verified installation")
	return v, nil
}
