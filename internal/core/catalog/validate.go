package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Validation is the result of checking a (tool, variant) package.
type Validation struct {
	Tool    string
	Variant string
	// Valid is true exactly when Issues is empty.
	Valid        bool
	Issues       []string
	Warnings     []string
	CheckedFiles int
	MissingFiles []string
}

// Validate checks that every item a variant selects exists in the package.
// It collects every problem instead of stopping at the first one.
func (c *Catalog) Validate(ctx context.Context, tool, variant string) *Validation {
	res := &Validation{Tool: tool, Variant: variant}
	defer func() { res.Valid = len(res.Issues) == 0 }()

	v, err := c.Variant(tool, variant)
	if err != nil {
		res.Issues = append(res.Issues, err.Error())
		return res
	}

	pkgDir := c.PackageDir(tool)
	available, err := Scan(pkgDir)
	if err != nil {
		res.Issues = append(res.Issues, err.Error())
		return res
	}

	selected, err := Resolve(v, variant, available)
	if err != nil {
		var nf *ItemNotFoundError
		if !errors.As(err, &nf) {
			res.Issues = append(res.Issues, err.Error())
			return res
		}
		for _, m := range nf.Missing {
			res.Issues = append(res.Issues, fmt.Sprintf("%s not found in %s/ (required by %s variant)", m, m.Category, variant))
			res.MissingFiles = append(res.MissingFiles, filepath.Join(pkgDir, RelPath(m.Category, m.ID)))
		}
		// Check what did resolve so the report is complete.
		selected = presentOnly(v, available)
	}

	for _, cat := range Categories {
		for _, id := range selected.Get(cat) {
			res.CheckedFiles++
			path := filepath.Join(pkgDir, RelPath(cat, id))
			if !itemPresent(path, cat) {
				res.Issues = append(res.Issues, fmt.Sprintf("%s '%s' missing at %s", cat.Singular(), id, path))
				res.MissingFiles = append(res.MissingFiles, path)
				continue
			}
			if cat == Skills {
				if _, err := os.Stat(filepath.Join(path, SkillFile)); err != nil {
					res.Warnings = append(res.Warnings, fmt.Sprintf("skill '%s' has no %s", id, SkillFile))
				}
			}
		}
	}
	return res
}

// presentOnly resolves a variant keeping only explicit items that exist.
func presentOnly(v Variant, available Content) Content {
	var out Content
	for _, cat := range Categories {
		sel := v.Selector(cat)
		if sel.IsAll() {
			out.Set(cat, available.Get(cat))
			continue
		}
		var ids []string
		for _, id := range sel.Items() {
			if available.Contains(cat, id) {
				ids = append(ids, id)
			}
		}
		out.Set(cat, ids)
	}
	return out
}

// ValidateAll validates every variant of a tool.
func (c *Catalog) ValidateAll(ctx context.Context, tool string) []*Validation {
	out := make([]*Validation, 0, len(VariantNames))
	for _, name := range VariantNames {
		out = append(out, c.Validate(ctx, tool, name))
	}
	return out
}
