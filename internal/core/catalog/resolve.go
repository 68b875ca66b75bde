package catalog

import "slices"

// Resolve applies a variant declaration to the available inventory.
//
// A wildcard selector takes every available item of its category. An explicit
// list is returned as written, order preserved, provided every identifier is
// available; otherwise an *ItemNotFoundError naming all missing items across
// all categories is returned.
func Resolve(v Variant, variant string, available Content) (Content, error) {
	var (
		selected Content
		missing  []MissingItem
	)

	for _, cat := range Categories {
		sel := v.Selector(cat)
		avail := available.Get(cat)

		if sel.IsAll() {
			selected.Set(cat, slices.Clone(avail))
			continue
		}

		items := sel.Items()
		for _, id := range items {
			if !slices.Contains(avail, id) {
				missing = append(missing, MissingItem{Category: cat, ID: id})
			}
		}
		selected.Set(cat, items)
	}

	if len(missing) > 0 {
		return Content{}, &ItemNotFoundError{
			Variant:   variant,
			Missing:   missing,
			Available: available.Normalized(),
		}
	}
	return selected, nil
}

// Selection loads, scans and resolves in one step.
func (c *Catalog) Selection(tool, variant string) (Content, error) {
	v, err := c.Variant(tool, variant)
	if err != nil {
		return Content{}, err
	}
	available, err := Scan(c.PackageDir(tool))
	if err != nil {
		return Content{}, err
	}
	selected, err := Resolve(v, variant, available)
	if err != nil {
		if nf, ok := err.(*ItemNotFoundError); ok {
			nf.Tool = tool
		}
		return Content{}, err
	}
	return selected, nil
}
