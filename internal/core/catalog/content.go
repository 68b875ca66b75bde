// Package catalog resolves which package files belong to a (tool, variant)
// pair.
//
// Every tool ships a package directory laid out as
//
//	packages/<tool>/{agents,skills,resources,hooks,variants.json}
//
// where variants.json declares, for each of the lite, standard and pro
// variants, which agents, skills, resources and hooks are included. The
// catalog reads that declaration, scans what is actually on disk, and turns
// the two into a concrete FileSet the engine can copy.
package catalog

import (
	"path/filepath"
	"slices"
)

// Category is one of the four kinds of content a package carries.
type Category string

const (
	Agents    Category = "agents"
	Skills    Category = "skills"
	Resources Category = "resources"
	Hooks     Category = "hooks"
)

// Categories lists every category in installation order.
var Categories = []Category{Agents, Skills, Resources, Hooks}

// Singular returns the singular noun for the category ("agent", "skill", ...).
func (c Category) Singular() string {
	switch c {
	case Agents:
		return "agent"
	case Skills:
		return "skill"
	case Resources:
		return "resource"
	case Hooks:
		return "hook"
	}
	return string(c)
}

// agentExt is the extension stripped from agent file names to form identifiers.
const agentExt = ".md"

// RelPath returns the path of an item relative to a package or install root.
// Agents are "<id>.md" files, skills are directories, resources and hooks
// keep their full file name.
func RelPath(cat Category, id string) string {
	if cat == Agents {
		return filepath.Join(string(cat), id+agentExt)
	}
	return filepath.Join(string(cat), id)
}

// Content holds item identifiers per category. It is used for the on-disk
// inventory, for resolved selections, and for a manifest's installedFiles.
type Content struct {
	Agents    []string `json:"agents"`
	Skills    []string `json:"skills"`
	Resources []string `json:"resources"`
	Hooks     []string `json:"hooks"`
}

// Get returns the identifiers of one category.
func (c Content) Get(cat Category) []string {
	switch cat {
	case Agents:
		return c.Agents
	case Skills:
		return c.Skills
	case Resources:
		return c.Resources
	case Hooks:
		return c.Hooks
	}
	return nil
}

// Set replaces the identifiers of one category. A nil slice is stored as an
// empty one so the JSON form always carries arrays.
func (c *Content) Set(cat Category, ids []string) {
	if ids == nil {
		ids = []string{}
	}
	switch cat {
	case Agents:
		c.Agents = ids
	case Skills:
		c.Skills = ids
	case Resources:
		c.Resources = ids
	case Hooks:
		c.Hooks = ids
	}
}

// Contains reports whether id is listed under cat.
func (c Content) Contains(cat Category, id string) bool {
	return slices.Contains(c.Get(cat), id)
}

// Total returns the number of identifiers across all categories.
func (c Content) Total() int {
	return len(c.Agents) + len(c.Skills) + len(c.Resources) + len(c.Hooks)
}

// Normalized returns a copy with every nil category replaced by an empty slice.
func (c Content) Normalized() Content {
	var out Content
	for _, cat := range Categories {
		out.Set(cat, slices.Clone(c.Get(cat)))
	}
	return out
}

// Diff compares c (the current content) with next and returns, per category,
// the identifiers present only in next (toAdd) and only in c (toRemove).
// Order follows next for additions and c for removals.
func (c Content) Diff(next Content) (toAdd, toRemove Content) {
	for _, cat := range Categories {
		cur, nxt := c.Get(cat), next.Get(cat)
		var add, remove []string
		for _, id := range nxt {
			if !slices.Contains(cur, id) {
				add = append(add, id)
			}
		}
		for _, id := range cur {
			if !slices.Contains(nxt, id) {
				remove = append(remove, id)
			}
		}
		toAdd.Set(cat, add)
		toRemove.Set(cat, remove)
	}
	return toAdd, toRemove
}
