package engine

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/barysiuk/agentkit/internal/core/catalog"
	"github.com/barysiuk/agentkit/internal/fsutil"
)

// copyOp copies one file of an item into the target.
type copyOp struct {
	Category catalog.Category
	ID       string
	Src      string
	Dst      string
	// Rel is the destination relative to the target, slash separated.
	Rel  string
	Size int64
}

// plan is the ordered list of files an operation writes.
type plan struct {
	ops   []copyOp
	bytes int64
	// dirs lists skill directories to create even when they hold no files.
	dirs []string
}

// buildPlan expands entries into per-file copy operations. Skill directories
// contribute every regular file below them.
func buildPlan(entries []catalog.Entry, target string) (*plan, error) {
	p := &plan{}
	for _, e := range entries {
		rel := e.Rel()
		if !e.Dir {
			p.add(e, e.Source, rel, target)
			continue
		}
		files, err := fsutil.ListFiles(e.Source)
		if err != nil {
			return nil, err
		}
		p.dirs = append(p.dirs, filepath.Join(target, rel))
		for _, f := range files {
			p.add(e, filepath.Join(e.Source, filepath.FromSlash(f)), filepath.Join(rel, filepath.FromSlash(f)), target)
		}
	}
	return p, nil
}

func (p *plan) add(e catalog.Entry, src, rel, target string) {
	var size int64
	if info, err := os.Stat(src); err == nil {
		size = info.Size()
	}
	p.ops = append(p.ops, copyOp{
		Category: e.Category,
		ID:       e.ID,
		Src:      src,
		Dst:      filepath.Join(target, rel),
		Rel:      displayRel(rel),
		Size:     size,
	})
	p.bytes += size
}

// destinations returns the target-relative paths the plan writes.
func (p *plan) destinations() []string {
	rels := make([]string, len(p.ops))
	for i, op := range p.ops {
		rels[i] = filepath.FromSlash(op.Rel)
	}
	return rels
}

// sameContent reports whether dst already holds exactly the bytes of src.
func sameContent(src, dst string) bool {
	di, err := os.Stat(dst)
	if err != nil || di.IsDir() {
		return false
	}
	si, err := os.Stat(src)
	if err != nil || si.Size() != di.Size() {
		return false
	}
	a, err := os.ReadFile(src)
	if err != nil {
		return false
	}
	b, err := os.ReadFile(dst)
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// entriesFor maps the items of c to package entries of a file set's package.
func entriesFor(pkgDir string, c catalog.Content) []catalog.Entry {
	var out []catalog.Entry
	for _, cat := range catalog.Categories {
		for _, id := range c.Get(cat) {
			out = append(out, catalog.Entry{
				Category: cat,
				ID:       id,
				Source:   filepath.Join(pkgDir, catalog.RelPath(cat, id)),
				Dir:      cat == catalog.Skills,
			})
		}
	}
	return out
}
