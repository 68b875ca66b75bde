package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/barysiuk/agentkit/internal/fsutil"
	"github.com/barysiuk/agentkit/internal/logger"
	"github.com/sirupsen/logrus"
)

// Entry is one resolved item mapped to its location in the package.
type Entry struct {
	Category Category
	ID       string
	// Source is the absolute path of the item in the package.
	Source string
	// Dir is true for skills, which are copied as whole trees.
	Dir bool
}

// Rel returns the item's path relative to a package or install root.
func (e Entry) Rel() string { return RelPath(e.Category, e.ID) }

// FileSet is the concrete content to copy for a (tool, variant) pair.
type FileSet struct {
	Tool       string
	Variant    string
	PackageDir string
	Info       VariantInfo

	// Items lists the identifiers that exist on disk; it is what a
	// manifest records as installedFiles.
	Items Content

	AgentPaths    []string
	SkillDirPaths []string
	ResourcePaths []string
	HookPaths     []string

	// Dropped lists resolved items whose file or directory was not found.
	Dropped []MissingItem
}

// TotalFiles counts items, with each skill directory counting as one unit.
func (fs *FileSet) TotalFiles() int {
	return len(fs.AgentPaths) + len(fs.SkillDirPaths) + len(fs.ResourcePaths) + len(fs.HookPaths)
}

// Entries returns the items in installation order.
func (fs *FileSet) Entries() []Entry {
	var out []Entry
	for _, cat := range Categories {
		for _, id := range fs.Items.Get(cat) {
			out = append(out, Entry{
				Category: cat,
				ID:       id,
				Source:   filepath.Join(fs.PackageDir, RelPath(cat, id)),
				Dir:      cat == Skills,
			})
		}
	}
	return out
}

// FileSet resolves a variant and maps the selection to package paths. An item
// that resolves but whose path is missing or has the wrong kind is dropped
// and logged rather than failing the whole set.
func (c *Catalog) FileSet(ctx context.Context, tool, variant string) (*FileSet, error) {
	v, err := c.Variant(tool, variant)
	if err != nil {
		return nil, err
	}

	pkgDir := c.PackageDir(tool)
	if !fsutil.DirExists(pkgDir) {
		return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, pkgDir)
	}

	selected, err := c.Selection(tool, variant)
	if err != nil {
		return nil, err
	}

	fs := &FileSet{
		Tool:       tool,
		Variant:    variant,
		PackageDir: pkgDir,
		Info:       v.VariantInfo,
	}

	log := logger.G(ctx).WithFields(logrus.Fields{"tool": tool, "variant": variant})
	for _, cat := range Categories {
		var kept []string
		for _, id := range selected.Get(cat) {
			path := filepath.Join(pkgDir, RelPath(cat, id))
			if !itemPresent(path, cat) {
				log.WithField("category", cat).Warnf("%s '%s' resolved but %s is missing; skipping", cat.Singular(), id, path)
				fs.Dropped = append(fs.Dropped, MissingItem{Category: cat, ID: id})
				continue
			}
			kept = append(kept, id)
			switch cat {
			case Agents:
				fs.AgentPaths = append(fs.AgentPaths, path)
			case Skills:
				fs.SkillDirPaths = append(fs.SkillDirPaths, path)
			case Resources:
				fs.ResourcePaths = append(fs.ResourcePaths, path)
			case Hooks:
				fs.HookPaths = append(fs.HookPaths, path)
			}
		}
		fs.Items.Set(cat, kept)
	}

	log.WithField("total", fs.TotalFiles()).Debug("resolved file set")
	return fs, nil
}

func itemPresent(path string, cat Category) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if cat == Skills {
		return info.IsDir()
	}
	return !info.IsDir()
}

// PackageSize sums the bytes of every item in a variant's file set. Skills
// contribute their whole tree. Unreadable files count as zero.
func (c *Catalog) PackageSize(ctx context.Context, tool, variant string) (int64, error) {
	fs, err := c.FileSet(ctx, tool, variant)
	if err != nil {
		return 0, err
	}
	return fs.Size(), nil
}

// Size sums the bytes of every item in the set.
func (fs *FileSet) Size() int64 {
	var total int64
	for _, e := range fs.Entries() {
		total += fsutil.TreeSize(e.Source)
	}
	return total
}

// FormatBytes renders a byte count as "0 Bytes", "512 Bytes", "1.5 KB",
// "8.39 MB" and so on.
func FormatBytes(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB", "TB"}
	f := float64(n)
	i := 0
	for f >= 1024 && i < len(units)-1 {
		f /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d Bytes", n)
	}
	s := fmt.Sprintf("%.2f", f)
	// Trim trailing zeros: "1.50" -> "1.5", "2.00" -> "2".
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s + " " + units[i]
}
