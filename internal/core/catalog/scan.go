package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/barysiuk/agentkit/internal/fsutil"
)

// Scan inventories what a package directory (or an install target) actually
// holds. Agents are "*.md" files named without the extension, skills are
// directories, resources and hooks are files named in full. Hidden entries
// are ignored and a missing category directory yields an empty list.
func Scan(dir string) (Content, error) {
	var c Content
	for _, cat := range Categories {
		ids, err := scanCategory(filepath.Join(dir, string(cat)), cat)
		if err != nil {
			return Content{}, err
		}
		c.Set(cat, ids)
	}
	return c, nil
}

func scanCategory(dir string, cat Category) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if fsutil.IsHidden(name) {
			continue
		}
		isDir := entryIsDir(dir, e)

		switch cat {
		case Skills:
			if isDir {
				ids = append(ids, name)
			}
		case Agents:
			if !isDir && strings.HasSuffix(name, agentExt) {
				ids = append(ids, strings.TrimSuffix(name, agentExt))
			}
		default:
			if !isDir {
				ids = append(ids, name)
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// entryIsDir follows symlinks so a linked skill directory still counts.
func entryIsDir(dir string, e os.DirEntry) bool {
	if e.Type()&os.ModeSymlink == 0 {
		return e.IsDir()
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && info.IsDir()
}
