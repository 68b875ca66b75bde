package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/barysiuk/agentkit/internal/core/catalog"
	"github.com/barysiuk/agentkit/internal/core/manifest"
	"github.com/barysiuk/agentkit/internal/fsutil"
)

// UninstallOptions configures an uninstall.
type UninstallOptions struct {
	Confirm  ConfirmFunc
	Progress ProgressFunc
}

// UninstallResult reports what an uninstall removed and what it left alone.
type UninstallResult struct {
	Tool               string
	Path               string
	Variant            string
	FilesRemoved       int
	DirectoriesRemoved int
	BackupPath         string
	// Preserved lists entries of the target the manifest did not own.
	Preserved []string
	Warnings  []string
}

// readManaged loads the manifest of an installed target and checks it
// belongs to tool.
func readManaged(target, tool string) (*manifest.Manifest, error) {
	if !fsutil.DirExists(target) {
		return nil, fmt.Errorf("%w: %s does not exist", ErrNotInstalled, target)
	}
	m, err := manifest.Read(target)
	if err != nil {
		if errors.Is(err, manifest.ErrNotFound) {
			return nil, fmt.Errorf("%w: no %s in %s", ErrNotInstalled, manifest.FileName, target)
		}
		return nil, err
	}
	if m.Tool != tool {
		return nil, fmt.Errorf("%w: %s holds an installation of %s", ErrToolMismatch, target, m.Tool)
	}
	return m, nil
}

// Uninstall removes exactly the items listed in the target's manifest, then
// the manifest itself. Everything else in the target is preserved.
func (e *Engine) Uninstall(ctx context.Context, tool, target string, opts UninstallOptions) (*UninstallResult, error) {
	abs, err := e.paths.Sanitize(target)
	if err != nil {
		return nil, err
	}

	emit(opts.Progress, Progress{Tool: tool, Stage: StageReadingManifest})
	m, err := readManaged(abs, tool)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Remove %d item(s) of the %s %s installation from %s?",
		m.InstalledFiles.Total(), tool, m.Variant, e.paths.Display(abs))
	if !confirm(opts.Confirm, prompt) {
		return nil, ErrCancelled
	}

	t := e.begin(ctx, "uninstall", tool, abs, true)
	res := &UninstallResult{Tool: tool, Path: abs, Variant: m.Variant}

	rels := itemRels(m.InstalledFiles)
	emit(opts.Progress, Progress{Tool: tool, Stage: StageCreatingBackup, TotalFiles: len(rels)})
	if err := t.backup(KindBackup, append(rels, manifest.FileName)); err != nil {
		return nil, t.fail(StageCreatingBackup, abs, err)
	}
	res.BackupPath = t.backupPath

	for _, cat := range categoriesOf(m.InstalledFiles) {
		for _, id := range m.InstalledFiles.Get(cat) {
			rel := catalog.RelPath(cat, id)
			if err := ctx.Err(); err != nil {
				return nil, t.fail(StageRemovingFiles, filepath.Join(abs, rel), err)
			}
			n, err := t.remove(rel)
			if err != nil {
				return nil, t.fail(StageRemovingFiles, filepath.Join(abs, rel), err)
			}
			if n == 0 {
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s '%s' was already absent", cat.Singular(), id))
			}
			res.FilesRemoved += n
			emit(opts.Progress, Progress{
				Tool:         tool,
				Stage:        StageRemovingFiles,
				CurrentFile:  displayRel(rel),
				FilesRemoved: res.FilesRemoved,
			})
		}
	}

	emit(opts.Progress, Progress{Tool: tool, Stage: StageUpdatingManifest, FilesRemoved: res.FilesRemoved})
	if err := manifest.Remove(abs); err != nil {
		return nil, t.fail(StageUpdatingManifest, manifest.Path(abs), err)
	}

	res.DirectoriesRemoved = cleanupCategoryDirs(abs)
	if fsutil.CleanupEmptyDir(abs) {
		res.DirectoriesRemoved++
	} else {
		res.Preserved = listEntries(abs)
	}

	emit(opts.Progress, Progress{Tool: tool, Stage: StageComplete, FilesRemoved: res.FilesRemoved, Percentage: 100})
	t.log.WithField("removed", res.FilesRemoved).WithField("preserved", len(res.Preserved)).Info("uninstalled")
	return res, nil
}

// categoriesOf returns the categories of c that hold at least one item.
func categoriesOf(c catalog.Content) []catalog.Category {
	var out []catalog.Category
	for _, cat := range catalog.Categories {
		if len(c.Get(cat)) > 0 {
			out = append(out, cat)
		}
	}
	return out
}

// listEntries returns the slash-separated paths of every file left below
// dir, or nil when dir is gone.
func listEntries(dir string) []string {
	if _, err := os.Stat(dir); err != nil {
		return nil
	}
	files, err := fsutil.ListFiles(dir)
	if err != nil {
		return nil
	}
	sort.Strings(files)
	return files
}
