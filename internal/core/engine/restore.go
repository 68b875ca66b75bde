package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/barysiuk/agentkit/internal/core/catalog"
	"github.com/barysiuk/agentkit/internal/core/manifest"
	"github.com/barysiuk/agentkit/internal/fsutil"
)

// RestoreOptions configures a restore.
type RestoreOptions struct {
	// BackupPath selects a backup; empty means the latest one.
	BackupPath string
	Confirm    ConfirmFunc
	Progress   ProgressFunc
}

// RestoreResult reports a restore.
type RestoreResult struct {
	Tool          string
	Path          string
	RestoredFrom  string
	FilesRestored int
	// SafetyBackup holds the managed state the restore replaced, if any.
	SafetyBackup string
	Manifest     *manifest.Manifest
}

// Restore returns target to the state recorded by a backup: items the backed
// up operation added are removed and the backed up files are copied back.
// The current managed state is preserved in a new backup first, and the
// consumed backup is deleted once the restore succeeds.
func (e *Engine) Restore(ctx context.Context, tool, target string, opts RestoreOptions) (*RestoreResult, error) {
	abs, err := e.paths.Sanitize(target)
	if err != nil {
		return nil, err
	}

	src := opts.BackupPath
	if src == "" {
		b, ok, err := LatestBackup(abs, KindBackup)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w for %s", ErrNoBackup, abs)
		}
		src = b.Path
	}
	if !fsutil.DirExists(src) {
		return nil, fmt.Errorf("%w: %s", ErrNoBackup, src)
	}
	// The backup's manifest lists what was managed before the backed up
	// operation; anything managed now but not then was added by it.
	var previous catalog.Content
	backed, err := manifest.Read(src)
	switch {
	case err == nil:
		if backed.Tool != tool {
			return nil, fmt.Errorf("%w: backup %s is of %s", ErrToolMismatch, src, backed.Tool)
		}
		previous = backed.InstalledFiles
	case !errors.Is(err, manifest.ErrNotFound):
		return nil, fmt.Errorf("reading backup %s: %w", src, err)
	}

	files, err := fsutil.ListFiles(src)
	if err != nil {
		return nil, fmt.Errorf("reading backup %s: %w", src, err)
	}

	prompt := fmt.Sprintf("Restore %d file(s) from %s into %s?", len(files), e.paths.Display(src), e.paths.Display(abs))
	if !confirm(opts.Confirm, prompt) {
		return nil, ErrCancelled
	}

	existed := fsutil.DirExists(abs)
	if abs, err = e.paths.ValidateWritable(abs); err != nil {
		return nil, err
	}
	t := e.begin(ctx, "restore", tool, abs, existed)
	res := &RestoreResult{Tool: tool, Path: abs, RestoredFrom: src}

	var managed catalog.Content
	if cur, err := manifest.Read(abs); err == nil {
		managed = cur.InstalledFiles
	} else if !errors.Is(err, manifest.ErrNotFound) && !errors.Is(err, manifest.ErrMalformed) {
		return nil, err
	}

	emit(opts.Progress, Progress{Tool: tool, Stage: StageCreatingBackup, TotalFiles: len(files)})
	rels := itemRels(managed)
	for _, f := range files {
		rels = append(rels, filepath.FromSlash(f))
	}
	rels = append(rels, manifest.FileName)
	if err := t.backup(KindUninstallBackup, rels); err != nil {
		return nil, t.fail(StageCreatingBackup, abs, err)
	}
	res.SafetyBackup = t.backupPath

	added, _ := previous.Diff(managed)
	for _, rel := range itemRels(added) {
		if _, err := t.remove(rel); err != nil {
			return nil, t.fail(StageRemovingFiles, filepath.Join(abs, rel), err)
		}
	}
	// No manifest in the backup means the target was unmanaged before.
	if !manifest.Exists(src) {
		if err := manifest.Remove(abs); err != nil {
			return nil, t.fail(StageRemovingFiles, manifest.Path(abs), err)
		}
	}

	for i, f := range files {
		dst := filepath.Join(abs, filepath.FromSlash(f))
		if err := t.copy(filepath.Join(src, filepath.FromSlash(f)), dst); err != nil {
			return nil, t.fail(StageAddingFiles, dst, err)
		}
		res.FilesRestored++
		emit(opts.Progress, Progress{
			Tool:           tool,
			Stage:          StageAddingFiles,
			CurrentFile:    f,
			FilesCompleted: i + 1,
			TotalFiles:     len(files),
			Percentage:     percentage(i+1, len(files)),
		})
	}

	if err := os.RemoveAll(src); err != nil {
		t.log.WithError(err).Warn("restored backup could not be removed")
	}
	if m, err := manifest.Read(abs); err == nil {
		res.Manifest = m
	}

	emit(opts.Progress, Progress{Tool: tool, Stage: StageComplete, FilesCompleted: len(files), TotalFiles: len(files), Percentage: 100})
	t.log.WithField("from", src).WithField("files", res.FilesRestored).Info("restored")
	return res, nil
}
