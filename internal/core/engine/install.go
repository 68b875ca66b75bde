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
	"github.com/sirupsen/logrus"
)

// ResumePoint carries what an interrupted install recorded before it
// started mutating the target.
type ResumePoint struct {
	BackupPath    string
	TargetExisted bool
}

// InstallOptions configures an installation.
type InstallOptions struct {
	Progress ProgressFunc
	// OnBackup is called once the backup is in place and before the target
	// is modified, so callers can persist it for a later resume.
	OnBackup func(backupPath string, targetExisted bool) error
	// OnFile is called after every file written or skipped.
	OnFile func(completed, total int)
	// Resume continues an install that was interrupted. Files already
	// holding the package's content are not copied again.
	Resume *ResumePoint
}

// InstallResult reports what an installation did.
type InstallResult struct {
	Tool     string
	Variant  string
	Path     string
	Items    catalog.Content
	Dropped  []catalog.MissingItem
	Files    int
	Copied   int
	Skipped  int
	Bytes    int64
	Removed  int
	Previous *manifest.Manifest
	// BackupPath is empty when nothing existing had to be preserved.
	BackupPath string
}

// Install copies a variant of a tool's package into target and writes the
// manifest last. On any failure the target is rolled back.
func (e *Engine) Install(ctx context.Context, tool, variant, target string, opts InstallOptions) (*InstallResult, error) {
	fs, err := e.catalog.FileSet(ctx, tool, variant)
	if err != nil {
		return nil, err
	}

	abs, err := e.paths.Sanitize(target)
	if err != nil {
		return nil, err
	}
	existed := fsutil.DirExists(abs)
	resuming := opts.Resume != nil
	if resuming {
		existed = opts.Resume.TargetExisted
	}
	if abs, err = e.paths.ValidateWritable(abs); err != nil {
		return nil, err
	}

	emit(opts.Progress, Progress{Tool: tool, Stage: StageReadingManifest})
	old, err := e.readManifest(abs)
	switch {
	case err == nil:
		if old.Tool != tool {
			return nil, fmt.Errorf("%w: %s holds an installation of %s", ErrToolMismatch, abs, old.Tool)
		}
	case errors.Is(err, manifest.ErrNotFound):
		old = nil
	case errors.Is(err, manifest.ErrMalformed):
		old = nil
	default:
		if !existed {
			fsutil.CleanupEmptyDir(abs)
		}
		return nil, err
	}

	p, err := buildPlan(fs.Entries(), abs)
	if err != nil {
		if !existed {
			fsutil.CleanupEmptyDir(abs)
		}
		return nil, fmt.Errorf("reading package %s: %w", fs.PackageDir, err)
	}

	t := e.begin(ctx, "install", tool, abs, existed)
	t.log = t.log.WithFields(logrus.Fields{"variant": variant, "files": len(p.ops)})
	res := &InstallResult{
		Tool:     tool,
		Variant:  variant,
		Path:     abs,
		Items:    fs.Items,
		Dropped:  fs.Dropped,
		Files:    len(p.ops),
		Bytes:    p.bytes,
		Previous: old,
	}

	var managed catalog.Content
	if old != nil {
		managed = old.InstalledFiles
	}

	// A resumed run reuses the recorded backup. Without one, the interrupted
	// run may have stopped before backing up, so everything not already
	// holding package content is backed up now.
	if resuming && opts.Resume.BackupPath != "" {
		t.backupPath = opts.Resume.BackupPath
		t.log.WithField("backup", t.backupPath).Info("resuming install")
	} else {
		emit(opts.Progress, Progress{Tool: tool, Stage: StageCreatingBackup, TotalFiles: len(p.ops)})
		rels := itemRels(managed)
		for _, op := range p.ops {
			if resuming && sameContent(op.Src, op.Dst) {
				continue
			}
			rels = append(rels, filepath.FromSlash(op.Rel))
		}
		rels = append(rels, manifest.FileName)
		if err := t.backup(KindBackup, rels); err != nil {
			return nil, t.fail(StageCreatingBackup, abs, err)
		}
		if opts.OnBackup != nil {
			if err := opts.OnBackup(t.backupPath, existed); err != nil {
				return nil, t.fail(StageCreatingBackup, abs, err)
			}
		}
	}
	res.BackupPath = t.backupPath

	// Items of the previous installation go away. A resumed run keeps the
	// ones it is about to install so finished files are not copied twice.
	toRemove := managed
	if resuming {
		_, toRemove = managed.Diff(fs.Items)
	}
	for _, rel := range itemRels(toRemove) {
		emit(opts.Progress, Progress{Tool: tool, Stage: StageRemovingFiles, CurrentFile: displayRel(rel), FilesRemoved: res.Removed})
		n, err := t.remove(rel)
		if err != nil {
			return nil, t.fail(StageRemovingFiles, filepath.Join(abs, rel), err)
		}
		res.Removed += n
	}

	for _, dir := range p.dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, t.fail(StageAddingFiles, dir, err)
		}
	}

	var done int
	var transferred int64
	total := len(p.ops)
	for _, op := range p.ops {
		if err := ctx.Err(); err != nil {
			return nil, t.fail(StageAddingFiles, op.Dst, err)
		}
		if resuming && sameContent(op.Src, op.Dst) {
			t.adopt(op.Dst)
			res.Skipped++
		} else {
			if err := t.copy(op.Src, op.Dst); err != nil {
				return nil, t.fail(StageAddingFiles, op.Dst, err)
			}
			res.Copied++
		}
		done++
		transferred += op.Size
		emit(opts.Progress, Progress{
			Tool:             tool,
			Stage:            StageAddingFiles,
			CurrentFile:      op.Rel,
			FilesCompleted:   done,
			TotalFiles:       total,
			Percentage:       percentage(done, total),
			BytesTransferred: transferred,
			TotalBytes:       p.bytes,
			FilesRemoved:     res.Removed,
		})
		if opts.OnFile != nil {
			opts.OnFile(done, total)
		}
	}

	emit(opts.Progress, Progress{Tool: tool, Stage: StageUpdatingManifest, FilesCompleted: done, TotalFiles: total, Percentage: 100})
	m := manifest.New(tool, variant, e.version, fs.Info, fs.Items, e.now())
	t.adopt(manifest.Path(abs))
	if err := manifest.Write(abs, m); err != nil {
		return nil, t.fail(StageUpdatingManifest, manifest.Path(abs), err)
	}

	emit(opts.Progress, Progress{
		Tool:             tool,
		Stage:            StageComplete,
		FilesCompleted:   done,
		TotalFiles:       total,
		Percentage:       100,
		BytesTransferred: transferred,
		TotalBytes:       p.bytes,
		FilesRemoved:     res.Removed,
	})
	t.log.WithFields(logrus.Fields{"copied": res.Copied, "skipped": res.Skipped}).Info("installed")
	return res, nil
}
