package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/barysiuk/agentkit/internal/core/catalog"
	"github.com/barysiuk/agentkit/internal/core/manifest"
	"github.com/sirupsen/logrus"
)

// UpgradeOptions configures a variant change.
type UpgradeOptions struct {
	Confirm  ConfirmFunc
	Progress ProgressFunc
}

// UpgradeResult reports a variant change. Upgrades and downgrades are the
// same operation.
type UpgradeResult struct {
	Success      bool
	Tool         string
	Path         string
	FromVariant  string
	ToVariant    string
	Added        catalog.Content
	Removed      catalog.Content
	FilesAdded   int
	FilesRemoved int
	BackupPath   string
	Verification *Verification
}

// Unchanged reports whether the call was a no-op.
func (r *UpgradeResult) Unchanged() bool { return r.FromVariant == r.ToVariant }

// UpgradeVariant moves an installation to another variant by removing the
// items the new variant lacks and adding the ones it gains. Items common to
// both are left untouched.
func (e *Engine) UpgradeVariant(ctx context.Context, tool, target, variant string, opts UpgradeOptions) (*UpgradeResult, error) {
	if !catalog.IsVariant(variant) {
		return nil, fmt.Errorf("%w: %q (expected one of %s)", catalog.ErrUnknownVariant, variant, strings.Join(catalog.VariantNames, ", "))
	}
	abs, err := e.paths.Sanitize(target)
	if err != nil {
		return nil, err
	}

	emit(opts.Progress, Progress{Tool: tool, Stage: StageReadingManifest})
	m, err := readManaged(abs, tool)
	if err != nil {
		return nil, err
	}
	res := &UpgradeResult{Tool: tool, Path: abs, FromVariant: m.Variant, ToVariant: variant}
	if m.Variant == variant {
		res.Success = true
		return res, nil
	}

	fs, err := e.catalog.FileSet(ctx, tool, variant)
	if err != nil {
		return nil, err
	}

	emit(opts.Progress, Progress{Tool: tool, Stage: StageComparingVariants})
	toAdd, toRemove := m.Diff(fs.Items)
	res.Added, res.Removed = toAdd, toRemove

	prompt := fmt.Sprintf("Change %s from %s to %s? %d item(s) will be added and %d removed.",
		tool, m.Variant, variant, toAdd.Total(), toRemove.Total())
	if !confirm(opts.Confirm, prompt) {
		return nil, ErrCancelled
	}

	p, err := buildPlan(entriesFor(fs.PackageDir, toAdd), abs)
	if err != nil {
		return nil, fmt.Errorf("reading package %s: %w", fs.PackageDir, err)
	}

	t := e.begin(ctx, "upgrade", tool, abs, true)
	t.log = t.log.WithFields(logrus.Fields{"from": m.Variant, "to": variant})

	emit(opts.Progress, Progress{Tool: tool, Stage: StageCreatingBackup})
	rels := append(itemRels(toRemove), p.destinations()...)
	rels = append(rels, manifest.FileName)
	if err := t.backup(KindBackup, rels); err != nil {
		return nil, t.fail(StageCreatingBackup, abs, err)
	}
	res.BackupPath = t.backupPath

	for _, rel := range itemRels(toRemove) {
		n, err := t.remove(rel)
		if err != nil {
			return nil, t.fail(StageRemovingFiles, filepath.Join(abs, rel), err)
		}
		res.FilesRemoved += n
		emit(opts.Progress, Progress{Tool: tool, Stage: StageRemovingFiles, CurrentFile: displayRel(rel), FilesRemoved: res.FilesRemoved})
	}

	for _, dir := range p.dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, t.fail(StageAddingFiles, dir, err)
		}
	}
	var transferred int64
	total := len(p.ops)
	for i, op := range p.ops {
		if err := ctx.Err(); err != nil {
			return nil, t.fail(StageAddingFiles, op.Dst, err)
		}
		if err := t.copy(op.Src, op.Dst); err != nil {
			return nil, t.fail(StageAddingFiles, op.Dst, err)
		}
		res.FilesAdded++
		transferred += op.Size
		emit(opts.Progress, Progress{
			Tool:             tool,
			Stage:            StageAddingFiles,
			CurrentFile:      op.Rel,
			FilesCompleted:   i + 1,
			TotalFiles:       total,
			Percentage:       percentage(i+1, total),
			BytesTransferred: transferred,
			TotalBytes:       p.bytes,
			FilesRemoved:     res.FilesRemoved,
		})
	}

	emit(opts.Progress, Progress{Tool: tool, Stage: StageUpdatingManifest})
	m.Rewrite(variant, e.version, fs.Info, fs.Items, e.now())
	if err := manifest.Write(abs, m); err != nil {
		return nil, t.fail(StageUpdatingManifest, manifest.Path(abs), err)
	}

	emit(opts.Progress, Progress{Tool: tool, Stage: StageVerifying})
	v, err := e.Verify(ctx, tool, abs)
	if err != nil {
		return nil, t.fail(StageVerifying, abs, err)
	}
	if !v.Valid {
		return nil, t.fail(StageVerifying, abs, fmt.Errorf("verification failed: %s", strings.Join(v.Issues, "; ")))
	}
	res.Verification = v
	res.Success = true

	emit(opts.Progress, Progress{
		Tool:           tool,
		Stage:          StageComplete,
		FilesCompleted: total,
		TotalFiles:     total,
		Percentage:     100,
		FilesRemoved:   res.FilesRemoved,
	})
	t.log.WithFields(logrus.Fields{"added": toAdd.Total(), "removed": toRemove.Total()}).Info("variant changed")
	return res, nil
}
