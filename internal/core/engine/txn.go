package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/barysiuk/agentkit/internal/core/catalog"
	"github.com/barysiuk/agentkit/internal/fsutil"
	"github.com/barysiuk/agentkit/internal/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// txn journals the mutations of one operation on one target so they can be
// undone. Files that existed before the operation and may be destroyed are
// copied into a backup first; files the operation writes are recorded as
// created. Rollback deletes created files, copies the backup back and prunes
// directories the operation introduced.
type txn struct {
	e    *Engine
	op   string
	tool string

	target        string
	targetExisted bool
	preDirs       map[string]bool

	backupPath string
	created    []string

	log *logrus.Entry
}

func (e *Engine) begin(ctx context.Context, op, tool, target string, targetExisted bool) *txn {
	t := &txn{
		e:             e,
		op:            op,
		tool:          tool,
		target:        target,
		targetExisted: targetExisted,
		preDirs:       map[string]bool{},
		log: logger.G(ctx).WithFields(logrus.Fields{
			"op":     op,
			"tool":   tool,
			"target": target,
		}),
	}
	if targetExisted {
		for _, d := range contentDirs(target) {
			t.preDirs[d] = true
		}
	}
	return t
}

// contentDirs lists the category directories of target and every directory
// below them.
func contentDirs(target string) []string {
	var dirs []string
	for _, cat := range catalog.Categories {
		root := filepath.Join(target, string(cat))
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				dirs = append(dirs, path)
			}
			return nil
		})
	}
	return dirs
}

// resolve joins rel onto the target and fails unless the result lies
// strictly below it.
func (t *txn) resolve(rel string) (string, error) {
	path := filepath.Join(t.target, rel)
	inside, err := filepath.Rel(t.target, path)
	if err != nil || inside == "." || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) || filepath.IsAbs(inside) {
		return "", fmt.Errorf("%w: %s", ErrOutsideTarget, rel)
	}
	return path, nil
}

// backup copies every existing rel path of the target into a new backup
// directory of the given kind. Nothing is created when none of them exist.
func (t *txn) backup(kind string, rels []string) error {
	var existing []string
	seen := map[string]bool{}
	for _, rel := range rels {
		if seen[rel] {
			continue
		}
		seen[rel] = true
		path, err := t.resolve(rel)
		if err != nil {
			return err
		}
		if fsutil.PathExists(path) {
			existing = append(existing, rel)
		}
	}
	if len(existing) == 0 {
		t.log.Debug("nothing to back up")
		return nil
	}

	dir := uniqueBackupPath(t.target, kind, t.e.now())
	for _, rel := range existing {
		if err := fsutil.CopyTree(filepath.Join(t.target, rel), filepath.Join(dir, rel)); err != nil {
			_ = os.RemoveAll(dir)
			return fmt.Errorf("backing up %s: %w", rel, err)
		}
	}
	t.backupPath = dir
	t.log.WithField("backup", dir).WithField("entries", len(existing)).Info("backup created")
	return nil
}

// copy writes one file into the target through the engine's copier.
func (t *txn) copy(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	// Recorded before copying so a partially written file is removed too.
	t.created = append(t.created, dst)
	return t.e.copyFile(src, dst)
}

// adopt records a file written by an earlier, interrupted run of the same
// operation as created.
func (t *txn) adopt(dst string) {
	t.created = append(t.created, dst)
}

// remove deletes a rel path (file or directory) from the target and returns
// how many files it held.
func (t *txn) remove(rel string) (int, error) {
	path, err := t.resolve(rel)
	if err != nil {
		return 0, err
	}
	if !fsutil.PathExists(path) {
		return 0, nil
	}
	files, err := fsutil.ListFiles(path)
	if err != nil {
		return 0, err
	}
	if err := os.RemoveAll(path); err != nil {
		return 0, err
	}
	return len(files), nil
}

// rollback restores the target to its state before the operation.
func (t *txn) rollback() error {
	var errs *multierror.Error

	for i := len(t.created) - 1; i >= 0; i-- {
		if err := os.Remove(t.created[i]); err != nil && !os.IsNotExist(err) {
			errs = multierror.Append(errs, fmt.Errorf("removing %s: %w", t.created[i], err))
		}
	}

	if t.backupPath != "" {
		files, err := fsutil.ListFiles(t.backupPath)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("reading backup %s: %w", t.backupPath, err))
		}
		for _, rel := range files {
			src := filepath.Join(t.backupPath, filepath.FromSlash(rel))
			dst := filepath.Join(t.target, filepath.FromSlash(rel))
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			if err := fsutil.CopyFile(src, dst); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("restoring %s: %w", rel, err))
			}
		}
	}

	t.pruneDirs()
	if !t.targetExisted {
		fsutil.CleanupEmptyDir(t.target)
	}

	if err := errs.ErrorOrNil(); err != nil {
		t.log.WithError(err).Error("rollback incomplete")
		return err
	}
	t.log.Info("rolled back")
	return nil
}

// pruneDirs removes empty directories the operation introduced, deepest
// first.
func (t *txn) pruneDirs() {
	dirs := contentDirs(t.target)
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	for _, d := range dirs {
		if !t.preDirs[d] {
			fsutil.CleanupEmptyDir(d)
		}
	}
}

// fail rolls back and wraps cause into an *OpError.
func (t *txn) fail(stage Stage, path string, cause error) error {
	t.log.WithError(cause).WithField("stage", stage).Warn("operation failed, rolling back")
	rbErr := t.rollback()
	return &OpError{
		Op:          t.op,
		Tool:        t.tool,
		Path:        path,
		Stage:       stage,
		Code:        ErrnoName(cause),
		Err:         cause,
		RolledBack:  rbErr == nil,
		RollbackErr: rbErr,
		BackupPath:  t.backupPath,
	}
}

// itemRels returns the target-relative paths of every item in c.
func itemRels(c catalog.Content) []string {
	var rels []string
	for _, cat := range catalog.Categories {
		for _, id := range c.Get(cat) {
			rels = append(rels, catalog.RelPath(cat, id))
		}
	}
	return rels
}

// cleanupCategoryDirs removes empty category directories of target and
// reports how many it removed.
func cleanupCategoryDirs(target string) int {
	n := 0
	for _, cat := range catalog.Categories {
		if fsutil.CleanupEmptyDir(filepath.Join(target, string(cat))) {
			n++
		}
	}
	return n
}

// displayRel renders a target-relative path with forward slashes.
func displayRel(rel string) string {
	return strings.TrimPrefix(filepath.ToSlash(rel), "./")
}
