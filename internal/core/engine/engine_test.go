package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/barysiuk/agentkit/internal/core/catalog"
	"github.com/barysiuk/agentkit/internal/core/catalog/catalogtest"
	"github.com/barysiuk/agentkit/internal/core/manifest"
	"github.com/barysiuk/agentkit/internal/core/paths"
	"github.com/barysiuk/agentkit/internal/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tickClock struct{ t time.Time }

func (c *tickClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	home     string
	pkgRoot  string
	target   string
	cat      *catalog.Catalog
	resolver *paths.Resolver
	clock    *tickClock
	eng      *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		home:    t.TempDir(),
		pkgRoot: t.TempDir(),
		clock:   &tickClock{t: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)},
	}
	catalogtest.Write(t, f.pkgRoot, "claude", catalogtest.Default())
	catalogtest.Write(t, f.pkgRoot, "droid", catalogtest.Default())
	f.cat = catalog.New(f.pkgRoot)
	f.resolver = paths.NewResolverWithRoots(f.home, t.TempDir())
	f.target = filepath.Join(f.home, ".claude")
	f.eng = f.engine()
	return f
}

func (f *fixture) engine(opts ...Option) *Engine {
	base := []Option{WithVersion("1.2.3"), WithClock(f.clock.now)}
	return New(f.cat, f.resolver, append(base, opts...)...)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// snapshot maps every file below dir to its content.
func snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	out := map[string]string{}
	if !fsutil.DirExists(dir) {
		return out
	}
	files, err := fsutil.ListFiles(dir)
	require.NoError(t, err)
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(f)))
		require.NoError(t, err)
		out[f] = string(data)
	}
	return out
}

func failingCopier(failAt int, errno syscall.Errno) CopyFunc {
	calls := 0
	return func(src, dst string) error {
		calls++
		if calls == failAt {
			return &os.PathError{Op: "write", Path: dst, Err: errno}
		}
		return fsutil.CopyFile(src, dst)
	}
}

func TestInstall_FreshTarget(t *testing.T) {
	f := newFixture(t)
	var events []Progress

	res, err := f.eng.Install(context.Background(), "claude", catalog.Lite, f.target, InstallOptions{
		Progress: func(p Progress) { events = append(events, p) },
	})
	require.NoError(t, err)

	assert.Equal(t, 5, res.Files)
	assert.Equal(t, 5, res.Copied)
	assert.Empty(t, res.BackupPath, "nothing existed, so nothing is backed up")
	assert.Equal(t, []string{"master", "orchestrator", "scrum-master"}, res.Items.Agents)

	m, err := manifest.Read(f.target)
	require.NoError(t, err)
	assert.Equal(t, "claude", m.Tool)
	assert.Equal(t, catalog.Lite, m.Variant)
	assert.Equal(t, "1.2.3", m.Version)
	assert.Equal(t, manifest.Components{Agents: 3, Skills: 0, Resources: 1, Hooks: 1}, m.Components)
	assert.Equal(t, "Lite", m.VariantInfo.Name)

	assert.FileExists(t, filepath.Join(f.target, "agents", "master.md"))
	assert.FileExists(t, filepath.Join(f.target, "hooks", "session-start.js"))
	assert.NoFileExists(t, filepath.Join(f.target, "agents", "dev.md"))

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, StageComplete, last.Stage)
	assert.Equal(t, 100, last.Percentage)
	adding := 0
	for _, e := range events {
		if e.Stage == StageAddingFiles {
			adding++
		}
	}
	assert.Equal(t, 5, adding)
}

func TestInstall_ManifestMatchesDisk(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Install(context.Background(), "claude", catalog.Pro, f.target, InstallOptions{})
	require.NoError(t, err)

	m, err := manifest.Read(f.target)
	require.NoError(t, err)
	onDisk, err := catalog.Scan(f.target)
	require.NoError(t, err)
	assert.Equal(t, m.InstalledFiles, onDisk)
	assert.True(t, m.Consistent())
	assert.Equal(t, 9, m.Components.Total())
}

func TestInstall_RollbackRestoresTarget(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Install(context.Background(), "claude", catalog.Lite, f.target, InstallOptions{})
	require.NoError(t, err)
	writeFile(t, filepath.Join(f.target, "settings.json"), `{"theme":"dark"}`)
	before := snapshot(t, f.target)

	broken := f.engine(WithCopier(failingCopier(3, syscall.ENOSPC)))
	_, err = broken.Install(context.Background(), "claude", catalog.Pro, f.target, InstallOptions{})
	require.Error(t, err)

	var opErr *OpError
	require.True(t, errors.As(err, &opErr), "error = %v", err)
	assert.Equal(t, "ENOSPC", opErr.Code)
	assert.Equal(t, StageAddingFiles, opErr.Stage)
	assert.True(t, opErr.RolledBack)
	assert.NotEmpty(t, opErr.BackupPath)

	assert.Equal(t, before, snapshot(t, f.target))
	assert.NoDirExists(t, filepath.Join(f.target, "skills"))
}

func TestInstall_RollbackRemovesNewTarget(t *testing.T) {
	f := newFixture(t)
	broken := f.engine(WithCopier(failingCopier(1, syscall.EACCES)))

	_, err := broken.Install(context.Background(), "claude", catalog.Lite, f.target, InstallOptions{})
	require.Error(t, err)
	assert.Equal(t, "EACCES", ErrnoName(err))
	assert.NoDirExists(t, f.target)
}

func TestInstall_UnknownVariant(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Install(context.Background(), "claude", "ultra", f.target, InstallOptions{})
	assert.ErrorIs(t, err, catalog.ErrUnknownVariant)
	assert.NoDirExists(t, f.target)
}

func TestInstall_RejectsUnsafeTarget(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Install(context.Background(), "claude", catalog.Lite, "/etc/agentkit", InstallOptions{})
	var pe *paths.PathError
	require.True(t, errors.As(err, &pe), "error = %v", err)
	assert.Equal(t, paths.PathOutsideSandbox, pe.Kind)
}

func TestInstall_OtherToolsManifest(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Install(context.Background(), "droid", catalog.Lite, f.target, InstallOptions{})
	require.NoError(t, err)

	_, err = f.eng.Install(context.Background(), "claude", catalog.Lite, f.target, InstallOptions{})
	assert.ErrorIs(t, err, ErrToolMismatch)
}

func TestInstall_ResumeSkipsFinishedFiles(t *testing.T) {
	f := newFixture(t)
	copies := map[string]int{}
	counting := func(src, dst string) error {
		copies[dst]++
		return fsutil.CopyFile(src, dst)
	}

	// An earlier run got as far as the two first agents.
	for _, a := range []string{"master", "orchestrator"} {
		src := filepath.Join(f.pkgRoot, "claude", "agents", a+".md")
		dst := filepath.Join(f.target, "agents", a+".md")
		require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
		require.NoError(t, fsutil.CopyFile(src, dst))
	}

	eng := f.engine(WithCopier(counting))
	res, err := eng.Install(context.Background(), "claude", catalog.Lite, f.target, InstallOptions{
		Resume: &ResumePoint{TargetExisted: false},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 3, res.Copied)
	assert.Zero(t, copies[filepath.Join(f.target, "agents", "master.md")])
	assert.True(t, manifest.Exists(f.target))
}

func TestUninstall_PreservesUserFiles(t *testing.T) {
	f := newFixture(t)
	writeFile(t, filepath.Join(f.target, "agents", "custom.md"), "# mine\n")
	writeFile(t, filepath.Join(f.target, "settings.json"), "{}\n")

	_, err := f.eng.Install(context.Background(), "claude", catalog.Pro, f.target, InstallOptions{})
	require.NoError(t, err)

	res, err := f.eng.Uninstall(context.Background(), "claude", f.target, UninstallOptions{})
	require.NoError(t, err)
	assert.Equal(t, 10, res.FilesRemoved)
	assert.NotEmpty(t, res.BackupPath)
	assert.Equal(t, []string{"agents/custom.md", "settings.json"}, res.Preserved)

	assert.False(t, manifest.Exists(f.target))
	assert.FileExists(t, filepath.Join(f.target, "agents", "custom.md"))
	assert.NoDirExists(t, filepath.Join(f.target, "skills"))
}

func TestUninstall_RemovesEmptyTarget(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Install(context.Background(), "claude", catalog.Lite, f.target, InstallOptions{})
	require.NoError(t, err)

	res, err := f.eng.Uninstall(context.Background(), "claude", f.target, UninstallOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, res.DirectoriesRemoved, "agents, resources, hooks and the target")
	assert.NoDirExists(t, f.target)
	assert.Empty(t, res.Preserved)
}

func TestUninstall_Cancelled(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Install(context.Background(), "claude", catalog.Lite, f.target, InstallOptions{})
	require.NoError(t, err)
	before := snapshot(t, f.target)

	var asked string
	_, err = f.eng.Uninstall(context.Background(), "claude", f.target, UninstallOptions{
		Confirm: func(prompt string) bool { asked = prompt; return false },
	})
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Contains(t, asked, "5 item(s)")
	assert.Equal(t, before, snapshot(t, f.target))
}

func TestUninstall_NotInstalled(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Uninstall(context.Background(), "claude", f.target, UninstallOptions{})
	assert.ErrorIs(t, err, ErrNotInstalled)

	writeFile(t, filepath.Join(f.target, "agents", "custom.md"), "# mine\n")
	_, err = f.eng.Uninstall(context.Background(), "claude", f.target, UninstallOptions{})
	assert.ErrorIs(t, err, ErrNotInstalled)
}

func TestUninstall_RestoreRoundTrip(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Install(context.Background(), "claude", catalog.Standard, f.target, InstallOptions{})
	require.NoError(t, err)
	writeFile(t, filepath.Join(f.target, "settings.json"), "{}\n")
	before := snapshot(t, f.target)

	un, err := f.eng.Uninstall(context.Background(), "claude", f.target, UninstallOptions{})
	require.NoError(t, err)

	res, err := f.eng.Restore(context.Background(), "claude", f.target, RestoreOptions{})
	require.NoError(t, err)
	assert.Equal(t, un.BackupPath, res.RestoredFrom)
	require.NotNil(t, res.Manifest)
	assert.Equal(t, catalog.Standard, res.Manifest.Variant)

	assert.Equal(t, before, snapshot(t, f.target))
	assert.NoDirExists(t, un.BackupPath, "a restored backup is consumed")
}

func TestRestore_NoBackup(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Restore(context.Background(), "claude", f.target, RestoreOptions{})
	assert.ErrorIs(t, err, ErrNoBackup)
}

func TestRestore_UndoesVariantChange(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Install(context.Background(), "claude", catalog.Standard, f.target, InstallOptions{})
	require.NoError(t, err)
	before := snapshot(t, f.target)

	_, err = f.eng.UpgradeVariant(context.Background(), "claude", f.target, catalog.Pro, UpgradeOptions{})
	require.NoError(t, err)

	res, err := f.eng.Restore(context.Background(), "claude", f.target, RestoreOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, res.SafetyBackup)
	assert.Equal(t, before, snapshot(t, f.target))

	backups, err := ListBackups(f.target)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, KindUninstallBackup, backups[0].Kind)
}

func TestUpgrade_RoundTrip(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Install(context.Background(), "claude", catalog.Lite, f.target, InstallOptions{})
	require.NoError(t, err)
	writeFile(t, filepath.Join(f.target, "notes.txt"), "keep me\n")
	before := snapshot(t, f.target)
	installed, err := manifest.Read(f.target)
	require.NoError(t, err)

	up, err := f.eng.UpgradeVariant(context.Background(), "claude", f.target, catalog.Pro, UpgradeOptions{})
	require.NoError(t, err)
	assert.True(t, up.Success)
	assert.Equal(t, []string{"dev", "qa"}, up.Added.Agents)
	assert.Equal(t, []string{"docx", "xlsx"}, up.Added.Skills)
	assert.Zero(t, up.Removed.Total())
	assert.Equal(t, 6, up.FilesAdded)
	require.NotNil(t, up.Verification)
	assert.True(t, up.Verification.Valid)

	m, err := manifest.Read(f.target)
	require.NoError(t, err)
	assert.Equal(t, catalog.Pro, m.Variant)
	assert.NotNil(t, m.UpdatedAt)
	assert.True(t, installed.InstalledAt.Equal(m.InstalledAt))

	down, err := f.eng.UpgradeVariant(context.Background(), "claude", f.target, catalog.Lite, UpgradeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 6, down.FilesRemoved)
	assert.Equal(t, []string{"docx", "xlsx"}, down.Removed.Skills)

	after := snapshot(t, f.target)
	delete(before, manifest.FileName)
	delete(after, manifest.FileName)
	assert.Equal(t, before, after)
}

func TestUpgrade_SameVariant(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Install(context.Background(), "claude", catalog.Lite, f.target, InstallOptions{})
	require.NoError(t, err)

	res, err := f.eng.UpgradeVariant(context.Background(), "claude", f.target, catalog.Lite, UpgradeOptions{
		Confirm: func(string) bool { t.Fatal("no confirmation expected"); return false },
	})
	require.NoError(t, err)
	assert.True(t, res.Unchanged())
	assert.Empty(t, res.BackupPath)
}

func TestUpgrade_StagesInOrder(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Install(context.Background(), "claude", catalog.Pro, f.target, InstallOptions{})
	require.NoError(t, err)

	var stages []Stage
	_, err = f.eng.UpgradeVariant(context.Background(), "claude", f.target, catalog.Standard, UpgradeOptions{
		Progress: func(p Progress) {
			if len(stages) == 0 || stages[len(stages)-1] != p.Stage {
				stages = append(stages, p.Stage)
			}
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []Stage{
		StageReadingManifest,
		StageComparingVariants,
		StageCreatingBackup,
		StageRemovingFiles,
		StageUpdatingManifest,
		StageVerifying,
		StageComplete,
	}, stages)
}

func TestUpgrade_RollbackOnFailure(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Install(context.Background(), "claude", catalog.Lite, f.target, InstallOptions{})
	require.NoError(t, err)
	before := snapshot(t, f.target)

	broken := f.engine(WithCopier(failingCopier(4, syscall.EIO)))
	_, err = broken.UpgradeVariant(context.Background(), "claude", f.target, catalog.Pro, UpgradeOptions{})
	var opErr *OpError
	require.True(t, errors.As(err, &opErr), "error = %v", err)
	assert.Equal(t, "EIO", opErr.Code)
	assert.Equal(t, before, snapshot(t, f.target))
}

func TestVerify_ReportsMissingAndExtra(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Install(context.Background(), "claude", catalog.Lite, f.target, InstallOptions{})
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(f.target, "agents", "master.md")))
	writeFile(t, filepath.Join(f.target, "agents", "extra.md"), "# extra\n")

	v, err := f.eng.Verify(context.Background(), "claude", f.target)
	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Equal(t, []string{"agent 'master' missing from agents/"}, v.Issues)
	require.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], "extra")

	assert.Equal(t, "1.2.3", v.Version)

	agents := v.Categories[0]
	assert.Equal(t, catalog.Agents, agents.Category)
	assert.Equal(t, 3, agents.Expected)
	assert.Equal(t, 2, agents.Found)
}

// plantEscapingItem rewrites the target's manifest so that one skill
// identifier points at victim, a directory next to the target.
func plantEscapingItem(t *testing.T, f *fixture) string {
	t.Helper()
	victim := filepath.Join(filepath.Dir(f.target), "victim")
	writeFile(t, filepath.Join(victim, "keep.txt"), "precious\n")

	m, err := manifest.Read(f.target)
	require.NoError(t, err)
	m.InstalledFiles.Skills = append(m.InstalledFiles.Skills, filepath.Join("..", "..", "victim"))
	require.NoError(t, manifest.Write(f.target, m))
	return victim
}

func TestUninstall_ManifestCannotEscapeTarget(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Install(context.Background(), "claude", catalog.Lite, f.target, InstallOptions{})
	require.NoError(t, err)
	victim := plantEscapingItem(t, f)

	_, err = f.eng.Uninstall(context.Background(), "claude", f.target, UninstallOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, manifest.ErrMalformed)
	assert.FileExists(t, filepath.Join(victim, "keep.txt"))
}

func TestInstall_OverEscapingManifestKeepsOutsideFiles(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Install(context.Background(), "claude", catalog.Lite, f.target, InstallOptions{})
	require.NoError(t, err)
	victim := plantEscapingItem(t, f)

	_, err = f.eng.Install(context.Background(), "claude", catalog.Pro, f.target, InstallOptions{})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(victim, "keep.txt"))
}

func TestUpgrade_ManifestCannotEscapeTarget(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Install(context.Background(), "claude", catalog.Pro, f.target, InstallOptions{})
	require.NoError(t, err)
	victim := plantEscapingItem(t, f)

	_, err = f.eng.UpgradeVariant(context.Background(), "claude", f.target, catalog.Lite, UpgradeOptions{})
	assert.ErrorIs(t, err, manifest.ErrMalformed)
	assert.FileExists(t, filepath.Join(victim, "keep.txt"))
}

func TestRestore_BackupManifestCannotEscapeTarget(t *testing.T) {
	f := newFixture(t)
	_, err := f.eng.Install(context.Background(), "claude", catalog.Lite, f.target, InstallOptions{})
	require.NoError(t, err)
	up, err := f.eng.UpgradeVariant(context.Background(), "claude", f.target, catalog.Pro, UpgradeOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, up.BackupPath)

	victim := filepath.Join(filepath.Dir(f.target), "victim")
	writeFile(t, filepath.Join(victim, "keep.txt"), "precious\n")
	backed, err := manifest.Read(up.BackupPath)
	require.NoError(t, err)
	backed.InstalledFiles.Agents = append(backed.InstalledFiles.Agents, "..")
	require.NoError(t, manifest.Write(up.BackupPath, backed))

	_, err = f.eng.Restore(context.Background(), "claude", f.target, RestoreOptions{BackupPath: up.BackupPath})
	assert.ErrorIs(t, err, manifest.ErrMalformed)
	assert.FileExists(t, filepath.Join(victim, "keep.txt"))
	m, err := manifest.Read(f.target)
	require.NoError(t, err)
	assert.Equal(t, catalog.Pro, m.Variant)
}

func TestTxn_RefusesPathsOutsideTarget(t *testing.T) {
	f := newFixture(t)
	victim := filepath.Join(filepath.Dir(f.target), "victim")
	writeFile(t, filepath.Join(victim, "keep.txt"), "precious\n")
	require.NoError(t, os.MkdirAll(f.target, 0o755))

	tx := f.eng.begin(context.Background(), "uninstall", "claude", f.target, true)
	for _, rel := range []string{filepath.Join("..", "victim"), "..", ".", ""} {
		_, err := tx.remove(rel)
		assert.ErrorIs(t, err, ErrOutsideTarget, "remove %q", rel)
		assert.ErrorIs(t, tx.backup(KindBackup, []string{rel}), ErrOutsideTarget, "backup %q", rel)
	}
	assert.FileExists(t, filepath.Join(victim, "keep.txt"))
	assert.Empty(t, tx.backupPath)
}

func TestInstall_ManifestReadErrorRemovesNewTarget(t *testing.T) {
	f := newFixture(t)
	f.eng.readManifest = func(dir string) (*manifest.Manifest, error) {
		return nil, &os.PathError{Op: "open", Path: manifest.Path(dir), Err: syscall.EACCES}
	}

	_, err := f.eng.Install(context.Background(), "claude", catalog.Lite, f.target, InstallOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, syscall.EACCES)
	assert.NoDirExists(t, f.target)
}

func TestAdoptLegacy(t *testing.T) {
	f := newFixture(t)
	for _, a := range []string{"master", "orchestrator", "scrum-master"} {
		writeFile(t, filepath.Join(f.target, "agents", a+".md"), "# "+a+"\n")
	}

	m, err := f.eng.AdoptLegacy(context.Background(), "claude", f.target, "")
	require.NoError(t, err)
	assert.Equal(t, catalog.Lite, m.Variant)
	assert.Equal(t, MigratedFromLegacy, m.MigratedFrom)
	assert.Equal(t, "Lite", m.VariantInfo.Name)

	v, err := f.eng.Verify(context.Background(), "claude", f.target)
	require.NoError(t, err)
	assert.True(t, v.Valid)

	_, err = f.eng.AdoptLegacy(context.Background(), "claude", f.target, "")
	assert.Error(t, err, "a managed installation is not legacy")
}

func TestBackupNaming(t *testing.T) {
	ts := time.Date(2026, 5, 1, 10, 0, 0, 123_000_000, time.UTC)
	assert.Equal(t, "2026-05-01T10-00-00-123Z", backupTimestamp(ts))

	dir := t.TempDir()
	target := filepath.Join(dir, ".claude")
	first := uniqueBackupPath(target, KindBackup, ts)
	assert.Equal(t, target+".backup.2026-05-01T10-00-00-123Z", first)
	require.NoError(t, os.MkdirAll(first, 0o755))
	assert.Equal(t, first+"-2", uniqueBackupPath(target, KindBackup, ts))

	writeFile(t, filepath.Join(first, "manifest.json"), "{}")
	backups, err := ListBackups(target)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, 1, backups[0].Files)
	assert.Equal(t, "2026-05-01T10-00-00-123Z", backups[0].Timestamp)
}

func TestErrnoName(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&os.PathError{Op: "write", Path: "x", Err: syscall.ENOSPC}, "ENOSPC"},
		{&os.PathError{Op: "write", Path: "x", Err: syscall.EDQUOT}, "EDQUOT"},
		{&os.PathError{Op: "open", Path: "x", Err: syscall.EACCES}, "EACCES"},
		{errors.New("plain"), ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrnoName(tt.err), "%v", tt.err)
	}
}
