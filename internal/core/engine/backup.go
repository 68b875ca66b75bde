package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/barysiuk/agentkit/internal/fsutil"
)

// Backup directory kinds. Backups live next to the target as
// <target>.<kind>.<timestamp>.
const (
	KindBackup          = "backup"
	KindUninstallBackup = "uninstall-backup"
)

// Backup describes one backup directory of a target.
type Backup struct {
	Path      string
	Kind      string
	Timestamp string
	Files     int
	Size      int64
}

// backupTimestamp renders t as an ISO-8601 UTC timestamp with ':' and '.'
// replaced by '-', so names sort chronologically.
func backupTimestamp(t time.Time) string {
	return strings.NewReplacer(":", "-", ".", "-").Replace(t.UTC().Format("2006-01-02T15:04:05.000Z"))
}

func uniqueBackupPath(target, kind string, now time.Time) string {
	base := fmt.Sprintf("%s.%s.%s", target, kind, backupTimestamp(now))
	p := base
	for i := 2; fsutil.PathExists(p); i++ {
		p = fmt.Sprintf("%s-%d", base, i)
	}
	return p
}

// ListBackups returns the backups of target, oldest first within each kind.
func ListBackups(target string) ([]Backup, error) {
	target = filepath.Clean(target)
	dir, base := filepath.Split(target)
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing backups: %w", err)
	}

	var out []Backup
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		for _, kind := range []string{KindBackup, KindUninstallBackup} {
			prefix := base + "." + kind + "."
			if !strings.HasPrefix(e.Name(), prefix) {
				continue
			}
			path := filepath.Join(dir, e.Name())
			files, _ := fsutil.ListFiles(path)
			out = append(out, Backup{
				Path:      path,
				Kind:      kind,
				Timestamp: strings.TrimPrefix(e.Name(), prefix),
				Files:     len(files),
				Size:      fsutil.TreeSize(path),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Path < out[j].Path
	})
	return out, nil
}

// LatestBackup returns the most recent backup of the given kind.
func LatestBackup(target, kind string) (Backup, bool, error) {
	all, err := ListBackups(target)
	if err != nil {
		return Backup{}, false, err
	}
	var latest Backup
	found := false
	for _, b := range all {
		if b.Kind == kind {
			latest, found = b, true
		}
	}
	return latest, found, nil
}
