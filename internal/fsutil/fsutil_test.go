package fsutil

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestAtomicWrite_CreatesParentAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "state.json")

	if err := AtomicWrite(path, []byte(`{"a":1}`), 0o600); err != nil {
		t.Fatalf("AtomicWrite() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("content = %q", data)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestAtomicWrite_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.json")
	if err := AtomicWrite(path, []byte("one"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := AtomicWrite(path, []byte("two"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "two" {
		t.Errorf("content = %q, want %q", data, "two")
	}
}

func TestCopyTree_Directory(t *testing.T) {
	src := t.TempDir()
	os.MkdirAll(filepath.Join(src, "refs", "deep"), 0o755)
	os.WriteFile(filepath.Join(src, "SKILL.md"), []byte("skill"), 0o644)
	os.WriteFile(filepath.Join(src, "refs", "deep", "a.txt"), []byte("a"), 0o644)

	dst := filepath.Join(t.TempDir(), "out", "pdf")
	if err := CopyTree(src, dst); err != nil {
		t.Fatalf("CopyTree() error: %v", err)
	}

	files, err := ListFiles(dst)
	if err != nil {
		t.Fatalf("ListFiles() error: %v", err)
	}
	want := []string{"SKILL.md", "refs/deep/a.txt"}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("files = %v, want %v", files, want)
	}
}

func TestCopyTree_SingleFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "hook.js")
	os.WriteFile(src, []byte("hook"), 0o755)

	dst := filepath.Join(t.TempDir(), "hooks", "hook.js")
	if err := CopyTree(src, dst); err != nil {
		t.Fatalf("CopyTree() error: %v", err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Errorf("mode = %v, expected executable bit preserved", info.Mode())
	}
}

func TestTreeSize(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a"), []byte("12345"), 0o644)
	os.MkdirAll(filepath.Join(dir, "sub"), 0o755)
	os.WriteFile(filepath.Join(dir, "sub", "b"), []byte("123"), 0o644)

	if got := TreeSize(dir); got != 8 {
		t.Errorf("TreeSize(dir) = %d, want 8", got)
	}
	if got := TreeSize(filepath.Join(dir, "a")); got != 5 {
		t.Errorf("TreeSize(file) = %d, want 5", got)
	}
	if got := TreeSize(filepath.Join(dir, "missing")); got != 0 {
		t.Errorf("TreeSize(missing) = %d, want 0", got)
	}
}

func TestCleanupEmptyDir(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	full := filepath.Join(dir, "full")
	os.MkdirAll(empty, 0o755)
	os.MkdirAll(full, 0o755)
	os.WriteFile(filepath.Join(full, "x"), nil, 0o644)

	if !CleanupEmptyDir(empty) {
		t.Error("expected empty dir to be removed")
	}
	if CleanupEmptyDir(full) {
		t.Error("non-empty dir should not be removed")
	}
	if !DirExists(full) || DirExists(empty) {
		t.Error("unexpected directory state after cleanup")
	}
}
