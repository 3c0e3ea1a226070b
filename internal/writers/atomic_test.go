package writers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAtomicFileCommit(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "chr1.bg")
	a, err := CreateAtomic(dst)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatal("destination must not exist before commit")
	}
	_, _ = a.WriteString("chr1\t0\t1\t\t1\n")
	if err := a.Commit(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(dst)
	if err != nil || string(b) != "chr1\t0\t1\t\t1\n" {
		t.Fatalf("content %q err %v", b, err)
	}
	a.Abort() // no-op
	if _, err := os.Stat(dst); err != nil {
		t.Fatal("abort after commit removed the file")
	}
	ents, _ := os.ReadDir(dir)
	if len(ents) != 1 {
		t.Fatalf("temp files left behind: %v", ents)
	}
}

func TestAtomicFileAbort(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "chr2.bg")
	a, err := CreateAtomic(dst)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = a.WriteString("partial")
	a.Abort()
	ents, _ := os.ReadDir(dir)
	if len(ents) != 0 {
		t.Fatalf("expected empty dir, got %v", ents)
	}
}

func TestAtomicFileReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "chr3.bg")
	if err := os.WriteFile(dst, []byte("old\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := CreateAtomic(dst)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = a.WriteString("new\n")
	if b, _ := os.ReadFile(dst); string(b) != "old\n" {
		t.Fatalf("destination changed before commit: %q", b)
	}
	if err := a.Commit(); err != nil {
		t.Fatal(err)
	}
	if b, _ := os.ReadFile(dst); string(b) != "new\n" {
		t.Fatalf("destination not replaced: %q", b)
	}
}

func TestCreateAtomicMissingDir(t *testing.T) {
	if _, err := CreateAtomic(filepath.Join(t.TempDir(), "nope", "x.bg")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
