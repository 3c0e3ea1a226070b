package normalizeapp

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalizeFileToStdout(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "chr1.bg")
	_ = os.WriteFile(in, []byte("chr1\t9\t10\t\t1\nchr1\t19\t20\t\t3\n"), 0o644)

	var out, errb bytes.Buffer
	if code := Run([]string{in, "--log-level", "error"}, &out, &errb); code != 0 {
		t.Fatalf("exit %d: %s", code, errb.String())
	}
	if out.String() != "chr1\t9\t10\t0.5\nchr1\t19\t20\t1.5\n" {
		t.Fatalf("got %q", out.String())
	}
}

func TestNormalizeToFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "chr1.bg")
	dst := filepath.Join(dir, "chr1.norm.bg")
	_ = os.WriteFile(in, []byte("chr1\t0\t1\t\t2\n"), 0o644)

	var out, errb bytes.Buffer
	if code := Run([]string{"-o", dst, in}, &out, &errb); code != 0 {
		t.Fatalf("exit %d: %s", code, errb.String())
	}
	b, err := os.ReadFile(dst)
	if err != nil || string(b) != "chr1\t0\t1\t1.0\n" {
		t.Fatalf("got %q err %v", b, err)
	}
}

func TestNormalizeNoValues(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.bg")
	dst := filepath.Join(dir, "out.bg")
	_ = os.WriteFile(in, []byte("header only\n"), 0o644)

	var out, errb bytes.Buffer
	if code := Run([]string{in, "-o", dst}, &out, &errb); code != 2 {
		t.Fatalf("exit %d", code)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatal("failed run left an output file")
	}
	if !strings.Contains(errb.String(), "no valid numeric values") {
		t.Fatalf("stderr %q", errb.String())
	}
}

func TestNormalizeHelpAndArgs(t *testing.T) {
	var out, errb bytes.Buffer
	if code := Run([]string{"-h"}, &out, &errb); code != 0 || !strings.Contains(out.String(), "Usage:") {
		t.Fatalf("help: code=%d out=%q", code, out.String())
	}
	if code := Run([]string{"a", "b"}, &out, &errb); code != 2 {
		t.Fatalf("two inputs: code=%d", code)
	}
}
