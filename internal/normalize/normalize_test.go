package normalize

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNormalizeEngineOutput(t *testing.T) {
	in := "chr1\t99\t100\t\t1\nchr1\t109\t110\t\t3\n"
	var out bytes.Buffer
	mean, err := Normalize(strings.NewReader(in), &out)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if mean != 2 {
		t.Fatalf("mean = %v, want 2", mean)
	}
	want := "chr1\t99\t100\t0.5\nchr1\t109\t110\t1.5\n"
	if out.String() != want {
		t.Fatalf("got %q want %q", out.String(), want)
	}
}

func TestReadSkipsUnusableRows(t *testing.T) {
	in := "track type=bedGraph\nchr1 0 1 x\nchr1 1 2 4\n\nchr1 2 3\n"
	rows, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Score != 4 {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestNoValues(t *testing.T) {
	_, err := Normalize(strings.NewReader("junk\n"), &bytes.Buffer{})
	if !errors.Is(err, ErrNoValues) {
		t.Fatalf("want ErrNoValues, got %v", err)
	}
}

func TestZeroMean(t *testing.T) {
	_, err := Normalize(strings.NewReader("c 0 1 0\nc 1 2 0\n"), &bytes.Buffer{})
	if !errors.Is(err, ErrZeroMean) {
		t.Fatalf("want ErrZeroMean, got %v", err)
	}
}

func TestWriteKeepsDecimalPoint(t *testing.T) {
	var out bytes.Buffer
	if _, err := Normalize(strings.NewReader("c\t0\t1\t\t2.0\nc\t1\t2\t\t6.0\n"), &out); err != nil {
		t.Fatal(err)
	}
	if want := "c\t0\t1\t0.5\nc\t1\t2\t1.5\n"; out.String() != want {
		t.Fatalf("got %q want %q", out.String(), want)
	}
	out.Reset()
	if _, err := Normalize(strings.NewReader("c 0 1 4\n"), &out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "c\t0\t1\t1.0\n" {
		t.Fatalf("integral ratio lost its decimal: %q", out.String())
	}
}
