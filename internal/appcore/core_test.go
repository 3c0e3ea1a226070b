package appcore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nucocc/internal/engine"
	"nucocc/internal/metrics"
)

func writeInput(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func opts(inputs ...string) Options {
	return Options{Inputs: inputs, Kernel: engine.Default(), Threads: 2, MinChunkSize: 1, Format: "bedgraph"}
}

func failures(t *testing.T, m *metrics.Manager, kind string) float64 {
	t.Helper()
	mfs, err := m.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range mfs {
		if !strings.HasSuffix(mf.GetName(), "failures_total") {
			continue
		}
		for _, mt := range mf.GetMetric() {
			for _, lp := range mt.GetLabel() {
				if lp.GetName() == "kind" && lp.GetValue() == kind {
					return mt.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestRunWritesFileNextToInput(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "chr1.dyads.txt", "chr1 100 1\nchr1 110 0.5\n")
	var stdout bytes.Buffer
	if code := Run(context.Background(), &stdout, opts(in), Deps{}); code != ExitOK {
		t.Fatalf("exit %d", code)
	}
	b, err := os.ReadFile(filepath.Join(dir, "chr1.bg"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "chr1\t99\t100\t\t") {
		t.Fatalf("output %q", b)
	}
	if stdout.Len() != 0 {
		t.Fatalf("unexpected stdout %q", stdout.String())
	}
}

func TestRunStdoutAndOutDir(t *testing.T) {
	dir := t.TempDir()
	a := writeInput(t, dir, "a.txt", "chrA 10 1\n")
	b := writeInput(t, dir, "b.txt", "chrB 20 1\n")

	var stdout bytes.Buffer
	o := opts(a, b)
	o.Stdout = true
	if code := Run(context.Background(), &stdout, o, Deps{}); code != ExitOK {
		t.Fatalf("exit %d", code)
	}
	if stdout.String() != "chrA\t9\t10\t\t1.0\nchrB\t19\t20\t\t1.0\n" {
		t.Fatalf("stdout %q", stdout.String())
	}

	out := filepath.Join(dir, "out")
	_ = os.Mkdir(out, 0o755)
	o = opts(a)
	o.OutDir = out
	o.Format = "jsonl"
	if code := Run(context.Background(), &stdout, o, Deps{}); code != ExitOK {
		t.Fatalf("exit %d", code)
	}
	got, err := os.ReadFile(filepath.Join(out, "a.jsonl"))
	if err != nil || !strings.Contains(string(got), `"chrom":"chrA"`) {
		t.Fatalf("jsonl %q err %v", got, err)
	}
}

func TestRunEmptyInput(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "empty.txt", "\n")
	m := metrics.NewManager()
	o := opts(in)
	o.EmptyExitCode = 4
	if code := Run(context.Background(), &bytes.Buffer{}, o, Deps{Metrics: m}); code != 4 {
		t.Fatalf("exit %d", code)
	}
	if _, err := os.Stat(filepath.Join(dir, "empty.bg")); !os.IsNotExist(err) {
		t.Fatal("empty input must not produce a file")
	}
	if failures(t, m, metrics.FailureEmpty) != 1 {
		t.Fatal("empty input not counted")
	}

	// One non-empty input is enough for a clean exit.
	full := writeInput(t, dir, "full.txt", "c 1 1\n")
	if code := Run(context.Background(), &bytes.Buffer{}, opts(in, full), Deps{}); code != ExitOK {
		t.Fatalf("mixed exit %d", code)
	}
}

func TestRunFailuresLeaveNoFile(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name, body string
		code       int
		kind       string
	}{
		{"bad.txt", "chr1 100 1\nchr1 oops 1\n", ExitInput, metrics.FailureMalformed},
		{"inf.txt", "chr1 100 1\nchr1 120 inf\n", ExitRuntime, metrics.FailureWorker},
	}
	for _, c := range cases {
		in := writeInput(t, dir, c.name, c.body)
		m := metrics.NewManager()
		if code := Run(context.Background(), &bytes.Buffer{}, opts(in), Deps{Metrics: m}); code != c.code {
			t.Fatalf("%s: exit %d want %d", c.name, code, c.code)
		}
		if failures(t, m, c.kind) != 1 {
			t.Fatalf("%s: failure %q not counted", c.name, c.kind)
		}
	}
	ents, _ := os.ReadDir(dir)
	for _, e := range ents {
		if !strings.HasSuffix(e.Name(), ".txt") {
			t.Fatalf("unexpected file %s", e.Name())
		}
	}
}

func TestRunMissingInput(t *testing.T) {
	if code := Run(context.Background(), &bytes.Buffer{}, opts(filepath.Join(t.TempDir(), "nope.txt")), Deps{}); code != ExitInput {
		t.Fatalf("exit %d", code)
	}
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "c.txt", "c 1 1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if code := Run(ctx, &bytes.Buffer{}, opts(in), Deps{}); code != ExitCanceled {
		t.Fatalf("exit %d", code)
	}
}
