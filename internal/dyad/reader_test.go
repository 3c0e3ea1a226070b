package dyad

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

const sample = `chr1	100	1.0
chr1	110	2
chr2 5 0.5
chr1	90	3.5

`

func TestParseGroupsByLabelAndSorts(t *testing.T) {
	set, err := Parse(strings.NewReader(sample), "sample")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(set.Series) != 2 || set.Series[0].Label != "chr1" || set.Series[1].Label != "chr2" {
		t.Fatalf("unexpected labels: %+v", set.Series)
	}
	c1 := set.Series[0]
	if !reflect.DeepEqual(c1.Positions, []int{90, 100, 110}) {
		t.Fatalf("positions not sorted: %v", c1.Positions)
	}
	if !reflect.DeepEqual(c1.Weights, []float64{3.5, 1.0, 2}) {
		t.Fatalf("weights not carried with positions: %v", c1.Weights)
	}
	if set.Events() != 4 {
		t.Fatalf("want 4 events, got %d", set.Events())
	}
	lo, hi, ok := c1.Span()
	if !ok || lo != 90 || hi != 110 {
		t.Fatalf("span = %d,%d,%v", lo, hi, ok)
	}
}

func TestParseKeepsDuplicatesInInputOrder(t *testing.T) {
	in := "c 20 1\nc 10 7\nc 10 8\nc 10 9\n"
	set, err := Parse(strings.NewReader(in), "dup")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(set.Series) != 1 {
		t.Fatalf("want one series, got %d", len(set.Series))
	}
	s := set.Series[0]
	if !reflect.DeepEqual(s.Positions, []int{10, 10, 10, 20}) || !reflect.DeepEqual(s.Weights, []float64{7, 8, 9, 1}) {
		t.Fatalf("duplicates reordered or dropped: %v %v", s.Positions, s.Weights)
	}
}

func TestParseMalformed(t *testing.T) {
	cases := []struct {
		name, in string
		line     int
		reason   string
	}{
		{"too few fields", "chr1 100 1\nchr1 100\n", 2, "expected 3 fields"},
		{"too many fields", "chr1 100 1 x\n", 1, "expected 3 fields"},
		{"float position", "chr1 10.5 1\n", 1, "not an integer"},
		{"bad weight", "chr1 10 abc\n", 1, "not a number"},
		{"position at int max", "chr1 100 1\nchr1 9223372036854775807 1\n", 2, "outside"},
		{"position below bound", "chr1 -1099511627777 1\n", 1, "outside"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.in), "in.txt")
			var me *MalformedRecordError
			if !errors.As(err, &me) {
				t.Fatalf("want MalformedRecordError, got %v", err)
			}
			if me.Line != tc.line || !strings.Contains(me.Reason, tc.reason) {
				t.Fatalf("got line %d reason %q", me.Line, me.Reason)
			}
			if !strings.HasPrefix(err.Error(), "in.txt:") {
				t.Fatalf("error should name the source: %v", err)
			}
		})
	}
}

func TestParseAcceptsBoundPositions(t *testing.T) {
	in := fmt.Sprintf("c %d 1\nc %d 2\n", MaxPosition, -MaxPosition)
	set, err := Parse(strings.NewReader(in), "bounds")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := set.Series[0].Positions; got[0] != -MaxPosition || got[1] != MaxPosition {
		t.Fatalf("positions %v", got)
	}
}

func TestParseEmpty(t *testing.T) {
	set, err := Parse(strings.NewReader("\n\n"), "empty")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if set.Events() != 0 || len(set.Series) != 0 {
		t.Fatalf("expected nothing, got %+v", set)
	}
}

func TestParseContextCancelled(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 5000; i++ {
		b.WriteString("c 1 1\n")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ParseContext(ctx, strings.NewReader(b.String()), "big"); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestLoadCompressed(t *testing.T) {
	dir := t.TempDir()

	gzPath := filepath.Join(dir, "dyads.txt.gz")
	fh, err := os.Create(gzPath)
	if err != nil {
		t.Fatal(err)
	}
	gw := gzip.NewWriter(fh)
	_, _ = gw.Write([]byte(sample))
	_ = gw.Close()
	_ = fh.Close()

	// No suffix: detection must rely on the magic number.
	zstPath := filepath.Join(dir, "dyads.bin")
	zfh, err := os.Create(zstPath)
	if err != nil {
		t.Fatal(err)
	}
	zw, err := zstd.NewWriter(zfh)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = zw.Write([]byte(sample))
	_ = zw.Close()
	_ = zfh.Close()

	plainPath := filepath.Join(dir, "dyads.txt")
	if err := os.WriteFile(plainPath, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{plainPath, gzPath, zstPath} {
		set, err := Load(context.Background(), p)
		if err != nil {
			t.Fatalf("load %s: %v", p, err)
		}
		if set.Events() != 4 || set.Source != p {
			t.Fatalf("%s: events=%d source=%s", p, set.Events(), set.Source)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want not-exist error, got %v", err)
	}
}
