package appshell

import (
	"context"
	"io"
	"testing"
)

func TestExecEmptyArgvShowsHelp(t *testing.T) {
	var got []string
	code := Exec(context.Background(), func(_ context.Context, argv []string, _, _ io.Writer) int {
		got = argv
		return 0
	}, nil, io.Discard, io.Discard)
	if code != 0 || len(got) != 1 || got[0] != "-h" {
		t.Fatalf("code=%d argv=%v", code, got)
	}
}

func TestExecNormalizesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok := func(context.Context, []string, io.Writer, io.Writer) int { return 0 }
	if code := Exec(ctx, ok, []string{"x"}, io.Discard, io.Discard); code != 130 {
		t.Fatalf("code=%d", code)
	}
	fail := func(context.Context, []string, io.Writer, io.Writer) int { return 2 }
	if code := Exec(ctx, fail, []string{"x"}, io.Discard, io.Discard); code != 2 {
		t.Fatalf("code=%d", code)
	}
}
