package dyad

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MaxPosition bounds accepted positions in both directions. It is far beyond
// any assembled chromosome and keeps window arithmetic well inside int64.
const MaxPosition = 1 << 40

// Load reads every event from path (plain, gzip, zstd or "-" for stdin).
func Load(ctx context.Context, path string) (*Set, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return ParseContext(ctx, rc, path)
}

// Parse reads events from r; source names the input in error messages.
func Parse(r io.Reader, source string) (*Set, error) {
	return ParseContext(context.Background(), r, source)
}

// ParseContext is Parse with cancellation checked every few thousand lines.
// Blank lines are skipped; any other line must hold exactly three fields.
func ParseContext(ctx context.Context, r io.Reader, source string) (*Set, error) {
	set := &Set{Source: source}
	index := map[string]int{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)
	ln := 0
	for sc.Scan() {
		ln++
		if ln&0xfff == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		line := sc.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			return nil, &MalformedRecordError{Source: source, Line: ln, Text: line,
				Reason: fmt.Sprintf("expected 3 fields (chrom position weight), got %d", len(fields))}
		}
		pos, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, &MalformedRecordError{Source: source, Line: ln, Text: line,
				Reason: fmt.Sprintf("position %q is not an integer", fields[1])}
		}
		if pos > MaxPosition || pos < -MaxPosition {
			return nil, &MalformedRecordError{Source: source, Line: ln, Text: line,
				Reason: fmt.Sprintf("position %d outside ±%d", pos, MaxPosition)}
		}
		w, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, &MalformedRecordError{Source: source, Line: ln, Text: line,
				Reason: fmt.Sprintf("weight %q is not a number", fields[2])}
		}

		i, ok := index[fields[0]]
		if !ok {
			i = len(set.Series)
			index[fields[0]] = i
			set.Series = append(set.Series, Series{Label: fields[0]})
		}
		set.Series[i].append(pos, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	for i := range set.Series {
		set.Series[i].sortByPosition()
	}
	return set, nil
}
