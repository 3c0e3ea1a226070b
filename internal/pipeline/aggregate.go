package pipeline

import "sort"

// Scored is the occupancy at one target position.
type Scored struct {
	Position int
	Score    float64
}

// Aggregate concatenates per-chunk results, in whatever order they arrived,
// and sorts them by position. Rows sharing a position are all kept; since
// they were scored against the same events their scores are identical.
func Aggregate(parts [][]Scored) []Scored {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]Scored, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}
