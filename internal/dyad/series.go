// Package dyad loads nucleosome dyad calls into per-chromosome series.
//
// Input is line oriented, one event per line:
//
//	<chromosome> <position:int> <weight:float>
//
// Fields are whitespace separated and there is no header.
package dyad

import "sort"

// Series holds one chromosome's events as parallel position/weight slices,
// ordered by position. It is read-only once returned by the loader.
type Series struct {
	Label     string
	Positions []int
	Weights   []float64
}

// Len returns the number of events.
func (s Series) Len() int { return len(s.Positions) }

// Span returns the first and last position; ok is false for an empty series.
func (s Series) Span() (lo, hi int, ok bool) {
	if len(s.Positions) == 0 {
		return 0, 0, false
	}
	return s.Positions[0], s.Positions[len(s.Positions)-1], true
}

func (s *Series) append(pos int, w float64) {
	s.Positions = append(s.Positions, pos)
	s.Weights = append(s.Weights, w)
}

// sortByPosition orders events by position; events sharing a position keep
// their input order.
func (s *Series) sortByPosition() {
	if sort.IntsAreSorted(s.Positions) {
		return
	}
	idx := make([]int, len(s.Positions))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return s.Positions[idx[a]] < s.Positions[idx[b]] })
	pos := make([]int, len(idx))
	w := make([]float64, len(idx))
	for i, j := range idx {
		pos[i] = s.Positions[j]
		w[i] = s.Weights[j]
	}
	s.Positions, s.Weights = pos, w
}

// Set is every series found in one input, in first-seen label order.
type Set struct {
	Source string
	Series []Series
}

// Events returns the total event count across all series.
func (s *Set) Events() int {
	n := 0
	for _, sr := range s.Series {
		n += sr.Len()
	}
	return n
}
