// internal/pipeline/chunk.go
package pipeline

import (
	"sort"

	"nucocc/internal/dyad"
	"nucocc/internal/engine"
)

// Chunk is one unit of parallel work: a contiguous run of target positions
// plus every event within the kernel radius of any of them.
//
// All slices are capacity-limited views of the series and must not be written.
type Chunk struct {
	Index     int
	Targets   []int
	Positions []int
	Weights   []float64
}

// From returns the first target position.
func (c Chunk) From() int {
	if len(c.Targets) == 0 {
		return 0
	}
	return c.Targets[0]
}

// To returns the last target position.
func (c Chunk) To() int {
	if len(c.Targets) == 0 {
		return 0
	}
	return c.Targets[len(c.Targets)-1]
}

// Partition splits the series' positions into k contiguous target ranges whose
// sizes differ by at most one, and gives each the events in
// [first-radius, last+radius]. k is clamped to [1, s.Len()]. Context windows
// are clipped at the ends of the series, never padded.
func Partition(s dyad.Series, k, radius int) []Chunk {
	n := s.Len()
	if n == 0 {
		return nil
	}
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}

	chunks := make([]Chunk, 0, k)
	base, rem := n/k, n%k
	start := 0
	for i := 0; i < k; i++ {
		size := base
		if i < rem {
			size++
		}
		end := start + size
		targets := s.Positions[start:end:end]

		from, _ := engine.Window(targets[0], radius)
		_, to := engine.Window(targets[len(targets)-1], radius)
		lo := sort.SearchInts(s.Positions, from)
		hi := sort.Search(n, func(j int) bool { return s.Positions[j] > to })

		chunks = append(chunks, Chunk{
			Index:     i,
			Targets:   targets,
			Positions: s.Positions[lo:hi:hi],
			Weights:   s.Weights[lo:hi:hi],
		})
		start = end
	}
	return chunks
}
