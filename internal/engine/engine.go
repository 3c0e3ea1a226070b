package engine

import (
	"fmt"
	"math"
	"sort"
)

// Default kernel parameters (bp).
const (
	DefaultRadius    = 73
	DefaultBandwidth = 20.0
)

// Kernel is a truncated Gaussian: events further than Radius from a target
// contribute nothing, nearer ones weight*exp(-((d/Bandwidth)^2)/2).
type Kernel struct {
	Radius    int
	Bandwidth float64
}

// Default returns the W=73, sigma=20 kernel.
func Default() Kernel { return Kernel{Radius: DefaultRadius, Bandwidth: DefaultBandwidth} }

// Validate rejects kernels that cannot produce finite scores.
func (k Kernel) Validate() error {
	if k.Radius < 0 {
		return fmt.Errorf("kernel radius must be >= 0, got %d", k.Radius)
	}
	if !(k.Bandwidth > 0) || math.IsInf(k.Bandwidth, 0) {
		return fmt.Errorf("kernel bandwidth must be a positive number, got %v", k.Bandwidth)
	}
	return nil
}

// Weight is the kernel value at signed distance d. It does not apply the radius cutoff.
func (k Kernel) Weight(d int) float64 {
	x := float64(d) / k.Bandwidth
	return math.Exp(-(x * x) / 2)
}

// Score returns the occupancy at p from events (positions, weights), which
// must be sorted by position. Events at exactly Radius are included.
//
// Terms are summed in ascending position order, so any slice of the series
// that covers [p-Radius, p+Radius] yields the identical float64.
func (k Kernel) Score(p int, positions []int, weights []float64) float64 {
	from, to := Window(p, k.Radius)
	sum := 0.0
	for i := sort.SearchInts(positions, from); i < len(positions) && positions[i] <= to; i++ {
		sum += weights[i] * k.Weight(positions[i]-p)
	}
	return sum
}

// Window returns the inclusive bounds [p-radius, p+radius], saturated at the
// int range instead of wrapping. radius must be >= 0.
func Window(p, radius int) (from, to int) {
	from, to = math.MinInt, math.MaxInt
	if p >= math.MinInt+radius {
		from = p - radius
	}
	if p <= math.MaxInt-radius {
		to = p + radius
	}
	return from, to
}
