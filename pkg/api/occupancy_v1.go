// pkg/api/occupancy_v1.go
package api

// OccupancyV1 is the stable JSONL schema for one scored position.
// Start/End follow bedGraph: 0-based half-open, so End is the dyad position.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type OccupancyV1 struct {
	Chrom string  `json:"chrom"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Score float64 `json:"score"`
}
