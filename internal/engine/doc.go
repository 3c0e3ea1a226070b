// Package engine contains the occupancy kernel. It never imports app, writers,
// cli, or pipeline; keep it domain-only.
//
// Scores are unnormalised Gaussian kernel sums over dyad events. Mean
// normalisation happens downstream (internal/normalize), never here.
package engine
