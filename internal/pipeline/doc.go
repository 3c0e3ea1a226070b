// Package pipeline splits a dyad series into chunks, scores them on a pool of
// workers, and reassembles the scores in position order.
//
// Each chunk carries the slice of events within the kernel radius of its
// targets, so a chunk computes exactly what a single pass over the whole
// series would. Workers share nothing but the read-only series backing array.
package pipeline
