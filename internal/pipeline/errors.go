package pipeline

import "fmt"

// WorkerComputationError is a failure while scoring one chunk. It aborts the
// whole run; no partial results are kept.
type WorkerComputationError struct {
	Chunk    int
	From, To int // target position range of the chunk
	Position int // offending target, when known
	Err      error
}

func (e *WorkerComputationError) Error() string {
	return fmt.Sprintf("chunk %d [%d-%d]: position %d: %v", e.Chunk, e.From, e.To, e.Position, e.Err)
}

func (e *WorkerComputationError) Unwrap() error { return e.Err }
