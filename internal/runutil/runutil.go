// internal/runutil/runutil.go
package runutil

import "runtime"

// EffectiveThreads resolves a --threads value: <=0 means all CPUs.
func EffectiveThreads(threads int) int {
	if threads <= 0 {
		return runtime.NumCPU()
	}
	return threads
}

// TargetChunkSize is the preferred number of target positions per chunk:
// an even split across workers, but never below minChunk.
func TargetChunkSize(n, workers, minChunk int) int {
	if workers < 1 {
		workers = 1
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if per := n / workers; per > minChunk {
		return per
	}
	return minChunk
}

// ChunkCount returns K = min(workers, ceil(n/TargetChunkSize)). It is 0 only
// when there is nothing to score.
func ChunkCount(n, workers, minChunk int) int {
	if n <= 0 {
		return 0
	}
	if workers < 1 {
		workers = 1
	}
	size := TargetChunkSize(n, workers, minChunk)
	k := (n + size - 1) / size
	if k > workers {
		k = workers
	}
	return k
}

// PoolSize is the number of workers actually started for k chunks.
func PoolSize(threads, k int) int {
	if k < threads {
		return k
	}
	return threads
}
