// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"nucocc/internal/dyad"
	"nucocc/internal/engine"
	"nucocc/internal/runutil"
)

// DefaultMinChunkSize is the smallest number of targets worth a chunk of its own.
const DefaultMinChunkSize = 1000

// Config controls chunking and the worker pool.
type Config struct {
	Threads      int // worker goroutines; 0 = all CPUs
	MinChunkSize int // floor on targets per chunk; 0 = DefaultMinChunkSize
	Kernel       engine.Kernel
	Recorder     Recorder // optional
}

// Recorder observes finished chunks (metrics).
type Recorder interface {
	ChunkDone(contextEvents, targets int, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ChunkDone(int, int, time.Duration) {}

// Plan returns the chunk count and worker count Run would use for n targets.
func (c Config) Plan(n int) (chunks, workers int) {
	threads := runutil.EffectiveThreads(c.Threads)
	minChunk := c.MinChunkSize
	if minChunk < 1 {
		minChunk = DefaultMinChunkSize
	}
	chunks = runutil.ChunkCount(n, threads, minChunk)
	return chunks, runutil.PoolSize(threads, chunks)
}

// Run scores every event position of s and returns the scores in position order.
// One row is produced per event, so duplicate positions yield duplicate rows.
func Run(ctx context.Context, cfg Config, s dyad.Series) ([]Scored, error) {
	if err := cfg.Kernel.Validate(); err != nil {
		return nil, err
	}
	k, workers := cfg.Plan(s.Len())
	if k == 0 {
		return nil, nil
	}
	if ws, ok := cfg.Recorder.(interface{ SetWorkers(int) }); ok {
		ws.SetWorkers(workers)
	}
	return Execute(ctx, cfg.Kernel, Partition(s, k, cfg.Kernel.Radius), workers, cfg.Recorder)
}

// Execute evaluates chunks on `workers` goroutines. Results are collected in
// completion order and sorted by Aggregate. The first failing chunk cancels
// the remaining work and its error is returned.
func Execute(ctx context.Context, kernel engine.Kernel, chunks []Chunk, workers int, rec Recorder) ([]Scored, error) {
	if workers < 1 {
		workers = 1
	}
	if rec == nil {
		rec = nopRecorder{}
	}

	jobs := make(chan Chunk)
	results := make(chan []Scored, workers)

	// Workers
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for c := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				start := time.Now()
				out, err := evaluate(kernel, c)
				if err != nil {
					return err
				}
				rec.ChunkDone(len(c.Positions), len(c.Targets), time.Since(start))
				select {
				case results <- out:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	// Collector
	var parts [][]Scored
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for r := range results {
			parts = append(parts, r)
		}
	}()

	// Feed work
feed:
	for _, c := range chunks {
		select {
		case <-gctx.Done():
			break feed
		case jobs <- c:
		}
	}
	close(jobs)

	err := g.Wait()
	close(results)
	<-collected

	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return Aggregate(parts), nil
}

// evaluate scores one chunk. Panics and non-finite scores become
// WorkerComputationErrors.
func evaluate(kernel engine.Kernel, c Chunk) (out []Scored, err error) {
	cur := c.From()
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &WorkerComputationError{Chunk: c.Index, From: c.From(), To: c.To(), Position: cur, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	out = make([]Scored, len(c.Targets))
	for i, p := range c.Targets {
		cur = p
		v := kernel.Score(p, c.Positions, c.Weights)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &WorkerComputationError{Chunk: c.Index, From: c.From(), To: c.To(), Position: p, Err: fmt.Errorf("non-finite score %v", v)}
		}
		out[i] = Scored{Position: p, Score: v}
	}
	return out, nil
}

// Reference scores every position of s against the whole series on the
// calling goroutine. It is the single-pass baseline Run must reproduce.
func Reference(kernel engine.Kernel, s dyad.Series) []Scored {
	out := make([]Scored, s.Len())
	for i, p := range s.Positions {
		out[i] = Scored{Position: p, Score: kernel.Score(p, s.Positions, s.Weights)}
	}
	return out
}
