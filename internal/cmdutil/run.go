package cmdutil

import (
	"context"

	"nucocc/internal/dyad"
	"nucocc/internal/logger"
	"nucocc/internal/output"
	"nucocc/internal/pipeline"
)

// RunStream scores every series of set and streams the records via send, series
// in set order and positions ascending. All series are scored before the first
// record is sent, so a failing series produces no output at all.
// It returns the number of records sent and the first error encountered.
func RunStream(
	ctx context.Context,
	cfg pipeline.Config,
	set *dyad.Set,
	log logger.Logger,
	send func(output.Record) error,
) (int, error) {
	scored := make([][]pipeline.Scored, len(set.Series))
	for i, s := range set.Series {
		chunks, workers := cfg.Plan(s.Len())
		first, last, _ := s.Span()
		log.Debug(ctx, "chunk plan",
			logger.String("chrom", s.Label),
			logger.Int("events", s.Len()),
			logger.Int("first", first),
			logger.Int("last", last),
			logger.Int("chunks", chunks),
			logger.Int("workers", workers))

		out, err := pipeline.Run(ctx, cfg, s)
		if err != nil {
			return 0, err
		}
		scored[i] = out
	}

	total := 0
	for i, s := range set.Series {
		for _, sc := range scored[i] {
			if err := send(output.Record{Chrom: s.Label, Position: sc.Position, Score: sc.Score}); err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}
