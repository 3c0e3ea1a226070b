// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"io"
	"runtime"

	"nucocc/internal/cliutil"
	"nucocc/internal/cmdutil"
	"nucocc/internal/dyad"
	"nucocc/internal/engine"
	"nucocc/internal/logger"
	"nucocc/internal/metrics"
	"nucocc/internal/output"
	"nucocc/internal/pipeline"
	"nucocc/internal/writers"
)

// Exit codes shared by the nucocc tools.
const (
	ExitOK       = 0
	ExitInput    = 2 // usage, config or malformed input
	ExitRuntime  = 3 // worker or write failure
	ExitCanceled = 130
)

type Options struct {
	Inputs []string

	Kernel       engine.Kernel
	Threads      int
	MinChunkSize int

	Format        string
	OutDir        string
	Stdout        bool
	EmptyExitCode int
}

// Deps are the run-scoped collaborators built by the caller.
type Deps struct {
	Log     logger.Logger
	Metrics *metrics.Manager
}

type runner struct {
	o    Options
	log  logger.Logger
	mets *metrics.Manager
	cfg  pipeline.Config
}

// Run processes every input in order and returns the process exit code.
// The first fatal error aborts the run; outputs already committed for
// earlier inputs are kept.
func Run(parent context.Context, stdout io.Writer, o Options, d Deps) int {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewManager()
	}
	if err := o.Kernel.Validate(); err != nil {
		d.Log.Error(parent, "invalid kernel", logger.Error(err))
		return ExitInput
	}

	thr := o.Threads
	if thr <= 0 {
		thr = runtime.NumCPU()
	}
	r := &runner{
		o:    o,
		log:  d.Log,
		mets: d.Metrics,
		cfg: pipeline.Config{
			Threads:      thr,
			MinChunkSize: o.MinChunkSize,
			Kernel:       o.Kernel,
			Recorder:     d.Metrics,
		},
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// Stdout gets a single writer shared by all inputs.
	var (
		shared   chan<- output.Record
		sharedCh <-chan error
		outw     *bufio.Writer
	)
	if o.Stdout {
		outw = bufio.NewWriter(stdout)
		shared, sharedCh = writers.Start(outw, o.Format, thr*64)
	}

	code, written, empty := ExitOK, 0, 0
	for _, in := range o.Inputs {
		var n int
		var err error
		switch {
		case shared != nil:
			n, err = r.stream(ctx, in, shared)
		case in == "-":
			n, err = r.toWriter(ctx, in, stdout)
		default:
			n, err = r.toFile(ctx, in)
		}
		var empt *dyad.EmptyInputError
		if errors.As(err, &empt) {
			r.log.Warn(ctx, "no events, skipping", logger.String("input", in))
			r.mets.RecordFailure(metrics.FailureEmpty)
			empty++
			continue
		}
		if err != nil {
			code = r.fail(ctx, in, err)
			break
		}
		written += n
	}

	if shared != nil {
		close(shared)
		werr := <-sharedCh
		if werr == nil {
			werr = outw.Flush()
		}
		if werr != nil && !writers.IsBrokenPipe(werr) && code == ExitOK {
			code = r.fail(ctx, "-", werr)
		}
	}

	if code == ExitOK && parent.Err() != nil {
		return ExitCanceled
	}
	if code == ExitOK && empty == len(o.Inputs) {
		return o.EmptyExitCode
	}
	if code == ExitOK {
		r.log.Info(ctx, "done", logger.Int("inputs", len(o.Inputs)), logger.Int("rows", written))
	}
	return code
}

// fail logs err, counts it and maps it onto an exit code.
func (r *runner) fail(ctx context.Context, in string, err error) int {
	var mre *dyad.MalformedRecordError
	var wce *pipeline.WorkerComputationError
	switch {
	case errors.Is(err, context.Canceled):
		r.log.Warn(ctx, "cancelled", logger.String("input", in))
		return ExitCanceled
	case errors.As(err, &mre):
		r.mets.RecordFailure(metrics.FailureMalformed)
		r.log.Error(ctx, "malformed input", logger.String("input", in), logger.Int("line", mre.Line), logger.Error(err))
		return ExitInput
	case errors.As(err, &wce):
		r.mets.RecordFailure(metrics.FailureWorker)
		r.log.Error(ctx, "worker failed", logger.String("input", in), logger.Int("chunk", wce.Chunk), logger.Error(err))
		return ExitRuntime
	case errors.Is(err, errOpen):
		r.log.Error(ctx, "cannot read input", logger.String("input", in), logger.Error(err))
		return ExitInput
	default:
		r.mets.RecordFailure(metrics.FailureWrite)
		r.log.Error(ctx, "write failed", logger.String("input", in), logger.Error(err))
		return ExitRuntime
	}
}

// toFile writes in's results to its derived output path. Nothing is left on
// disk unless every series of in was scored and written.
func (r *runner) toFile(ctx context.Context, in string) (int, error) {
	set, err := r.load(ctx, in)
	if err != nil {
		return 0, err
	}
	path := cliutil.OutputPath(in, r.o.OutDir, output.Extension(r.o.Format))
	af, err := writers.CreateAtomic(path)
	if err != nil {
		return 0, err
	}
	n, err := r.write(ctx, set, af)
	if err != nil {
		af.Abort()
		return 0, err
	}
	if err := af.Commit(); err != nil {
		return 0, err
	}
	r.log.Info(ctx, "wrote", logger.String("input", in), logger.String("output", path), logger.Int("rows", n))
	return n, nil
}

// toWriter is toFile for stdin input: results go to w.
func (r *runner) toWriter(ctx context.Context, in string, w io.Writer) (int, error) {
	set, err := r.load(ctx, in)
	if err != nil {
		return 0, err
	}
	n, err := r.write(ctx, set, w)
	if writers.IsBrokenPipe(err) {
		return n, nil
	}
	return n, err
}

// stream sends in's results to an already running writer.
func (r *runner) stream(ctx context.Context, in string, ch chan<- output.Record) (int, error) {
	set, err := r.load(ctx, in)
	if err != nil {
		return 0, err
	}
	return cmdutil.RunStream(ctx, r.cfg, set, r.log, send(ctx, ch))
}

func (r *runner) write(ctx context.Context, set *dyad.Set, w io.Writer) (int, error) {
	outw := bufio.NewWriterSize(w, 64<<10)
	inCh, errCh := writers.Start(outw, r.o.Format, r.cfg.Threads*64)
	n, perr := cmdutil.RunStream(ctx, r.cfg, set, r.log, send(ctx, inCh))
	close(inCh)
	werr := <-errCh
	if perr != nil {
		return 0, perr
	}
	if werr != nil {
		return 0, werr
	}
	return n, outw.Flush()
}

var errOpen = errors.New("open input")

func (r *runner) load(ctx context.Context, in string) (*dyad.Set, error) {
	set, err := dyad.Load(ctx, in)
	if err != nil {
		var mre *dyad.MalformedRecordError
		if errors.As(err, &mre) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errors.Join(errOpen, err)
	}
	r.mets.RecordEventsLoaded(set.Events())
	if set.Events() == 0 {
		return nil, &dyad.EmptyInputError{Source: in}
	}
	r.log.Info(ctx, "loaded",
		logger.String("input", in),
		logger.Int("chromosomes", len(set.Series)),
		logger.Int("events", set.Events()))
	return set, nil
}

func send(ctx context.Context, ch chan<- output.Record) func(output.Record) error {
	return func(rec output.Record) error {
		select {
		case ch <- rec:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
