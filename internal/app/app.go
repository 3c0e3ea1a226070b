// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/google/uuid"

	"nucocc/internal/appcore"
	"nucocc/internal/cli"
	"nucocc/internal/config"
	"nucocc/internal/engine"
	"nucocc/internal/logger"
	"nucocc/internal/metrics"
	"nucocc/internal/version"
	"nucocc/internal/writers"
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	cfg, err := config.Load(parent)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitInput
	}

	fs := cli.NewFlagSet("nucocc")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseArgs(fs, argv, cfg)
	if err != nil {
		code := appcore.ExitOK
		if !errors.Is(err, flag.ErrHelp) {
			_, _ = fmt.Fprintln(stderr, err)
			code = appcore.ExitInput
		}
		fs.SetOutput(outw)
		fs.Usage()
		return flush(outw, stderr, code)
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "nucocc version %s\n", version.Version)
		return flush(outw, stderr, appcore.ExitOK)
	}

	log, err := logger.New(stderr, opts.LogLevel)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitInput
	}
	runID := uuid.NewString()
	log = log.Named("nucocc").With(logger.String("run_id", runID))
	mets := metrics.NewManager(metrics.WithConstLabels(map[string]string{"run_id": runID}))

	code := appcore.Run(parent, stdout, appcore.Options{
		Inputs:        opts.Inputs,
		Kernel:        engine.Kernel{Radius: opts.Radius, Bandwidth: opts.Bandwidth},
		Threads:       opts.Threads,
		MinChunkSize:  opts.MinChunkSize,
		Format:        opts.Format,
		OutDir:        opts.OutDir,
		Stdout:        opts.Stdout,
		EmptyExitCode: opts.EmptyExitCode,
	}, appcore.Deps{Log: log, Metrics: mets})

	if opts.MetricsFile != "" {
		if err := mets.WriteTextfile(opts.MetricsFile); err != nil {
			log.Error(parent, "writing metrics", logger.String("path", opts.MetricsFile), logger.Error(err))
			if code == appcore.ExitOK {
				code = appcore.ExitRuntime
			}
		}
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func flush(w *bufio.Writer, stderr io.Writer, code int) int {
	if err := w.Flush(); writers.IsBrokenPipe(err) {
		return appcore.ExitOK
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitRuntime
	}
	return code
}
