// Package normalizeapp implements nucocc-normalize.
package normalizeapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"nucocc/internal/appcore"
	"nucocc/internal/cliutil"
	"nucocc/internal/config"
	"nucocc/internal/dyad"
	"nucocc/internal/logger"
	"nucocc/internal/normalize"
	"nucocc/internal/version"
	"nucocc/internal/writers"
)

const name = "nucocc-normalize"

type options struct {
	input    string
	output   string
	logLevel string
	version  bool
}

func newFlagSet(o *options, logLevel string) (*flag.FlagSet, *bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `%s: divide occupancy scores by their mean

Version: %s

Usage:
  %s [options] [occupancy.bg | -]

Options:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	help := new(bool)
	fs.StringVar(&o.output, "output", "", "write here instead of stdout")
	fs.StringVar(&o.output, "o", "", "alias of --output")
	fs.StringVar(&o.logLevel, "log-level", logLevel, "log level: debug | info | warn | error ["+logLevel+"]")
	fs.BoolVar(&o.version, "version", false, "print version and exit [false]")
	fs.BoolVar(&o.version, "v", false, "print version and exit [false]")
	fs.BoolVar(help, "h", false, "show this help message [false]")
	return fs, help
}

func parse(argv []string, logLevel string) (*flag.FlagSet, options, error) {
	var o options
	fs, help := newFlagSet(&o, logLevel)
	flagArgs, pos := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return fs, o, err
	}
	if *help {
		return fs, o, flag.ErrHelp
	}
	switch len(pos) {
	case 0:
		o.input = "-"
	case 1:
		o.input = pos[0]
	default:
		return fs, o, errors.New("at most one input file")
	}
	return fs, o, nil
}

func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	cfg, err := config.Load(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitInput
	}
	fs, o, err := parse(argv, cfg.LogLevel)
	if err != nil {
		code := appcore.ExitOK
		if !errors.Is(err, flag.ErrHelp) {
			_, _ = fmt.Fprintln(stderr, err)
			code = appcore.ExitInput
		}
		fs.SetOutput(outw)
		fs.Usage()
		return code
	}
	if o.version {
		_, _ = fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
		return appcore.ExitOK
	}
	log, err := logger.New(stderr, o.logLevel)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitInput
	}
	log = log.Named(name)

	in, err := dyad.Open(o.input)
	if err != nil {
		log.Error(ctx, "cannot read input", logger.String("input", o.input), logger.Error(err))
		return appcore.ExitInput
	}
	defer func() { _ = in.Close() }()

	var (
		dst io.Writer = outw
		af  *writers.AtomicFile
	)
	if o.output != "" {
		if af, err = writers.CreateAtomic(o.output); err != nil {
			log.Error(ctx, "cannot create output", logger.String("output", o.output), logger.Error(err))
			return appcore.ExitRuntime
		}
		dst = af
	}

	mean, err := normalize.Normalize(in, dst)
	if err != nil {
		if af != nil {
			af.Abort()
		}
		if writers.IsBrokenPipe(err) {
			return appcore.ExitOK
		}
		log.Error(ctx, "normalize failed", logger.String("input", o.input), logger.Error(err))
		if errors.Is(err, normalize.ErrNoValues) || errors.Is(err, normalize.ErrZeroMean) {
			return appcore.ExitInput
		}
		return appcore.ExitRuntime
	}
	if af != nil {
		if err := af.Commit(); err != nil {
			log.Error(ctx, "cannot commit output", logger.String("output", o.output), logger.Error(err))
			return appcore.ExitRuntime
		}
	}
	log.Info(ctx, "normalized", logger.String("input", o.input), logger.Float64("mean", mean))
	return appcore.ExitOK
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
