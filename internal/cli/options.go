// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"nucocc/internal/cliutil"
	"nucocc/internal/config"
	"nucocc/internal/output"
)

// Options holds all CLI flags and arguments of nucocc.
type Options struct {
	// Input
	Inputs []string

	// Kernel / chunking
	Radius       int
	Bandwidth    float64
	MinChunkSize int

	// Performance
	Threads int

	// Output
	Format        string
	OutDir        string
	Stdout        bool
	MetricsFile   string
	EmptyExitCode int

	// Misc
	LogLevel string
	Quiet    bool
	Version  bool
}

// ParseArgs registers all flags on fs, using cfg for defaults, and parses argv.
// Flags and input paths may be interleaved; globs in paths are expanded.
func ParseArgs(fs *flag.FlagSet, argv []string, cfg *config.Config) (Options, error) {
	if cfg == nil {
		cfg = config.New()
	}
	var opt Options
	var help bool

	// Input
	var inputs stringSlice
	fs.Var(&inputs, "input", "dyad file(s): chrom position weight per line (repeatable or '-')")
	fs.Var(&inputs, "i", "alias of --input")

	// Kernel / chunking
	fs.IntVar(&opt.Radius, "radius", cfg.Radius, fmt.Sprintf("kernel window radius W in bp [%d]", cfg.Radius))
	fs.Float64Var(&opt.Bandwidth, "bandwidth", cfg.Bandwidth, fmt.Sprintf("Gaussian bandwidth sigma in bp [%g]", cfg.Bandwidth))
	fs.IntVar(&opt.MinChunkSize, "min-chunk-size", cfg.MinChunkSize, fmt.Sprintf("minimum target positions per parallel chunk [%d]", cfg.MinChunkSize))

	// Performance
	fs.IntVar(&opt.Threads, "threads", cfg.Threads, fmt.Sprintf("worker threads (0 = all CPUs) [%d]", cfg.Threads))
	fs.IntVar(&opt.Threads, "t", cfg.Threads, "alias of --threads")

	// Output
	fs.StringVar(&opt.Format, "format", cfg.Format, "output: bedgraph | jsonl ["+cfg.Format+"]")
	fs.StringVar(&opt.Format, "f", cfg.Format, "alias of --format")
	fs.StringVar(&opt.OutDir, "out-dir", "", "directory for output files (default: next to each input)")
	fs.StringVar(&opt.OutDir, "d", "", "alias of --out-dir")
	fs.BoolVar(&opt.Stdout, "stdout", false, "write all results to stdout instead of files [false]")
	fs.StringVar(&opt.MetricsFile, "metrics-file", cfg.MetricsFile, "write Prometheus metrics (text format) here at exit")
	fs.IntVar(&opt.EmptyExitCode, "empty-exit-code", 0, "exit code when every input was empty [0]")

	// Misc
	fs.StringVar(&opt.LogLevel, "log-level", cfg.LogLevel, "log level: debug | info | warn | error ["+cfg.LogLevel+"]")
	fs.BoolVar(&opt.Quiet, "quiet", false, "only log errors [false]")
	fs.BoolVar(&opt.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&opt.Version, "v", false, "print version and exit [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	if help {
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}

	opt.Inputs = inputs
	if len(posArgs) > 0 {
		exp, err := cliutil.ExpandPositionals(posArgs)
		if err != nil {
			return opt, err
		}
		opt.Inputs = append(opt.Inputs, exp...)
	}
	if opt.Quiet {
		opt.LogLevel = "error"
	}
	return opt, Validate(opt)
}

// Validate applies CLI invariants.
func Validate(o Options) error {
	if len(o.Inputs) == 0 {
		return errors.New("at least one input file is required")
	}
	if o.Threads < 0 {
		return errors.New("--threads must be ≥ 0")
	}
	if o.Radius < 0 {
		return errors.New("--radius must be ≥ 0")
	}
	if !(o.Bandwidth > 0) {
		return errors.New("--bandwidth must be > 0")
	}
	if o.MinChunkSize < 1 {
		return errors.New("--min-chunk-size must be ≥ 1")
	}
	switch o.Format {
	case output.FormatBedGraph, output.FormatJSONL:
	default:
		return fmt.Errorf("invalid --format %q", o.Format)
	}
	if o.Stdout && o.OutDir != "" {
		return errors.New("--stdout conflicts with --out-dir")
	}
	if o.EmptyExitCode < 0 || o.EmptyExitCode > 255 {
		return errors.New("--empty-exit-code must be between 0 and 255")
	}
	stdin := 0
	for _, in := range o.Inputs {
		if in == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		return errors.New("'-' (stdin) may be given only once")
	}
	return nil
}

// stringSlice allows repeatable string flags.
type stringSlice []string

func (s *stringSlice) String() string     { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error { *s = append(*s, v); return nil }
