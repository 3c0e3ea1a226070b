// Package config defines nucocc configuration and how it is layered.
//
// Precedence (low -> high): defaults, .env file, YAML file named by
// NUCOCC_CONFIG, NUCOCC_* environment variables. Command-line flags are
// applied on top by the callers.
package config

import (
	"fmt"
	"math"
)

// Defaults of the occupancy engine.
const (
	DefaultRadius       = 73
	DefaultBandwidth    = 20.0
	DefaultMinChunkSize = 1000
)

// Config contains process configuration.
type Config struct {
	// Radius is the kernel window radius W in bp.
	Radius int `koanf:"radius"`

	// Bandwidth is the Gaussian sigma.
	Bandwidth float64 `koanf:"bandwidth"`

	// MinChunkSize is the lower bound on targets per parallel chunk.
	MinChunkSize int `koanf:"min_chunk_size"`

	// Threads caps the worker pool; 0 means all CPUs.
	Threads int `koanf:"threads"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Format selects the output writer: bedgraph | jsonl.
	Format string `koanf:"format"`

	// MetricsFile, when set, receives the run metrics in text exposition format.
	MetricsFile string `koanf:"metrics_file"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		Radius:       DefaultRadius,
		Bandwidth:    DefaultBandwidth,
		MinChunkSize: DefaultMinChunkSize,
		Threads:      0,
		LogLevel:     "info",
		Format:       "bedgraph",
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Radius < 0 {
		return fmt.Errorf("%w: radius must be >= 0, got %d", ErrInvalidConfig, c.Radius)
	}
	if !(c.Bandwidth > 0) || math.IsInf(c.Bandwidth, 0) {
		return fmt.Errorf("%w: bandwidth must be a positive number, got %v", ErrInvalidConfig, c.Bandwidth)
	}
	if c.MinChunkSize < 1 {
		return fmt.Errorf("%w: min_chunk_size must be >= 1, got %d", ErrInvalidConfig, c.MinChunkSize)
	}
	if c.Threads < 0 {
		return fmt.Errorf("%w: threads must be >= 0, got %d", ErrInvalidConfig, c.Threads)
	}
	switch c.Format {
	case "bedgraph", "jsonl":
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}
	return nil
}
