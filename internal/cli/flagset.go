package cli

import (
	"flag"
	"fmt"

	"nucocc/internal/version"
)

// NewFlagSet returns a ContinueOnError FlagSet whose usage names the tool.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: nucleosome occupancy from dyad calls

Version: %s

Usage:
  %s [options] dyads.txt [more.txt.gz ...]

Options:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}
