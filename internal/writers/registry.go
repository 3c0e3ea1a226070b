// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"

	"nucocc/internal/output"
)

// StreamFunc drains in and serializes every record to w.
type StreamFunc func(w io.Writer, in <-chan output.Record) error

// Writer registry (format → handler). Formats register themselves in init().
var registry = map[string]StreamFunc{}

// Register adds or replaces the handler for format.
func Register(format string, fn StreamFunc) { registry[format] = fn }

// Lookup returns the handler for format.
func Lookup(format string) (StreamFunc, error) {
	fn, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return fn, nil
}

// Start spins up a writer goroutine for format. Close the returned channel when
// done, then read exactly one value from the error channel. If the writer
// fails early it keeps draining so senders never block.
func Start(out io.Writer, format string, bufSize int) (chan<- output.Record, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan output.Record, bufSize)
	errCh := make(chan error, 1)

	go func() {
		fn, err := Lookup(format)
		if err == nil {
			err = fn(out, in)
		}
		for range in {
		}
		if IsBrokenPipe(err) {
			err = nil
		}
		errCh <- err
	}()
	return in, errCh
}
