package writers

import (
	"bufio"
	"io"

	"nucocc/internal/output"
)

func init() { Register(output.FormatBedGraph, StreamBedGraph) }

// StreamBedGraph writes one five-column row per record.
func StreamBedGraph(w io.Writer, in <-chan output.Record) error {
	bw := bufio.NewWriterSize(w, 64<<10)
	var line []byte
	for r := range in {
		line = output.AppendBedGraph(line[:0], r)
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}
