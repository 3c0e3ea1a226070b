// internal/writers/jsonl.go
package writers

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"nucocc/internal/output"
)

func init() { Register(output.FormatJSONL, StreamJSONL) }

// Reuse a 64 KiB buffered writer across JSONL writers to avoid per-writer mallocs.
var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// StreamJSONL writes each record as one api.OccupancyV1 JSON line.
func StreamJSONL(w io.Writer, in <-chan output.Record) error {
	bw := bwPool.Get().(*bufio.Writer)
	bw.Reset(w)
	defer func() {
		bw.Reset(io.Discard)
		bwPool.Put(bw)
	}()

	enc := json.NewEncoder(bw)
	for r := range in {
		if err := enc.Encode(output.ToAPI(r)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
