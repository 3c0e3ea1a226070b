package output

// Output format names accepted by --format.
const (
	FormatBedGraph = "bedgraph"
	FormatJSONL    = "jsonl"
)

// Record is one scored position tagged with its chromosome.
type Record struct {
	Chrom    string
	Position int
	Score    float64
}

// Extension returns the file suffix used for a format.
func Extension(format string) string {
	if format == FormatJSONL {
		return ".jsonl"
	}
	return ".bg"
}
