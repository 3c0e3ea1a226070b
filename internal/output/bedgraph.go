// internal/output/bedgraph.go
package output

import (
	"bytes"
	"strconv"

	"nucocc/pkg/api"
)

// AppendBedGraph appends one row in the engine's five-column layout:
//
//	chrom \t pos-1 \t pos \t (empty) \t score \n
//
// The empty fourth column is part of the layout downstream tools expect.
func AppendBedGraph(dst []byte, r Record) []byte {
	dst = append(dst, r.Chrom...)
	dst = append(dst, '\t')
	dst = strconv.AppendInt(dst, int64(r.Position-1), 10)
	dst = append(dst, '\t')
	dst = strconv.AppendInt(dst, int64(r.Position), 10)
	dst = append(dst, '\t', '\t')
	dst = AppendScore(dst, r.Score)
	return append(dst, '\n')
}

// AppendScore appends v with the shortest digits that round-trip, in the
// layout existing .bg files use: fixed notation with at least one decimal
// ("2.0", "123456789012.0") for decimal exponents in [-4, 16), otherwise
// exponent notation ("1e+16", "1.5e-05").
func AppendScore(dst []byte, v float64) []byte {
	var buf [32]byte
	e := strconv.AppendFloat(buf[:0], v, 'e', -1, 64)
	i := bytes.LastIndexByte(e, 'e')
	if i < 0 { // Inf, NaN
		return append(dst, e...)
	}
	if exp, _ := strconv.Atoi(string(e[i+1:])); exp < -4 || exp >= 16 {
		return append(dst, e...)
	}
	start := len(dst)
	dst = strconv.AppendFloat(dst, v, 'f', -1, 64)
	if bytes.IndexByte(dst[start:], '.') < 0 {
		dst = append(dst, '.', '0')
	}
	return dst
}

// ToAPI converts a record to its v1 wire form.
func ToAPI(r Record) api.OccupancyV1 {
	return api.OccupancyV1{Chrom: r.Chrom, Start: r.Position - 1, End: r.Position, Score: r.Score}
}
