// Package normalize rescales occupancy output so that its mean score is 1.
//
// It reads the engine's rows, takes column 4 of each whitespace-split row
// (the empty layout column collapses), divides by the mean over all rows and
// writes tab-joined rows. Rows without a numeric fourth field are skipped.
package normalize

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"nucocc/internal/output"
)

// ScoreColumn is the 0-based field holding the score after whitespace splitting.
const ScoreColumn = 3

// ErrNoValues means no row carried a usable score.
var ErrNoValues = errors.New("no valid numeric values")

// ErrZeroMean means the scores average to zero and cannot be divided by.
var ErrZeroMean = errors.New("mean score is zero")

// Row is one parsed input row.
type Row struct {
	Fields []string
	Score  float64
}

// Read parses rows from r, skipping those that do not carry a numeric score.
func Read(r io.Reader) ([]Row, error) {
	var rows []Row
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) <= ScoreColumn {
			continue
		}
		v, err := strconv.ParseFloat(fields[ScoreColumn], 64)
		if err != nil {
			continue
		}
		rows = append(rows, Row{Fields: fields, Score: v})
	}
	return rows, sc.Err()
}

// Mean returns the average score.
func Mean(rows []Row) (float64, error) {
	if len(rows) == 0 {
		return 0, ErrNoValues
	}
	xs := make([]float64, len(rows))
	for i, r := range rows {
		xs[i] = r.Score
	}
	m := stat.Mean(xs, nil)
	if m == 0 {
		return 0, ErrZeroMean
	}
	return m, nil
}

// Write emits every row with its score divided by mean.
func Write(w io.Writer, rows []Row, mean float64) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		fields := append([]string(nil), r.Fields...)
		fields[ScoreColumn] = string(output.AppendScore(nil, r.Score/mean))
		if _, err := bw.WriteString(strings.Join(fields, "\t")); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Normalize is Read, Mean and Write in one pass over an in-memory copy.
// It returns the mean used.
func Normalize(r io.Reader, w io.Writer) (float64, error) {
	rows, err := Read(r)
	if err != nil {
		return 0, err
	}
	mean, err := Mean(rows)
	if err != nil {
		return 0, err
	}
	if err := Write(w, rows, mean); err != nil {
		return 0, fmt.Errorf("write: %w", err)
	}
	return mean, nil
}
