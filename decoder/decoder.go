// Package decoder compresses and combines decoder matrices. A decoder
// maps neuron activity (rows) to output dimensions (columns); columns
// that never carry a value above threshold are dropped before the
// matrices are concatenated into the single block loaded onto a core.
// The header list lets the firmware route each surviving column back to
// its connection and dimension.
package decoder

import (
	"fmt"
	"math"

	"github.com/sarchlab/neurogrid/mat"
)

// ShapeMismatchError reports a decoder whose row count disagrees with
// the rest of the combined set.
type ShapeMismatchError struct {
	Index int
	Rows  int
	Want  int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf(
		"decoder: matrix %d has %d rows, combined set has %d",
		e.Index, e.Rows, e.Want)
}

// Header identifies the origin of one column in a combined decoder.
type Header struct {
	// Key is the routing key of the source connection.
	Key uint32
	// Dim is the column index in the source decoder.
	Dim int
}

// Entry is one decoder in a combined set. Compress=false keeps every
// column; it is set for connections with active learning rules, where a
// currently-zero column may become active later.
type Entry struct {
	Matrix   *mat.Matrix
	Key      uint32
	Compress bool
}

// Compress returns the indices of the columns to keep and a copy of the
// matrix reduced to those columns. Column j is kept iff any |element|
// exceeds threshold. A negative threshold is the documented sentinel
// for "keep everything".
func Compress(m *mat.Matrix, threshold float64) ([]int, *mat.Matrix) {
	kept := make([]int, 0, m.Cols())
	for c := 0; c < m.Cols(); c++ {
		if threshold < 0 || columnPeak(m, c) > threshold {
			kept = append(kept, c)
		}
	}
	return kept, m.SelectCols(kept)
}

func columnPeak(m *mat.Matrix, c int) float64 {
	peak := 0.0
	for r := 0; r < m.Rows(); r++ {
		if v := math.Abs(m.At(r, c)); v > peak {
			peak = v
		}
	}
	return peak
}

// Combine compresses each entry and horizontally concatenates the
// survivors in input order. The header list carries one (key, dim) pair
// per surviving column, ordered by entry and then by column. All
// matrices must share a row count; an empty set yields an empty header
// list and an empty matrix.
func Combine(entries []Entry, threshold float64) ([]Header, *mat.Matrix, error) {
	if len(entries) == 0 {
		return []Header{}, mat.New(0, 0), nil
	}

	rows := entries[0].Matrix.Rows()
	for i, e := range entries {
		if e.Matrix.Rows() != rows {
			return nil, nil, &ShapeMismatchError{
				Index: i, Rows: e.Matrix.Rows(), Want: rows,
			}
		}
	}

	headers := make([]Header, 0)
	parts := make([]*mat.Matrix, 0, len(entries))
	for _, e := range entries {
		t := threshold
		if !e.Compress {
			t = -1
		}

		kept, compressed := Compress(e.Matrix, t)
		parts = append(parts, compressed)
		for _, dim := range kept {
			headers = append(headers, Header{Key: e.Key, Dim: dim})
		}
	}

	return headers, mat.HStack(parts...), nil
}
