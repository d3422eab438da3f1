// Package mat provides the small dense matrix type shared by the region
// and decoder packages. Data is stored flat in row-major order, which is
// also the order in which matrices are written to board memory.
package mat

import "fmt"

// Matrix is a dense row-major float64 matrix.
type Matrix struct {
	rows, cols int
	data       []float64
}

// New creates a zeroed rows x cols matrix.
func New(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("invalid matrix shape %dx%d", rows, cols))
	}
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// FromRows creates a matrix from a slice of equal-length rows.
func FromRows(rows [][]float64) *Matrix {
	if len(rows) == 0 {
		return New(0, 0)
	}

	m := New(len(rows), len(rows[0]))
	for i, r := range rows {
		if len(r) != m.cols {
			panic(fmt.Sprintf("row %d has %d columns, want %d",
				i, len(r), m.cols))
		}
		copy(m.data[i*m.cols:], r)
	}

	return m
}

// Vector creates an n x 1 matrix from a slice.
func Vector(values []float64) *Matrix {
	m := New(len(values), 1)
	copy(m.data, values)
	return m
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Size returns the number of elements.
func (m *Matrix) Size() int { return m.rows * m.cols }

// At returns the element at (r, c).
func (m *Matrix) At(r, c int) float64 {
	m.mustBeInBounds(r, c)
	return m.data[r*m.cols+c]
}

// Set writes the element at (r, c).
func (m *Matrix) Set(r, c int, v float64) {
	m.mustBeInBounds(r, c)
	m.data[r*m.cols+c] = v
}

func (m *Matrix) mustBeInBounds(r, c int) {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		panic(fmt.Sprintf("index (%d, %d) out of bounds for %dx%d matrix",
			r, c, m.rows, m.cols))
	}
}

// Flat returns the elements in row-major order. The returned slice
// aliases the matrix storage and must not be modified.
func (m *Matrix) Flat() []float64 { return m.data }

// SliceRows returns a copy of rows [start, stop).
func (m *Matrix) SliceRows(start, stop int) *Matrix {
	out := New(stop-start, m.cols)
	copy(out.data, m.data[start*m.cols:stop*m.cols])
	return out
}

// SliceCols returns a copy of columns [start, stop).
func (m *Matrix) SliceCols(start, stop int) *Matrix {
	out := New(m.rows, stop-start)
	for r := 0; r < m.rows; r++ {
		copy(out.data[r*out.cols:(r+1)*out.cols],
			m.data[r*m.cols+start:r*m.cols+stop])
	}
	return out
}

// SelectCols returns a copy holding the listed columns in the given
// order.
func (m *Matrix) SelectCols(cols []int) *Matrix {
	out := New(m.rows, len(cols))
	for r := 0; r < m.rows; r++ {
		for i, c := range cols {
			out.Set(r, i, m.At(r, c))
		}
	}
	return out
}

// HStack concatenates matrices horizontally. All inputs must share a row
// count; zero-column inputs are permitted. Stacking no matrices, or only
// empty ones, yields an empty matrix.
func HStack(ms ...*Matrix) *Matrix {
	rows, cols := 0, 0
	for _, m := range ms {
		if m.cols == 0 {
			continue
		}
		if rows == 0 {
			rows = m.rows
		} else if m.rows != rows {
			panic(fmt.Sprintf("cannot hstack %d-row matrix onto %d rows",
				m.rows, rows))
		}
		cols += m.cols
	}

	out := New(rows, cols)
	offset := 0
	for _, m := range ms {
		if m.cols == 0 {
			continue
		}
		for r := 0; r < rows; r++ {
			copy(out.data[r*cols+offset:r*cols+offset+m.cols],
				m.data[r*m.cols:(r+1)*m.cols])
		}
		offset += m.cols
	}

	return out
}

// Scale multiplies every element by f in place and returns the matrix.
func (m *Matrix) Scale(f float64) *Matrix {
	for i := range m.data {
		m.data[i] *= f
	}
	return m
}
