package region

import (
	"github.com/sarchlab/neurogrid/mat"
)

// Axis selects the matrix axis that follows the vertex's atom
// partitioning.
type Axis int

const (
	// AxisNone means the whole matrix is written for every slice.
	AxisNone Axis = iota
	// AxisRows clips rows to the slice bounds.
	AxisRows
	// AxisColumns clips columns to the slice bounds.
	AxisColumns
)

// Prepend selects a metadata word written before the matrix data.
type Prepend int

const (
	// PrependNAtoms writes the slice's atom count.
	PrependNAtoms Prepend = iota
	// PrependNRows writes the sliced row count.
	PrependNRows
	// PrependNColumns writes the sliced column count.
	PrependNColumns
	// PrependSize writes the sliced element count.
	PrependSize
	// PrependIndex writes the subregion index.
	PrependIndex
)

// Formatter converts one matrix element into a memory word. The typical
// formatter is fixpoint.Bits; the default is a plain integer cast for
// matrices that already hold word values.
type Formatter func(float64) uint32

func defaultFormatter(v float64) uint32 {
	return uint32(int32(v))
}

// MatrixRegion writes a 2-D matrix in row-major order, optionally
// partitioned along one axis and preceded by selected metadata words.
type MatrixRegion struct {
	matrix    *mat.Matrix
	axis      Axis
	prepends  []Prepend
	formatter Formatter
	inScratch bool
	unfilled  bool
}

// MatrixRegionBuilder builds MatrixRegions.
type MatrixRegionBuilder struct {
	matrix    *mat.Matrix
	axis      Axis
	prepends  []Prepend
	formatter Formatter
	inScratch bool
	unfilled  bool
}

// MakeMatrixRegionBuilder returns a builder with defaults: no
// partitioning, no prepends, plain integer formatting, scratch memory.
func MakeMatrixRegionBuilder() MatrixRegionBuilder {
	return MatrixRegionBuilder{inScratch: true}
}

// WithMatrix sets the matrix to write.
func (b MatrixRegionBuilder) WithMatrix(m *mat.Matrix) MatrixRegionBuilder {
	b.matrix = m
	return b
}

// WithAxis sets the partition axis.
func (b MatrixRegionBuilder) WithAxis(axis Axis) MatrixRegionBuilder {
	b.axis = axis
	return b
}

// WithPrepends sets the metadata words, written in the given order.
func (b MatrixRegionBuilder) WithPrepends(ps ...Prepend) MatrixRegionBuilder {
	b.prepends = ps
	return b
}

// WithFormatter sets the per-element formatting function.
func (b MatrixRegionBuilder) WithFormatter(f Formatter) MatrixRegionBuilder {
	b.formatter = f
	return b
}

// InBulkMemory keeps the region in SDRAM instead of scratch memory.
func (b MatrixRegionBuilder) InBulkMemory() MatrixRegionBuilder {
	b.inScratch = false
	return b
}

// Build creates the region.
func (b MatrixRegionBuilder) Build() *MatrixRegion {
	if b.matrix == nil {
		panic("matrix region needs a matrix")
	}

	f := b.formatter
	if f == nil {
		f = defaultFormatter
	}

	prepends := make([]Prepend, len(b.prepends))
	copy(prepends, b.prepends)

	return &MatrixRegion{
		matrix:    b.matrix,
		axis:      b.axis,
		prepends:  prepends,
		formatter: f,
		inScratch: b.inScratch,
		unfilled:  b.unfilled,
	}
}

// extent returns the length of the partitioned axis, or -1 when the
// region is not partitioned.
func (r *MatrixRegion) extent() int {
	switch r.axis {
	case AxisRows:
		return r.matrix.Rows()
	case AxisColumns:
		return r.matrix.Cols()
	default:
		return -1
	}
}

// slicedShape returns the shape after clipping the partitioned axis.
func (r *MatrixRegion) slicedShape(s Slice) (rows, cols int) {
	rows, cols = r.matrix.Rows(), r.matrix.Cols()
	switch r.axis {
	case AxisRows:
		rows = s.Atoms()
	case AxisColumns:
		cols = s.Atoms()
	}
	return rows, cols
}

// SizeWords returns the sliced element count plus one word per prepend.
func (r *MatrixRegion) SizeWords(s Slice) (int, error) {
	if err := checkSlice(s, r.extent()); err != nil {
		return 0, err
	}

	rows, cols := r.slicedShape(s)

	return rows*cols + len(r.prepends), nil
}

// Materialize returns the prepend words followed by the sliced matrix
// flattened in row-major order.
func (r *MatrixRegion) Materialize(s Slice, subregionIndex int) ([]uint32, error) {
	if err := checkSlice(s, r.extent()); err != nil {
		return nil, err
	}

	var m *mat.Matrix
	switch r.axis {
	case AxisRows:
		m = r.matrix.SliceRows(s.Start, s.Stop)
	case AxisColumns:
		m = r.matrix.SliceCols(s.Start, s.Stop)
	default:
		m = r.matrix
	}

	out := make([]uint32, 0, len(r.prepends)+m.Size())
	for _, p := range r.prepends {
		switch p {
		case PrependNAtoms:
			out = append(out, uint32(s.Atoms()))
		case PrependNRows:
			out = append(out, uint32(m.Rows()))
		case PrependNColumns:
			out = append(out, uint32(m.Cols()))
		case PrependSize:
			out = append(out, uint32(m.Size()))
		case PrependIndex:
			out = append(out, uint32(subregionIndex))
		}
	}
	for _, v := range m.Flat() {
		out = append(out, r.formatter(v))
	}

	return out, nil
}

// InScratchMemory reports whether the region lives in scratch memory.
func (r *MatrixRegion) InScratchMemory() bool { return r.inScratch }

// Unfilled reports whether the region only reserves space.
func (r *MatrixRegion) Unfilled() bool { return r.unfilled }
