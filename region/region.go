// Package region defines the memory regions that make up a vertex
// image. A region knows how big it is for a given atom slice and how to
// produce the words that are written into board memory, but nothing
// about where it will be placed. Sizing is deliberately separated from
// materialization so the placement step can query many candidate slices
// without paying for any byte generation.
//
// All regions are immutable after construction and safe for concurrent
// queries.
package region

import "fmt"

// Slice is a half-open atom index range [Start, Stop) assigned to one
// subregion.
type Slice struct {
	Start, Stop int
}

// Atoms returns the number of atoms covered by the slice.
func (s Slice) Atoms() int { return s.Stop - s.Start }

// InvalidSliceError reports a slice that violates 0 <= Start < Stop <=
// Extent. Extent is -1 when the region places no upper bound of its
// own.
type InvalidSliceError struct {
	Slice  Slice
	Extent int
}

func (e *InvalidSliceError) Error() string {
	if e.Extent < 0 {
		return fmt.Sprintf("region: invalid slice [%d, %d)",
			e.Slice.Start, e.Slice.Stop)
	}
	return fmt.Sprintf("region: invalid slice [%d, %d) over %d atoms",
		e.Slice.Start, e.Slice.Stop, e.Extent)
}

// checkSlice validates a slice against an extent. extent < 0 means the
// region has no intrinsic atom count and only the ordering is checked.
func checkSlice(s Slice, extent int) error {
	if s.Start < 0 || s.Start >= s.Stop {
		return &InvalidSliceError{Slice: s, Extent: extent}
	}
	if extent >= 0 && s.Stop > extent {
		return &InvalidSliceError{Slice: s, Extent: extent}
	}
	return nil
}

// A Region is one contiguous block of the memory image for a vertex.
type Region interface {
	// SizeWords returns the size of the region in 4-byte words for the
	// given slice. It is a pure function of the slice bounds.
	SizeWords(s Slice) (int, error)

	// Materialize returns the words to write for the given slice and
	// subregion index. len(result) always equals SizeWords(s).
	Materialize(s Slice, subregionIndex int) ([]uint32, error)

	// InScratchMemory reports whether the region is copied into the
	// core's fast scratch memory (DTCM) rather than staying in bulk
	// memory (SDRAM).
	InScratchMemory() bool

	// Unfilled reports whether the region only reserves space and is
	// never written by the host (recording buffers).
	Unfilled() bool
}

// WordsToBytes flattens words into their little-endian byte form, the
// layout the firmware expects.
func WordsToBytes(words []uint32) []byte {
	out := make([]byte, 0, 4*len(words))
	for _, w := range words {
		out = append(out,
			byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	return out
}
