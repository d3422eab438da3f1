package region

// BitfieldRecordingRegion reserves space for one bit per atom per tick,
// packed into words. The firmware writes it during the run; the host
// only reserves the space and reads it back afterwards.
type BitfieldRecordingRegion struct {
	nTicks int
}

// NewBitfieldRecordingRegion creates a recording region spanning nTicks
// simulation ticks.
func NewBitfieldRecordingRegion(nTicks int) *BitfieldRecordingRegion {
	return &BitfieldRecordingRegion{nTicks: nTicks}
}

// SizeWords returns ceil(atoms/32) words per tick.
func (r *BitfieldRecordingRegion) SizeWords(s Slice) (int, error) {
	if err := checkSlice(s, -1); err != nil {
		return 0, err
	}

	frameWords := (s.Atoms() + 31) / 32

	return frameWords * r.nTicks, nil
}

// Materialize returns zeroed words. The region is unfilled, so these
// are never written out; returning them keeps the size/materialize
// invariant uniform across region types.
func (r *BitfieldRecordingRegion) Materialize(s Slice, subregionIndex int) ([]uint32, error) {
	size, err := r.SizeWords(s)
	if err != nil {
		return nil, err
	}
	return make([]uint32, size), nil
}

// InScratchMemory always reports false; recorded data stays in SDRAM.
func (r *BitfieldRecordingRegion) InScratchMemory() bool { return false }

// Unfilled always reports true.
func (r *BitfieldRecordingRegion) Unfilled() bool { return true }

// FrameRecordingRegion reserves a fixed number of words per tick,
// independent of the slice.
type FrameRecordingRegion struct {
	width  int
	nTicks int
}

// NewFrameRecordingRegion creates a recording region of width words per
// tick for nTicks ticks.
func NewFrameRecordingRegion(width, nTicks int) *FrameRecordingRegion {
	return &FrameRecordingRegion{width: width, nTicks: nTicks}
}

// SizeWords returns width x nTicks for any valid slice.
func (r *FrameRecordingRegion) SizeWords(s Slice) (int, error) {
	if err := checkSlice(s, -1); err != nil {
		return 0, err
	}
	return r.width * r.nTicks, nil
}

// Materialize returns zeroed words; see BitfieldRecordingRegion.
func (r *FrameRecordingRegion) Materialize(s Slice, subregionIndex int) ([]uint32, error) {
	size, err := r.SizeWords(s)
	if err != nil {
		return nil, err
	}
	return make([]uint32, size), nil
}

// InScratchMemory always reports false.
func (r *FrameRecordingRegion) InScratchMemory() bool { return false }

// Unfilled always reports true.
func (r *FrameRecordingRegion) Unfilled() bool { return true }
