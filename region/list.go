package region

// ListRegion holds a fixed, heterogeneous list of words. One designated
// index may be replaced with the slice's atom count at materialization
// time, which lets a vertex emit "number of atoms in this subregion"
// without the caller recomputing the value.
type ListRegion struct {
	words         []uint32
	nAtomsIndex   int
	prependLength bool
	inScratch     bool
}

// ListRegionBuilder builds ListRegions.
type ListRegionBuilder struct {
	words         []uint32
	nAtomsIndex   int
	prependLength bool
	inScratch     bool
}

// MakeListRegionBuilder returns a builder with defaults: no atom-count
// substitution, no length prepend, region held in scratch memory.
func MakeListRegionBuilder() ListRegionBuilder {
	return ListRegionBuilder{nAtomsIndex: -1, inScratch: true}
}

// WithWords sets the word list.
func (b ListRegionBuilder) WithWords(words []uint32) ListRegionBuilder {
	b.words = words
	return b
}

// WithNAtomsIndex designates the index to overwrite with the slice's
// atom count when the region is materialized.
func (b ListRegionBuilder) WithNAtomsIndex(i int) ListRegionBuilder {
	b.nAtomsIndex = i
	return b
}

// WithLengthPrepend prepends the list length as the first word.
func (b ListRegionBuilder) WithLengthPrepend() ListRegionBuilder {
	b.prependLength = true
	return b
}

// InBulkMemory keeps the region in SDRAM instead of scratch memory.
func (b ListRegionBuilder) InBulkMemory() ListRegionBuilder {
	b.inScratch = false
	return b
}

// Build creates the region. The word list is copied so later mutation
// of the input cannot break the region's immutability.
func (b ListRegionBuilder) Build() *ListRegion {
	words := make([]uint32, len(b.words))
	copy(words, b.words)

	return &ListRegion{
		words:         words,
		nAtomsIndex:   b.nAtomsIndex,
		prependLength: b.prependLength,
		inScratch:     b.inScratch,
	}
}

// SizeWords returns the list length plus the optional length word.
func (r *ListRegion) SizeWords(s Slice) (int, error) {
	if err := checkSlice(s, -1); err != nil {
		return 0, err
	}

	size := len(r.words)
	if r.prependLength {
		size++
	}

	return size, nil
}

// Materialize returns the word list with any substitutions applied.
func (r *ListRegion) Materialize(s Slice, subregionIndex int) ([]uint32, error) {
	size, err := r.SizeWords(s)
	if err != nil {
		return nil, err
	}

	out := make([]uint32, 0, size)
	if r.prependLength {
		out = append(out, uint32(len(r.words)))
	}
	for i, w := range r.words {
		if i == r.nAtomsIndex {
			w = uint32(s.Atoms())
		}
		out = append(out, w)
	}

	return out, nil
}

// InScratchMemory reports whether the region lives in scratch memory.
func (r *ListRegion) InScratchMemory() bool { return r.inScratch }

// Unfilled always reports false; list regions are written by the host.
func (r *ListRegion) Unfilled() bool { return false }
