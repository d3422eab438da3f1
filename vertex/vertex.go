// Package vertex represents one placeable processing unit as an ordered
// list of memory regions and accounts for its CPU, DTCM and SDRAM cost
// over arbitrary atom slices. The partitioning itself is done by the
// external placement toolchain; this package only answers "does this
// slice fit" and "what bytes does this slice produce".
package vertex

import (
	"github.com/sarchlab/neurogrid/region"
)

// CPUFunc estimates CPU cycles per timestep for a slice. The formula
// depends on the neuron model running on the core, so it is injected by
// the vertex type rather than computed here.
type CPUFunc func(s region.Slice) int

// StaticDTCMFunc returns scratch-memory words used outside any region
// (stack, globals) for a slice.
type StaticDTCMFunc func(s region.Slice) int

// Resources is the cost of one slice of a vertex on one core.
type Resources struct {
	CPUCycles  int
	DTCMBytes  int
	SDRAMBytes int
}

// Vertex is one placeable unit. Regions may contain nil entries,
// meaning "nothing at this region slot"; slot numbering is part of the
// firmware contract, so emission preserves order while skipping nils.
type Vertex struct {
	NAtoms      int
	Label       string
	Regions     []region.Region
	CPU         CPUFunc
	StaticDTCM  StaticDTCMFunc
	Constraints []string
}

// checkSlice validates a slice against the vertex's atom count.
func (v *Vertex) checkSlice(s region.Slice) error {
	if s.Start < 0 || s.Start >= s.Stop || s.Stop > v.NAtoms {
		return &region.InvalidSliceError{Slice: s, Extent: v.NAtoms}
	}
	return nil
}

// ResourcesFor computes the cost of the given slice. SDRAM counts every
// region; DTCM counts scratch regions plus the static overhead hook;
// CPU comes from the injected estimator. No placement information is
// needed.
func (v *Vertex) ResourcesFor(s region.Slice) (Resources, error) {
	if err := v.checkSlice(s); err != nil {
		return Resources{}, err
	}

	sdramWords := 0
	dtcmWords := 0
	for _, r := range v.Regions {
		if r == nil {
			continue
		}

		size, err := r.SizeWords(s)
		if err != nil {
			return Resources{}, err
		}

		sdramWords += size
		if r.InScratchMemory() {
			dtcmWords += size
		}
	}

	if v.StaticDTCM != nil {
		dtcmWords += v.StaticDTCM(s)
	}

	cpu := 0
	if v.CPU != nil {
		cpu = v.CPU(s)
	}

	return Resources{
		CPUCycles:  cpu,
		DTCMBytes:  4 * dtcmWords,
		SDRAMBytes: 4 * sdramWords,
	}, nil
}

// Subregion is one region's contribution to a subregion image. Data is
// nil for unfilled regions, which reserve SizeWords of space without a
// payload.
type Subregion struct {
	SizeWords int
	Data      []byte
	Unfilled  bool
}

// Subregions emits the concrete payloads for one slice, one entry per
// non-nil region in region order. A region is only materialized when
// its size is positive and it is filled. The output depends only on
// (slice, subregionIndex), so a failed load can safely re-emit.
func (v *Vertex) Subregions(s region.Slice, subregionIndex int) ([]Subregion, error) {
	if err := v.checkSlice(s); err != nil {
		return nil, err
	}

	out := make([]Subregion, 0, len(v.Regions))
	for _, r := range v.Regions {
		if r == nil {
			continue
		}

		size, err := r.SizeWords(s)
		if err != nil {
			return nil, err
		}

		sub := Subregion{SizeWords: size, Unfilled: r.Unfilled()}
		if size > 0 && !r.Unfilled() {
			words, err := r.Materialize(s, subregionIndex)
			if err != nil {
				return nil, err
			}
			sub.Data = region.WordsToBytes(words)
		}

		out = append(out, sub)
	}

	return out, nil
}

// PlacedVertex records where the toolchain put one subregion of a
// vertex and what to load there.
type PlacedVertex struct {
	X, Y, Core  int
	Executable  string
	Subregions  []Subregion
	TimerPeriod int
}

// BinaryResolver locates the firmware executable for a vertex model.
// Locating binaries is a deployment concern, so the core only ever sees
// this capability.
type BinaryResolver interface {
	Binary(modelName string) (string, error)
}
