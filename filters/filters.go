// Package filters builds the temporal-filter and filter-routing tables
// for a set of incoming connections. Connections sharing the same
// exponential synapse parameters share one filter slot, so the firmware
// only updates each distinct filter once per timestep.
package filters

import (
	"math"

	"github.com/sarchlab/neurogrid/fixpoint"
	"github.com/sarchlab/neurogrid/region"
)

// Connection carries the filter parameters and routing identity of one
// incoming connection. A zero TimeConstant means pass-through: values
// are applied directly with no smoothing.
type Connection struct {
	TimeConstant  float64
	Accumulatory  bool
	Width         int
	Key           uint32
	Mask          uint32
	DimensionMask uint32
}

// Filter is a deduplicated filter descriptor. Two connections map to
// the same filter iff these three fields are equal; identity of the
// Connection values plays no part.
type Filter struct {
	TimeConstant float64
	Accumulatory bool
	Width        int
}

// Tables holds the two regions produced for one set of connections.
type Tables struct {
	// Filters is the filter parameter table: count, then per filter
	// the decay coefficient, the input coefficient, the accumulator
	// mask and the width.
	Filters *region.ListRegion
	// Routing maps each incoming key to its filter slot: count, then
	// per connection key, mask, slot and dimension mask.
	Routing *region.ListRegion
	// Slots holds the assigned filter slot per connection, in input
	// order. Callers that cross-reference connections (learning-rule
	// error routing) index this by connection position.
	Slots []int
}

// Build deduplicates the connections' filters in first-seen order and
// produces the filter and routing tables as list regions.
func Build(conns []Connection, dt float64) Tables {
	unique := make([]Filter, 0, len(conns))
	slotOf := make(map[Filter]int)
	slots := make([]int, len(conns))

	for i, c := range conns {
		f := Filter{
			TimeConstant: c.TimeConstant,
			Accumulatory: c.Accumulatory,
			Width:        c.Width,
		}
		slot, seen := slotOf[f]
		if !seen {
			slot = len(unique)
			slotOf[f] = slot
			unique = append(unique, f)
		}
		slots[i] = slot
	}

	filterWords := make([]uint32, 0, 1+4*len(unique))
	filterWords = append(filterWords, uint32(len(unique)))
	for _, f := range unique {
		decay, input := coefficients(f.TimeConstant, dt)
		accum := uint32(0xFFFFFFFF)
		if f.Accumulatory {
			accum = 0
		}
		filterWords = append(filterWords,
			decay, input, accum, uint32(f.Width))
	}

	routingWords := make([]uint32, 0, 1+4*len(conns))
	routingWords = append(routingWords, uint32(len(conns)))
	for i, c := range conns {
		routingWords = append(routingWords,
			c.Key, c.Mask, uint32(slots[i]), c.DimensionMask)
	}

	return Tables{
		Filters: region.MakeListRegionBuilder().
			WithWords(filterWords).Build(),
		Routing: region.MakeListRegionBuilder().
			WithWords(routingWords).Build(),
		Slots: slots,
	}
}

// coefficients returns the fixed-point decay and input factors for one
// filter. A pass-through filter decays nothing and applies the full
// input each step.
func coefficients(timeConstant, dt float64) (decay, input uint32) {
	if timeConstant == 0 {
		return 0, fixpoint.Bits(1)
	}

	d := math.Exp(-dt / timeConstant)

	return fixpoint.Bits(d), fixpoint.Bits(1 - d)
}
