// Package ensemble assembles the vertex for a population of LIF neurons
// from its solved parameters. The caller brings the matrices (gains,
// bias, encoders, decoders) and the connection lists; this package only
// lays them out as the firmware's region list.
package ensemble

import (
	"github.com/sarchlab/neurogrid/decoder"
	"github.com/sarchlab/neurogrid/filters"
	"github.com/sarchlab/neurogrid/fixpoint"
	"github.com/sarchlab/neurogrid/mat"
	"github.com/sarchlab/neurogrid/region"
	"github.com/sarchlab/neurogrid/vertex"
)

// Region slot numbers in the LIF firmware image. Slot 14 is reserved
// and always empty.
const (
	slotSystem = iota
	slotBias
	slotEncoders
	slotDecoders
	slotOutputKeys
	slotInputFilters
	slotInputRouting
	slotInhibFilters
	slotInhibRouting
	slotGain
	slotModulatoryFilters
	slotModulatoryRouting
	slotPES
	slotReserved
	slotSpikes
	numSlots
)

// Cycle cost model for the LIF update loop. The per-neuron term covers
// the voltage update and spike test; the base term covers filter decay
// and decoding.
const (
	cpuBaseCycles      = 500
	cpuCyclesPerNeuron = 120
)

// PESRule describes one PES learning rule attached to the population.
// ErrorConnection indexes Params.ModulatoryConns; DecoderIndex names
// the decoder block the rule adjusts.
type PESRule struct {
	LearningRate    float64
	ErrorConnection int
	DecoderIndex    int
}

// Params holds everything needed to build a LIF vertex. Matrices are
// one row per neuron; Gains and Bias are n x 1.
type Params struct {
	NNeurons int
	Label    string

	// Timing. MachineTimestep is in microseconds, Dt in seconds.
	MachineTimestep int
	Dt              float64
	NTicks          int

	// Neuron model.
	TauRC  float64
	TauRef float64

	Gains       *mat.Matrix
	Bias        *mat.Matrix
	Encoders    *mat.Matrix
	DirectInput []float64

	// Decoders for the outgoing connections, one entry per connection.
	// Entries feeding a learning rule must have Compress unset so their
	// zero columns survive for later adjustment.
	Decoders         []decoder.Entry
	DecoderThreshold float64

	InputConns      []filters.Connection
	InhibConns      []filters.Connection
	ModulatoryConns []filters.Connection

	PES []PESRule

	RecordSpikes bool
}

// Build assembles the vertex. The returned vertex carries the full
// fifteen-slot region list in firmware order.
func Build(p Params) (*vertex.Vertex, error) {
	encodersWithGain := applyGain(p.Encoders, p.Gains)
	biasWithInput := addDirectInput(p.Bias, encodersWithGain, p.DirectInput)

	headers, decoders, err := decoder.Combine(p.Decoders, p.DecoderThreshold)
	if err != nil {
		return nil, err
	}
	if decoders.Rows() == 0 {
		// No outgoing connections: keep one row per neuron so the
		// region still partitions.
		decoders = mat.New(p.NNeurons, 0)
	}
	// The firmware multiplies decoded values by the timestep when it
	// accumulates, so the host divides it out here.
	decoders.Scale(1 / p.Dt)

	inputTables := filters.Build(p.InputConns, p.Dt)
	inhibTables := filters.Build(p.InhibConns, p.Dt)
	modulatoryTables := filters.Build(p.ModulatoryConns, p.Dt)

	rs := make([]region.Region, numSlots)
	rs[slotSystem] = systemRegion(p, len(headers))
	rs[slotBias] = neuronMatrixRegion(biasWithInput)
	rs[slotEncoders] = neuronMatrixRegion(encodersWithGain)
	rs[slotDecoders] = neuronMatrixRegion(decoders)
	rs[slotOutputKeys] = outputKeysRegion(headers)
	rs[slotInputFilters] = inputTables.Filters
	rs[slotInputRouting] = inputTables.Routing
	rs[slotInhibFilters] = inhibTables.Filters
	rs[slotInhibRouting] = inhibTables.Routing
	rs[slotGain] = neuronMatrixRegion(p.Gains)
	rs[slotModulatoryFilters] = modulatoryTables.Filters
	rs[slotModulatoryRouting] = modulatoryTables.Routing
	rs[slotPES] = pesRegion(p, modulatoryTables.Slots)
	rs[slotSpikes] = region.NewBitfieldRecordingRegion(p.NTicks)

	return &vertex.Vertex{
		NAtoms:  p.NNeurons,
		Label:   p.Label,
		Regions: rs,
		CPU: func(s region.Slice) int {
			return cpuBaseCycles + cpuCyclesPerNeuron*s.Atoms()
		},
	}, nil
}

// systemRegion lays out the firmware's global parameter block. The
// neuron count at index 2 is substituted per subregion.
func systemRegion(p Params, nOutputDims int) region.Region {
	recordFlags := uint32(0)
	if p.RecordSpikes {
		recordFlags = 1
	}

	tRefTicks := uint32(p.TauRef / (float64(p.MachineTimestep) * 1e-6))

	return region.MakeListRegionBuilder().
		WithWords([]uint32{
			uint32(p.Encoders.Cols()),
			uint32(nOutputDims),
			0, // replaced with the subregion's neuron count
			uint32(p.MachineTimestep),
			tRefTicks,
			fixpoint.Bits(p.Dt / p.TauRC),
			recordFlags,
			1,
		}).
		WithNAtomsIndex(2).
		Build()
}

// neuronMatrixRegion wraps a per-neuron matrix as a row-partitioned
// fixed-point region in bulk memory.
func neuronMatrixRegion(m *mat.Matrix) region.Region {
	return region.MakeMatrixRegionBuilder().
		WithMatrix(m).
		WithAxis(region.AxisRows).
		WithFormatter(fixpoint.Bits).
		InBulkMemory().
		Build()
}

// outputKeysRegion emits one routing key per output dimension. The
// dimension index occupies the low bits left clear by the key mask.
func outputKeysRegion(headers []decoder.Header) region.Region {
	keys := make([]region.RoutingKey, len(headers))
	for i, h := range headers {
		keys[i] = region.FixedKey(h.Key | uint32(h.Dim))
	}

	return region.MakeKeysRegionBuilder().
		WithKeys(keys).
		Build()
}

// pesRegion encodes the PES learning rules. Each rule names the
// modulatory filter slot carrying its error signal.
func pesRegion(p Params, modulatorySlots []int) region.Region {
	words := make([]uint32, 0, 1+3*len(p.PES))
	words = append(words, uint32(len(p.PES)))
	for _, rule := range p.PES {
		words = append(words,
			fixpoint.Bits(rule.LearningRate*p.Dt),
			uint32(modulatorySlots[rule.ErrorConnection]),
			uint32(rule.DecoderIndex),
		)
	}

	return region.MakeListRegionBuilder().WithWords(words).Build()
}

// applyGain scales each encoder row by that neuron's gain.
func applyGain(encoders, gains *mat.Matrix) *mat.Matrix {
	out := mat.New(encoders.Rows(), encoders.Cols())
	for r := 0; r < encoders.Rows(); r++ {
		g := gains.At(r, 0)
		for c := 0; c < encoders.Cols(); c++ {
			out.Set(r, c, g*encoders.At(r, c))
		}
	}
	return out
}

// addDirectInput folds a constant input vector through the gained
// encoders into the bias, so constant-valued connections cost nothing
// at runtime.
func addDirectInput(bias, encodersWithGain *mat.Matrix, direct []float64) *mat.Matrix {
	out := mat.New(bias.Rows(), 1)
	for r := 0; r < bias.Rows(); r++ {
		v := bias.At(r, 0)
		for c, d := range direct {
			v += encodersWithGain.At(r, c) * d
		}
		out.Set(r, 0, v)
	}
	return out
}
