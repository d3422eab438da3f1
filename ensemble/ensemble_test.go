package ensemble

import (
	"testing"

	"github.com/sarchlab/neurogrid/decoder"
	"github.com/sarchlab/neurogrid/filters"
	"github.com/sarchlab/neurogrid/fixpoint"
	"github.com/sarchlab/neurogrid/mat"
	"github.com/sarchlab/neurogrid/region"
)

func testParams() Params {
	return Params{
		NNeurons:        3,
		Label:           "ens0",
		MachineTimestep: 1000,
		Dt:              0.001,
		NTicks:          100,
		TauRC:           0.02,
		TauRef:          0.002,
		Gains:           mat.Vector([]float64{2, 3, 4}),
		Bias:            mat.Vector([]float64{1, 1, 1}),
		Encoders: mat.FromRows([][]float64{
			{1, 0},
			{0, 1},
			{-1, 0},
		}),
		DirectInput: []float64{0.5, 0},
		Decoders: []decoder.Entry{
			{
				Matrix: mat.FromRows([][]float64{
					{0.25, 0},
					{0.5, 0},
					{0.75, 0},
				}),
				Key:      0xBEEF0000,
				Compress: true,
			},
		},
		InputConns: []filters.Connection{
			{TimeConstant: 0.005, Width: 2, Key: 0x10, Mask: 0xF0},
		},
		ModulatoryConns: []filters.Connection{
			{TimeConstant: 0.01, Width: 1, Key: 0x20, Mask: 0xF0},
		},
		PES: []PESRule{
			{LearningRate: 1.0, ErrorConnection: 0, DecoderIndex: 0},
		},
		RecordSpikes: true,
	}
}

func materialize(t *testing.T, r region.Region, s region.Slice) []uint32 {
	t.Helper()

	w, err := r.Materialize(s, 0)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestBuildRegionList(t *testing.T) {
	v, err := Build(testParams())
	if err != nil {
		t.Fatal(err)
	}

	if v.NAtoms != 3 || v.Label != "ens0" {
		t.Errorf("vertex header %+v", v)
	}
	if len(v.Regions) != numSlots {
		t.Fatalf("got %d region slots, want %d", len(v.Regions), numSlots)
	}
	if v.Regions[slotReserved] != nil {
		t.Error("reserved slot must stay empty")
	}
	for i, r := range v.Regions {
		if i != slotReserved && r == nil {
			t.Errorf("slot %d unexpectedly empty", i)
		}
	}
}

func TestSystemRegion(t *testing.T) {
	v, err := Build(testParams())
	if err != nil {
		t.Fatal(err)
	}

	w := materialize(t, v.Regions[slotSystem], region.Slice{Start: 0, Stop: 2})

	want := []uint32{
		2,                        // input dimensions
		1,                        // output dimensions after compression
		2,                        // neurons in this subregion
		1000,                     // timestep in microseconds
		2,                        // refractory period in ticks
		fixpoint.Bits(0.05),      // dt / tau_rc
		1,                        // record spikes
		1,
	}
	if len(w) != len(want) {
		t.Fatalf("system region = %v, want %v", w, want)
	}
	for i := range want {
		if w[i] != want[i] {
			t.Errorf("system[%d] = %#x, want %#x", i, w[i], want[i])
		}
	}
}

func TestDecodersCompressedAndScaled(t *testing.T) {
	v, err := Build(testParams())
	if err != nil {
		t.Fatal(err)
	}

	s := region.Slice{Start: 0, Stop: 3}

	// The zero column is dropped, leaving one output dimension; values
	// are divided by dt before conversion.
	size, err := v.Regions[slotDecoders].SizeWords(s)
	if err != nil {
		t.Fatal(err)
	}
	if size != 3 {
		t.Fatalf("decoder region size %d, want 3", size)
	}

	w := materialize(t, v.Regions[slotDecoders], s)
	if w[0] != fixpoint.Bits(250) || w[2] != fixpoint.Bits(750) {
		t.Errorf("decoder words = %#x", w)
	}
}

func TestOutputKeysCarryDimension(t *testing.T) {
	v, err := Build(testParams())
	if err != nil {
		t.Fatal(err)
	}

	w := materialize(t, v.Regions[slotOutputKeys],
		region.Slice{Start: 0, Stop: 3})
	if len(w) != 1 || w[0] != 0xBEEF0000 {
		t.Errorf("output keys = %#x", w)
	}
}

func TestBiasFoldsDirectInput(t *testing.T) {
	v, err := Build(testParams())
	if err != nil {
		t.Fatal(err)
	}

	w := materialize(t, v.Regions[slotBias], region.Slice{Start: 0, Stop: 3})

	// bias + gain * encoder . direct: 1 + 2*1*0.5, 1 + 0, 1 - 4*0.5.
	want := []uint32{fixpoint.Bits(2), fixpoint.Bits(1), fixpoint.Bits(-1)}
	for i := range want {
		if w[i] != want[i] {
			t.Errorf("bias[%d] = %#x, want %#x", i, w[i], want[i])
		}
	}
}

func TestEncodersCarryGain(t *testing.T) {
	v, err := Build(testParams())
	if err != nil {
		t.Fatal(err)
	}

	w := materialize(t, v.Regions[slotEncoders],
		region.Slice{Start: 1, Stop: 2})

	// Row 1 only: gain 3 times encoder (0, 1).
	if len(w) != 2 || w[0] != fixpoint.Bits(0) || w[1] != fixpoint.Bits(3) {
		t.Errorf("encoder row = %#x", w)
	}
}

func TestPESRegion(t *testing.T) {
	v, err := Build(testParams())
	if err != nil {
		t.Fatal(err)
	}

	w := materialize(t, v.Regions[slotPES], region.Slice{Start: 0, Stop: 3})

	want := []uint32{1, fixpoint.Bits(0.001), 0, 0}
	if len(w) != len(want) {
		t.Fatalf("pes region = %v, want %v", w, want)
	}
	for i := range want {
		if w[i] != want[i] {
			t.Errorf("pes[%d] = %#x, want %#x", i, w[i], want[i])
		}
	}
}

func TestSpikeRecordingSizedByTicks(t *testing.T) {
	v, err := Build(testParams())
	if err != nil {
		t.Fatal(err)
	}

	size, err := v.Regions[slotSpikes].SizeWords(region.Slice{Start: 0, Stop: 3})
	if err != nil {
		t.Fatal(err)
	}
	// One bitfield word per tick for three neurons.
	if size != 100 {
		t.Errorf("spike region size %d, want 100", size)
	}
	if !v.Regions[slotSpikes].Unfilled() {
		t.Error("spike region must be unfilled")
	}
}

func TestBuildShapeMismatch(t *testing.T) {
	p := testParams()
	p.Decoders = append(p.Decoders, decoder.Entry{
		Matrix:   mat.New(2, 1), // wrong neuron count
		Compress: true,
	})

	if _, err := Build(p); err == nil {
		t.Error("mismatched decoder accepted")
	}
}
