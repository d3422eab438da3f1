// Builds a small LIF population, splits it across two cores on a
// simulated 2x2 board, loads the subregion images and prints the
// resource usage.
package main

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/neurogrid/config"
	"github.com/sarchlab/neurogrid/decoder"
	"github.com/sarchlab/neurogrid/ensemble"
	"github.com/sarchlab/neurogrid/filters"
	"github.com/sarchlab/neurogrid/mat"
	"github.com/sarchlab/neurogrid/region"
	"github.com/sarchlab/neurogrid/vertex"
)

const (
	nNeurons   = 64
	dimensions = 2
)

func buildEnsemble() *vertex.Vertex {
	rng := rand.New(rand.NewSource(1))

	gains := mat.New(nNeurons, 1)
	bias := mat.New(nNeurons, 1)
	encoders := mat.New(nNeurons, dimensions)
	decoders := mat.New(nNeurons, dimensions)
	for r := 0; r < nNeurons; r++ {
		gains.Set(r, 0, 1+rng.Float64())
		bias.Set(r, 0, rng.Float64()-0.5)
		for c := 0; c < dimensions; c++ {
			encoders.Set(r, c, rng.NormFloat64())
			decoders.Set(r, c, rng.NormFloat64()*0.001)
		}
	}

	v, err := ensemble.Build(ensemble.Params{
		NNeurons:        nNeurons,
		Label:           "lif",
		MachineTimestep: 1000,
		Dt:              0.001,
		NTicks:          1000,
		TauRC:           0.02,
		TauRef:          0.002,
		Gains:           gains,
		Bias:            bias,
		Encoders:        encoders,
		Decoders: []decoder.Entry{
			{Matrix: decoders, Key: 0x00010800, Compress: true},
		},
		InputConns: []filters.Connection{
			{TimeConstant: 0.005, Width: dimensions,
				Key: 0x00020800, Mask: 0xFFFFFFE0, DimensionMask: 0x1F},
		},
		RecordSpikes: true,
	})
	if err != nil {
		log.Fatal(err)
	}

	return v
}

func main() {
	v := buildEnsemble()

	slices := []region.Slice{
		{Start: 0, Stop: nNeurons / 2},
		{Start: nNeurons / 2, Stop: nNeurons},
	}

	report, err := vertex.ResourceReport([]vertex.ReportRow{
		{Vertex: v, Slice: slices[0]},
		{Vertex: v, Slice: slices[1]},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(report)

	platform := config.MakePlatformBuilder().
		WithSize(2, 2).
		WithFreq(1 * sim.GHz).
		Build("Board")

	for i, s := range slices {
		subs, err := v.Subregions(s, i)
		if err != nil {
			log.Fatal(err)
		}

		pv := &vertex.PlacedVertex{
			X: i, Y: 0, Core: 1,
			Executable: "lif_ensemble",
			Subregions: subs,
		}

		size, err := platform.Loader.LoadVertex(pv, 0)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("queued %d bytes for core (%d, 0, 1)\n", size, i)
	}

	if err := platform.Loader.Run(); err != nil {
		log.Fatal(err)
	}

	for i := range slices {
		head := platform.Machine.Chip(i, 0).ReadSDRAM(0, 8)
		fmt.Printf("chip (%d, 0) system region head: % x\n", i, head)
	}

	atexit.Exit(0)
}
