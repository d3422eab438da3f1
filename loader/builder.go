package loader

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/directconnection"

	"github.com/sarchlab/neurogrid/machine"
	"github.com/sarchlab/neurogrid/vertex"
)

// Builder builds loaders wired to every chip of a machine.
type Builder struct {
	engine   sim.Engine
	freq     sim.Freq
	machine  *machine.Machine
	resolver vertex.BinaryResolver
}

// MakeBuilder returns a loader builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the loader.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithMachine sets the machine to load.
func (b Builder) WithMachine(m *machine.Machine) Builder {
	b.machine = m
	return b
}

// WithBinaryResolver sets the resolver used to locate firmware
// executables. Optional; without it executables are not resolved.
func (b Builder) WithBinaryResolver(r vertex.BinaryResolver) Builder {
	b.resolver = r
	return b
}

// Build creates the loader and connects one port per chip.
func (b Builder) Build(name string) *Loader {
	l := &Loader{
		machine:        b.machine,
		resolver:       b.resolver,
		links:          make(map[[2]int]*chipLink),
		inflightWrites: make(map[string]*loadTask),
		inflightReads:  make(map[string]readChunk),
	}

	l.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, l)

	for x := 0; x < b.machine.Width(); x++ {
		for y := 0; y < b.machine.Height(); y++ {
			b.connectChip(l, name, x, y)
		}
	}

	return l
}

func (b Builder) connectChip(l *Loader, name string, x, y int) {
	chip := b.machine.Chip(x, y)

	local := machine.NewPort(l, 4, 4,
		fmt.Sprintf("%s.Chip[%d][%d]", name, x, y))
	l.AddPort(fmt.Sprintf("Chip[%d][%d]", x, y), local)

	conn := directconnection.MakeBuilder().
		WithEngine(b.engine).
		WithFreq(b.freq).
		Build(fmt.Sprintf("%s.ConnToChip[%d][%d]", name, x, y))
	conn.PlugIn(local)
	conn.PlugIn(chip.Port())

	l.links[[2]int{x, y}] = &chipLink{
		local:  local,
		remote: chip.Port().AsRemote(),
	}
}
