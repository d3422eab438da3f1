package config

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/neurogrid/loader"
	"github.com/sarchlab/neurogrid/machine"
	"github.com/sarchlab/neurogrid/vertex"
)

// Platform bundles the engine, the board and the loader for one
// simulation.
type Platform struct {
	Engine  sim.Engine
	Machine *machine.Machine
	Loader  *loader.Loader
}

// PlatformBuilder can build platforms.
type PlatformBuilder struct {
	width, height int
	freq          sim.Freq
	sdramCapacity int
	resolver      vertex.BinaryResolver
}

// MakePlatformBuilder returns a builder for a 1x1 board at 1 GHz.
func MakePlatformBuilder() PlatformBuilder {
	return PlatformBuilder{
		width:         1,
		height:        1,
		freq:          1 * sim.GHz,
		sdramCapacity: 1 << 20,
	}
}

// WithSize sets the board dimensions.
func (b PlatformBuilder) WithSize(width, height int) PlatformBuilder {
	b.width = width
	b.height = height
	return b
}

// WithFreq sets the frequency shared by chips and loader.
func (b PlatformBuilder) WithFreq(freq sim.Freq) PlatformBuilder {
	b.freq = freq
	return b
}

// WithSDRAMCapacity sets the per-chip SDRAM bank size in bytes.
func (b PlatformBuilder) WithSDRAMCapacity(capacity int) PlatformBuilder {
	b.sdramCapacity = capacity
	return b
}

// WithBinaryResolver sets the firmware resolver handed to the loader.
func (b PlatformBuilder) WithBinaryResolver(r vertex.BinaryResolver) PlatformBuilder {
	b.resolver = r
	return b
}

// Build creates the engine, the board and a loader wired to every chip.
func (b PlatformBuilder) Build(name string) *Platform {
	engine := sim.NewSerialEngine()

	m := MakeMachineBuilder().
		WithEngine(engine).
		WithFreq(b.freq).
		WithWidth(b.width).
		WithHeight(b.height).
		WithSDRAMCapacity(b.sdramCapacity).
		Build(name)

	l := loader.MakeBuilder().
		WithEngine(engine).
		WithFreq(b.freq).
		WithMachine(m).
		WithBinaryResolver(b.resolver).
		Build(name + ".Loader")

	return &Platform{
		Engine:  engine,
		Machine: m,
		Loader:  l,
	}
}
