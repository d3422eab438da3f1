// Package config provides a default configuration for the simulated
// board.
package config

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/neurogrid/machine"
)

// MachineBuilder can build simulated boards.
type MachineBuilder struct {
	engine        sim.Engine
	freq          sim.Freq
	width, height int
	sdramCapacity int
}

// MakeMachineBuilder returns a builder for a 1x1 board with the default
// SDRAM bank size.
func MakeMachineBuilder() MachineBuilder {
	return MachineBuilder{
		width:         1,
		height:        1,
		sdramCapacity: 1 << 20,
	}
}

// WithEngine sets the engine that drives the board simulation.
func (b MachineBuilder) WithEngine(engine sim.Engine) MachineBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the chips.
func (b MachineBuilder) WithFreq(freq sim.Freq) MachineBuilder {
	b.freq = freq
	return b
}

// WithWidth sets the number of chip columns.
func (b MachineBuilder) WithWidth(width int) MachineBuilder {
	b.width = width
	return b
}

// WithHeight sets the number of chip rows.
func (b MachineBuilder) WithHeight(height int) MachineBuilder {
	b.height = height
	return b
}

// WithSDRAMCapacity sets the per-chip SDRAM bank size in bytes.
func (b MachineBuilder) WithSDRAMCapacity(capacity int) MachineBuilder {
	b.sdramCapacity = capacity
	return b
}

// Build creates the board.
func (b MachineBuilder) Build(name string) *machine.Machine {
	chips := make([][]*machine.Chip, b.width)
	for x := 0; x < b.width; x++ {
		chips[x] = make([]*machine.Chip, b.height)
		for y := 0; y < b.height; y++ {
			chips[x][y] = machine.MakeChipBuilder().
				WithEngine(b.engine).
				WithFreq(b.freq).
				WithCoordinate(x, y).
				WithSDRAMCapacity(b.sdramCapacity).
				Build(fmt.Sprintf("%s.Chip[%d][%d]", name, x, y))
		}
	}

	return machine.NewMachine(chips)
}
