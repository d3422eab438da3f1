package machine

import "github.com/sarchlab/akita/v4/sim"

// ChipBuilder builds chips.
type ChipBuilder struct {
	engine        sim.Engine
	freq          sim.Freq
	x, y          int
	sdramCapacity int
}

// MakeChipBuilder returns a builder with a 1 MiB SDRAM bank.
func MakeChipBuilder() ChipBuilder {
	return ChipBuilder{sdramCapacity: 1 << 20}
}

// WithEngine sets the engine.
func (b ChipBuilder) WithEngine(engine sim.Engine) ChipBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the chip.
func (b ChipBuilder) WithFreq(freq sim.Freq) ChipBuilder {
	b.freq = freq
	return b
}

// WithCoordinate sets the chip's position on the board.
func (b ChipBuilder) WithCoordinate(x, y int) ChipBuilder {
	b.x = x
	b.y = y
	return b
}

// WithSDRAMCapacity sets the SDRAM bank size in bytes.
func (b ChipBuilder) WithSDRAMCapacity(capacity int) ChipBuilder {
	b.sdramCapacity = capacity
	return b
}

// Build creates a chip.
func (b ChipBuilder) Build(name string) *Chip {
	c := &Chip{
		X:     b.x,
		Y:     b.y,
		sdram: make([]byte, b.sdramCapacity),
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)
	c.port = NewPort(c, 4, 4, name+".Mem")

	return c
}
