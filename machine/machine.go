package machine

import "fmt"

// Machine is the full board: a width x height grid of chips.
type Machine struct {
	width, height int
	chips         [][]*Chip
}

// NewMachine wraps a chip grid. chips is indexed [x][y] and must be
// rectangular.
func NewMachine(chips [][]*Chip) *Machine {
	if len(chips) == 0 || len(chips[0]) == 0 {
		panic("machine needs at least one chip")
	}

	height := len(chips[0])
	for x, col := range chips {
		if len(col) != height {
			panic(fmt.Sprintf("column %d has %d chips, want %d",
				x, len(col), height))
		}
	}

	return &Machine{
		width:  len(chips),
		height: height,
		chips:  chips,
	}
}

// Width returns the number of chip columns.
func (m *Machine) Width() int { return m.width }

// Height returns the number of chip rows.
func (m *Machine) Height() int { return m.height }

// Chip returns the chip at (x, y).
func (m *Machine) Chip(x, y int) *Chip {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		panic(fmt.Sprintf("no chip at (%d, %d) on a %dx%d machine",
			x, y, m.width, m.height))
	}
	return m.chips[x][y]
}
