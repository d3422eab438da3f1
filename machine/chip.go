// Package machine simulates the board as a grid of chips, each with a
// private SDRAM bank behind a memory port. Chips answer the standard
// read and write requests, which is all the load path needs.
package machine

import (
	"fmt"

	"github.com/sarchlab/akita/v4/mem/mem"
	"github.com/sarchlab/akita/v4/sim"
)

// Chip is one node of the board. It owns an SDRAM bank and services one
// memory request per cycle.
type Chip struct {
	*sim.TickingComponent

	X, Y int

	sdram []byte
	port  sim.Port
}

// Port returns the chip's memory port.
func (c *Chip) Port() sim.Port { return c.port }

// SDRAMCapacity returns the size of the SDRAM bank in bytes.
func (c *Chip) SDRAMCapacity() int { return len(c.sdram) }

// ReadSDRAM copies n bytes starting at addr, for inspection outside the
// simulation.
func (c *Chip) ReadSDRAM(addr uint64, n int) []byte {
	c.checkRange(addr, n)

	out := make([]byte, n)
	copy(out, c.sdram[addr:])
	return out
}

// WriteSDRAM stores bytes directly, bypassing the port. Used to preset
// memory contents in tests and for recorded-data fixtures.
func (c *Chip) WriteSDRAM(addr uint64, data []byte) {
	c.checkRange(addr, len(data))
	copy(c.sdram[addr:], data)
}

func (c *Chip) checkRange(addr uint64, n int) {
	if addr+uint64(n) > uint64(len(c.sdram)) {
		panic(fmt.Sprintf("chip (%d, %d): access [%d, %d) beyond %d-byte SDRAM",
			c.X, c.Y, addr, addr+uint64(n), len(c.sdram)))
	}
}

// Tick services at most one memory request.
func (c *Chip) Tick() (madeProgress bool) {
	item := c.port.PeekIncoming()
	if item == nil {
		return false
	}

	if !c.port.CanSend() {
		return false
	}

	switch req := item.(type) {
	case *mem.WriteReq:
		return c.handleWrite(req)
	case *mem.ReadReq:
		return c.handleRead(req)
	default:
		panic(fmt.Sprintf("chip (%d, %d): unexpected message %T", c.X, c.Y, item))
	}
}

func (c *Chip) handleWrite(req *mem.WriteReq) bool {
	c.checkRange(req.Address, len(req.Data))
	copy(c.sdram[req.Address:], req.Data)

	rsp := mem.WriteDoneRspBuilder{}.
		WithSrc(c.port.AsRemote()).
		WithDst(req.Src).
		WithRspTo(req.ID).
		Build()

	if err := c.port.Send(rsp); err != nil {
		return false
	}

	c.port.RetrieveIncoming()

	Trace("SDRAM",
		"Behavior", "Write",
		"X", c.X, "Y", c.Y,
		"Addr", req.Address,
		"Bytes", len(req.Data),
	)

	return true
}

func (c *Chip) handleRead(req *mem.ReadReq) bool {
	n := int(req.AccessByteSize)
	c.checkRange(req.Address, n)

	data := make([]byte, n)
	copy(data, c.sdram[req.Address:])

	rsp := mem.DataReadyRspBuilder{}.
		WithSrc(c.port.AsRemote()).
		WithDst(req.Src).
		WithRspTo(req.ID).
		WithData(data).
		Build()

	if err := c.port.Send(rsp); err != nil {
		return false
	}

	c.port.RetrieveIncoming()

	Trace("SDRAM",
		"Behavior", "Read",
		"X", c.X, "Y", c.Y,
		"Addr", req.Address,
		"Bytes", n,
	)

	return true
}
