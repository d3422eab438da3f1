package comm

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/sarchlab/neurogrid/region"
	"github.com/sarchlab/neurogrid/vertex"
)

// MaxDimensions is the dimension capacity of one transmit or receive
// core.
const MaxDimensions = 64

// RoutingInfo returns the key and mask for traffic originating at the
// given placement. The low bits left clear by the mask carry the
// dimension index.
func RoutingInfo(x, y, core int) (key, mask uint32) {
	return uint32(x)<<24 | uint32(y)<<16 | uint32(core-1)<<11, 0xFFFFFFE0
}

// Node is a host-side endpoint exchanging values with the board.
// SizeIn is the number of dimensions it consumes, SizeOut the number it
// produces. Constant reports that the output never changes, in which
// case no receive core is needed.
type Node struct {
	Label    string
	SizeIn   int
	SizeOut  int
	Constant bool
}

// dimensionBin packs nodes into one core's dimension capacity.
type dimensionBin struct {
	capacity int
	used     int
	nodes    []*Node
}

func (b *dimensionBin) remaining() int { return b.capacity - b.used }

func (b *dimensionBin) add(n *Node, size int) {
	if size > b.remaining() {
		panic(fmt.Sprintf("node %q needs %d dimensions, bin has %d",
			n.Label, size, b.remaining()))
	}
	b.used += size
	b.nodes = append(b.nodes, n)
}

// TransmitVertex is a single-core vertex that collects values destined
// for its assigned nodes and forwards them to the host.
type TransmitVertex struct {
	Label string
	bin   dimensionBin
}

// NewTransmitVertex creates an empty transmit vertex.
func NewTransmitVertex(label string) *TransmitVertex {
	return &TransmitVertex{
		Label: label,
		bin:   dimensionBin{capacity: MaxDimensions},
	}
}

// RemainingDimensions returns the unassigned dimension capacity.
func (v *TransmitVertex) RemainingDimensions() int { return v.bin.remaining() }

// AssignNode reserves the node's input dimensions on this core. The
// caller checks capacity via RemainingDimensions first.
func (v *TransmitVertex) AssignNode(n *Node) { v.bin.add(n, n.SizeIn) }

// Nodes returns the assigned nodes in assignment order.
func (v *TransmitVertex) Nodes() []*Node { return v.bin.nodes }

// Vertex returns the placeable single-atom vertex for this core.
func (v *TransmitVertex) Vertex(machineTimestep int) *vertex.Vertex {
	return ioVertex(v.Label, machineTimestep, v.bin.used)
}

// ReceiveVertex is a single-core vertex that injects host-produced
// values for its assigned nodes onto the interconnect.
type ReceiveVertex struct {
	Label string
	bin   dimensionBin
}

// NewReceiveVertex creates an empty receive vertex.
func NewReceiveVertex(label string) *ReceiveVertex {
	return &ReceiveVertex{
		Label: label,
		bin:   dimensionBin{capacity: MaxDimensions},
	}
}

// RemainingDimensions returns the unassigned dimension capacity.
func (v *ReceiveVertex) RemainingDimensions() int { return v.bin.remaining() }

// AssignNode reserves the node's output dimensions on this core.
func (v *ReceiveVertex) AssignNode(n *Node) { v.bin.add(n, n.SizeOut) }

// Nodes returns the assigned nodes in assignment order.
func (v *ReceiveVertex) Nodes() []*Node { return v.bin.nodes }

// Vertex returns the placeable single-atom vertex for this core.
func (v *ReceiveVertex) Vertex(machineTimestep int) *vertex.Vertex {
	return ioVertex(v.Label, machineTimestep, v.bin.used)
}

// ioVertex builds the one-atom vertex shared by both I/O core types:
// a system region carrying the timestep and the dimension count.
func ioVertex(label string, machineTimestep, dimensions int) *vertex.Vertex {
	system := region.MakeListRegionBuilder().
		WithWords([]uint32{
			uint32(machineTimestep),
			uint32(dimensions),
		}).
		Build()

	return &vertex.Vertex{
		NAtoms:  1,
		Label:   label,
		Regions: []region.Region{system},
		CPU:     func(region.Slice) int { return 1 },
	}
}

// Allocator assigns nodes to transmit and receive cores first-fit, most
// recently created core first, opening a new core when nothing fits.
type Allocator struct {
	txVertices []*TransmitVertex
	rxVertices []*ReceiveVertex
	txAssign   map[*Node]*TransmitVertex
	rxAssign   map[*Node]*ReceiveVertex
}

// NewAllocator creates an empty allocator.
func NewAllocator() *Allocator {
	return &Allocator{
		txAssign: make(map[*Node]*TransmitVertex),
		rxAssign: make(map[*Node]*ReceiveVertex),
	}
}

// Allocate assigns the node to a transmit core if it has input and to a
// receive core if it has non-constant output.
func (a *Allocator) Allocate(n *Node) error {
	if n.SizeIn > MaxDimensions {
		return errors.Errorf("node %q input has %d dimensions, core limit is %d",
			n.Label, n.SizeIn, MaxDimensions)
	}
	if n.SizeOut > MaxDimensions {
		return errors.Errorf("node %q output has %d dimensions, core limit is %d",
			n.Label, n.SizeOut, MaxDimensions)
	}

	if n.SizeIn > 0 {
		a.allocateTx(n)
	}
	if n.SizeOut > 0 && !n.Constant {
		a.allocateRx(n)
	}

	return nil
}

func (a *Allocator) allocateTx(n *Node) {
	for _, tx := range a.txVertices {
		if tx.RemainingDimensions() >= n.SizeIn {
			tx.AssignNode(n)
			a.txAssign[n] = tx
			return
		}
	}

	tx := NewTransmitVertex(fmt.Sprintf("Tx%d", len(a.txVertices)))
	tx.AssignNode(n)
	a.txAssign[n] = tx
	a.txVertices = append([]*TransmitVertex{tx}, a.txVertices...)
}

func (a *Allocator) allocateRx(n *Node) {
	for _, rx := range a.rxVertices {
		if rx.RemainingDimensions() >= n.SizeOut {
			rx.AssignNode(n)
			a.rxAssign[n] = rx
			return
		}
	}

	rx := NewReceiveVertex(fmt.Sprintf("Rx%d", len(a.rxVertices)))
	rx.AssignNode(n)
	a.rxAssign[n] = rx
	a.rxVertices = append([]*ReceiveVertex{rx}, a.rxVertices...)
}

// TransmitVertices returns every transmit core created so far.
func (a *Allocator) TransmitVertices() []*TransmitVertex { return a.txVertices }

// ReceiveVertices returns every receive core created so far.
func (a *Allocator) ReceiveVertices() []*ReceiveVertex { return a.rxVertices }

// NodeInVertex returns the transmit core consuming the node's input.
func (a *Allocator) NodeInVertex(n *Node) (*TransmitVertex, error) {
	tx, ok := a.txAssign[n]
	if !ok {
		return nil, errors.Errorf("node %q has no transmit assignment", n.Label)
	}
	return tx, nil
}

// NodeOutVertex returns the receive core producing the node's output.
func (a *Allocator) NodeOutVertex(n *Node) (*ReceiveVertex, error) {
	rx, ok := a.rxAssign[n]
	if !ok {
		return nil, errors.Errorf("node %q has no receive assignment", n.Label)
	}
	return rx, nil
}
