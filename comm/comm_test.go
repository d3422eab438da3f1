package comm

import (
	"testing"
	"time"

	"github.com/sarchlab/neurogrid/region"
	"github.com/sarchlab/neurogrid/sdp"
)

func TestTransceiverRoundTrip(t *testing.T) {
	board, err := MakeTransceiverBuilder().
		WithLocalAddress("127.0.0.1:0").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	defer board.Close()

	host, err := MakeTransceiverBuilder().
		WithLocalAddress("127.0.0.1:0").
		WithRemoteAddress(board.LocalAddr().String()).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	defer host.Close()

	got := make(chan *sdp.SDPPacket, 1)
	board.RegisterHandler(Coord{X: 1, Y: 2, CPU: 3}, func(p *sdp.SDPPacket) {
		got <- p
	})

	p, err := sdp.NewSDPPacket(false, 0, 1, 1, 0, 3, 0, 0, 1, 2,
		[]byte{0xDE, 0xAD})
	if err != nil {
		t.Fatal(err)
	}
	if err := host.Send(p); err != nil {
		t.Fatal(err)
	}

	select {
	case rx := <-got:
		if rx.SrcX != 1 || rx.SrcY != 2 || rx.SrcCPU != 3 {
			t.Errorf("source = (%d, %d, %d)", rx.SrcX, rx.SrcY, rx.SrcCPU)
		}
		if len(rx.Data) != 2 || rx.Data[0] != 0xDE {
			t.Errorf("payload = % x", rx.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("packet never dispatched")
	}
}

func TestTransceiverUnregisteredSourceDropped(t *testing.T) {
	board, err := MakeTransceiverBuilder().
		WithLocalAddress("127.0.0.1:0").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	defer board.Close()

	host, err := MakeTransceiverBuilder().
		WithLocalAddress("127.0.0.1:0").
		WithRemoteAddress(board.LocalAddr().String()).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	defer host.Close()

	got := make(chan *sdp.SDPPacket, 1)
	board.RegisterHandler(Coord{X: 9, Y: 9, CPU: 9}, func(p *sdp.SDPPacket) {
		got <- p
	})

	p, err := sdp.NewSDPPacket(false, 0, 0, 0, 0, 0, 0, 0, 1, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := host.Send(p); err != nil {
		t.Fatal(err)
	}

	select {
	case <-got:
		t.Fatal("packet dispatched to unrelated handler")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRoutingInfo(t *testing.T) {
	key, mask := RoutingInfo(1, 2, 3)

	if want := uint32(1<<24 | 2<<16 | 2<<11); key != want {
		t.Errorf("key = %#x, want %#x", key, want)
	}
	if mask != 0xFFFFFFE0 {
		t.Errorf("mask = %#x", mask)
	}
}

func TestAllocatorPacksNodes(t *testing.T) {
	a := NewAllocator()

	// 40 + 40 cannot share a 64-dimension core; 20 fits alongside the
	// most recently opened one.
	n1 := &Node{Label: "n1", SizeIn: 40}
	n2 := &Node{Label: "n2", SizeIn: 40}
	n3 := &Node{Label: "n3", SizeIn: 20}
	for _, n := range []*Node{n1, n2, n3} {
		if err := a.Allocate(n); err != nil {
			t.Fatal(err)
		}
	}

	if len(a.TransmitVertices()) != 2 {
		t.Fatalf("got %d transmit cores, want 2", len(a.TransmitVertices()))
	}

	tx2, err := a.NodeInVertex(n2)
	if err != nil {
		t.Fatal(err)
	}
	tx3, err := a.NodeInVertex(n3)
	if err != nil {
		t.Fatal(err)
	}
	if tx2 != tx3 {
		t.Error("n3 should share n2's core")
	}
	if tx2.RemainingDimensions() != 4 {
		t.Errorf("remaining = %d, want 4", tx2.RemainingDimensions())
	}
}

func TestAllocatorConstantOutputSkipsReceive(t *testing.T) {
	a := NewAllocator()

	constant := &Node{Label: "const", SizeOut: 2, Constant: true}
	live := &Node{Label: "live", SizeOut: 2}
	for _, n := range []*Node{constant, live} {
		if err := a.Allocate(n); err != nil {
			t.Fatal(err)
		}
	}

	if len(a.ReceiveVertices()) != 1 {
		t.Fatalf("got %d receive cores, want 1", len(a.ReceiveVertices()))
	}
	if _, err := a.NodeOutVertex(constant); err == nil {
		t.Error("constant node should have no receive assignment")
	}
	if _, err := a.NodeOutVertex(live); err != nil {
		t.Error(err)
	}
}

func TestAllocatorRejectsOversizedNode(t *testing.T) {
	a := NewAllocator()

	if err := a.Allocate(&Node{Label: "big", SizeIn: 65}); err == nil {
		t.Error("oversized node accepted")
	}
}

func TestIOVertexResources(t *testing.T) {
	tx := NewTransmitVertex("Tx0")
	tx.AssignNode(&Node{Label: "n", SizeIn: 8})

	v := tx.Vertex(1000)
	res, err := v.ResourcesFor(region.Slice{Start: 0, Stop: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.SDRAMBytes != 8 {
		t.Errorf("SDRAM = %d, want 8", res.SDRAMBytes)
	}
}
