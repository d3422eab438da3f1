// Package comm carries SDP traffic between the host and the board over
// UDP and assigns host-facing nodes to the transmit and receive cores
// that bridge them onto the interconnect.
package comm

import (
	"log/slog"
	"net"
	"sync"

	"github.com/pkg/errors"

	"github.com/sarchlab/neurogrid/sdp"
)

// Coord identifies one core on the board.
type Coord struct {
	X, Y, CPU int
}

// Handler consumes packets arriving from one core. Handlers run on the
// receive goroutine and must not block.
type Handler func(p *sdp.SDPPacket)

// Transceiver sends and receives SDP packets over a UDP socket. Packets
// are dispatched to per-source-core handlers by a background goroutine
// started at build time.
type Transceiver struct {
	conn   *net.UDPConn
	remote *net.UDPAddr

	mu       sync.RWMutex
	handlers map[Coord]Handler

	wg sync.WaitGroup
}

// TransceiverBuilder builds Transceivers.
type TransceiverBuilder struct {
	localAddr  string
	remoteAddr string
}

// MakeTransceiverBuilder returns a builder with defaults: any local
// port, no remote.
func MakeTransceiverBuilder() TransceiverBuilder {
	return TransceiverBuilder{localAddr: ":0"}
}

// WithLocalAddress sets the local UDP address to listen on.
func (b TransceiverBuilder) WithLocalAddress(addr string) TransceiverBuilder {
	b.localAddr = addr
	return b
}

// WithRemoteAddress sets the board's UDP address, the destination for
// Send.
func (b TransceiverBuilder) WithRemoteAddress(addr string) TransceiverBuilder {
	b.remoteAddr = addr
	return b
}

// Build opens the socket and starts the receive loop.
func (b TransceiverBuilder) Build() (*Transceiver, error) {
	local, err := net.ResolveUDPAddr("udp", b.localAddr)
	if err != nil {
		return nil, errors.Wrap(err, "resolving local address")
	}

	conn, err := net.ListenUDP("udp", local)
	if err != nil {
		return nil, errors.Wrap(err, "opening socket")
	}

	var remote *net.UDPAddr
	if b.remoteAddr != "" {
		remote, err = net.ResolveUDPAddr("udp", b.remoteAddr)
		if err != nil {
			conn.Close()
			return nil, errors.Wrap(err, "resolving remote address")
		}
	}

	t := &Transceiver{
		conn:     conn,
		remote:   remote,
		handlers: make(map[Coord]Handler),
	}

	t.wg.Add(1)
	go t.receive()

	return t, nil
}

// LocalAddr returns the bound socket address.
func (t *Transceiver) LocalAddr() net.Addr { return t.conn.LocalAddr() }

// Send encodes and transmits one packet to the board.
func (t *Transceiver) Send(p *sdp.SDPPacket) error {
	b, err := p.Bytes()
	if err != nil {
		return err
	}

	if _, err := t.conn.WriteToUDP(b, t.remote); err != nil {
		return errors.Wrap(err, "sending packet")
	}

	return nil
}

// RegisterHandler routes packets whose source is the given core to h.
// Registering nil removes the handler.
func (t *Transceiver) RegisterHandler(c Coord, h Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if h == nil {
		delete(t.handlers, c)
		return
	}
	t.handlers[c] = h
}

// Close shuts the socket and waits for the receive loop to finish.
func (t *Transceiver) Close() error {
	err := t.conn.Close()
	t.wg.Wait()
	return errors.Wrap(err, "closing socket")
}

func (t *Transceiver) receive() {
	defer t.wg.Done()

	buf := make([]byte, sdp.HeaderBytes+sdp.MaxSDPData)
	for {
		n, _, err := t.conn.ReadFromUDP(buf)
		if err != nil {
			// The socket was closed under us.
			return
		}

		p, err := sdp.ParseSDPPacket(buf[:n])
		if err != nil {
			slog.Debug("dropping malformed packet", "err", err)
			continue
		}

		t.dispatch(p)
	}
}

func (t *Transceiver) dispatch(p *sdp.SDPPacket) {
	t.mu.RLock()
	h := t.handlers[Coord{X: p.SrcX, Y: p.SrcY, CPU: p.SrcCPU}]
	t.mu.RUnlock()

	if h == nil {
		slog.Debug("no handler for packet",
			"x", p.SrcX, "y", p.SrcY, "cpu", p.SrcCPU)
		return
	}
	h(p)
}
