package machine

import (
	"fmt"
	"sync"

	"github.com/sarchlab/akita/v4/sim"
)

// mailboxPort is the bounded two-buffer port used by chips and the
// loader. Messages wait in the outgoing buffer until the connection
// picks them up and in the incoming buffer until the component
// retrieves them.
type mailboxPort struct {
	sim.HookableBase

	lock sync.Mutex
	name string
	comp sim.Component
	conn sim.Connection

	incomingBuf sim.Buffer
	outgoingBuf sim.Buffer
}

// NewPort creates a port owned by comp with the given buffer depths.
func NewPort(
	comp sim.Component,
	incomingBufCap, outgoingBufCap int,
	name string,
) sim.Port {
	p := new(mailboxPort)
	p.comp = comp
	p.incomingBuf = sim.NewBuffer(name+".IncomingBuf", incomingBufCap)
	p.outgoingBuf = sim.NewBuffer(name+".OutgoingBuf", outgoingBufCap)
	p.name = name

	return p
}

func (p *mailboxPort) Name() string { return p.name }

func (p *mailboxPort) AsRemote() sim.RemotePort {
	return sim.RemotePort(p.name)
}

func (p *mailboxPort) SetConnection(conn sim.Connection) {
	p.conn = conn
}

func (p *mailboxPort) Component() sim.Component { return p.comp }

// CanSend checks if the port can accept another outgoing message.
func (p *mailboxPort) CanSend() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.outgoingBuf.CanPush()
}

// Send queues a message for the connection to deliver.
func (p *mailboxPort) Send(msg sim.Msg) *sim.SendError {
	p.lock.Lock()

	p.msgMustBeValid(msg)

	if !p.outgoingBuf.CanPush() {
		p.lock.Unlock()
		return sim.NewSendError()
	}

	wasEmpty := p.outgoingBuf.Size() == 0
	p.outgoingBuf.Push(msg)
	p.lock.Unlock()

	if wasEmpty {
		p.conn.NotifySend()
	}

	return nil
}

// Deliver is called by the connection to hand a message to the owning
// component.
func (p *mailboxPort) Deliver(msg sim.Msg) *sim.SendError {
	p.lock.Lock()

	if !p.incomingBuf.CanPush() {
		p.lock.Unlock()
		return sim.NewSendError()
	}

	wasEmpty := p.incomingBuf.Size() == 0
	p.incomingBuf.Push(msg)
	p.lock.Unlock()

	if p.comp != nil && wasEmpty {
		p.comp.NotifyRecv(p)
	}

	return nil
}

// RetrieveIncoming pops the next delivered message.
func (p *mailboxPort) RetrieveIncoming() sim.Msg {
	p.lock.Lock()
	defer p.lock.Unlock()

	item := p.incomingBuf.Pop()
	if item == nil {
		return nil
	}

	if p.incomingBuf.Size() == p.incomingBuf.Capacity()-1 {
		p.conn.NotifyAvailable(p)
	}

	return item.(sim.Msg)
}

// RetrieveOutgoing is called by the connection to take the next queued
// message.
func (p *mailboxPort) RetrieveOutgoing() sim.Msg {
	p.lock.Lock()
	defer p.lock.Unlock()

	item := p.outgoingBuf.Pop()
	if item == nil {
		return nil
	}

	if p.outgoingBuf.Size() == p.outgoingBuf.Capacity()-1 {
		p.comp.NotifyPortFree(p)
	}

	return item.(sim.Msg)
}

// PeekIncoming returns the next delivered message without removing it.
func (p *mailboxPort) PeekIncoming() sim.Msg {
	p.lock.Lock()
	defer p.lock.Unlock()

	item := p.incomingBuf.Peek()
	if item == nil {
		return nil
	}

	return item.(sim.Msg)
}

// PeekOutgoing returns the next queued message without removing it.
func (p *mailboxPort) PeekOutgoing() sim.Msg {
	p.lock.Lock()
	defer p.lock.Unlock()

	item := p.outgoingBuf.Peek()
	if item == nil {
		return nil
	}

	return item.(sim.Msg)
}

// NotifyAvailable is called by the connection when it can accept
// messages again.
func (p *mailboxPort) NotifyAvailable() {
	if p.comp != nil {
		p.comp.NotifyPortFree(p)
	}
}

func (p *mailboxPort) msgMustBeValid(msg sim.Msg) {
	if p.name != string(msg.Meta().Src) {
		panic("sending port is not msg src")
	}
	if msg.Meta().Dst == "" {
		panic(fmt.Sprintf("msg from %s has no destination", p.name))
	}
	if msg.Meta().Src == msg.Meta().Dst {
		panic("sending back to src")
	}
}
