// Package loader streams vertex images into board memory and reads
// recorded data back out. It is a ticking component on the same engine
// as the chips, so loads contend for memory bandwidth the way they do
// on hardware.
package loader

import (
	"fmt"

	"github.com/sarchlab/akita/v4/mem/mem"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/neurogrid/machine"
	"github.com/sarchlab/neurogrid/vertex"
)

// wordBytes is the transfer granularity of the load path.
const wordBytes = 4

type chipLink struct {
	local  sim.Port
	remote sim.RemotePort
}

// Loader drives the load and readback traffic for one machine.
type Loader struct {
	*sim.TickingComponent

	machine  *machine.Machine
	resolver vertex.BinaryResolver

	links map[[2]int]*chipLink

	loadTasks []*loadTask
	readTasks []*ReadTask

	inflightWrites map[string]*loadTask
	inflightReads  map[string]readChunk
}

type write struct {
	addr uint64
	data []byte
}

type loadTask struct {
	chip   [2]int
	label  string
	writes []write
	next   int
	acks   int
}

func (t *loadTask) isFinished() bool {
	return t.acks >= len(t.writes)
}

// ReadTask is an in-flight readback of a memory range. Data is complete
// once Done reports true, after the engine has run.
type ReadTask struct {
	chip [2]int
	addr uint64
	data []byte

	requested int
	received  int
}

// Done reports whether every byte has arrived.
func (t *ReadTask) Done() bool { return t.received >= len(t.data) }

// Data returns the bytes read. Valid only once Done reports true.
func (t *ReadTask) Data() []byte { return t.data }

type readChunk struct {
	task   *ReadTask
	offset int
}

// LoadVertex queues the subregion images of a placed vertex for
// transfer to its chip, starting at base. Unfilled subregions reserve
// their space but transfer nothing. Returns the total image size in
// bytes.
func (l *Loader) LoadVertex(pv *vertex.PlacedVertex, base uint64) (int, error) {
	if l.resolver != nil {
		binary, err := l.resolver.Binary(pv.Executable)
		if err != nil {
			return 0, err
		}
		machine.Trace("Loader",
			"Behavior", "ResolveBinary",
			"Model", pv.Executable,
			"Binary", binary,
			"X", pv.X, "Y", pv.Y, "Core", pv.Core,
		)
	}

	task := &loadTask{
		chip:  [2]int{pv.X, pv.Y},
		label: fmt.Sprintf("(%d, %d, %d)", pv.X, pv.Y, pv.Core),
	}

	offset := base
	for _, sub := range pv.Subregions {
		if !sub.Unfilled && sub.Data != nil {
			for i := 0; i < len(sub.Data); i += wordBytes {
				task.writes = append(task.writes, write{
					addr: offset + uint64(i),
					data: sub.Data[i : i+wordBytes],
				})
			}
		}
		offset += uint64(wordBytes * sub.SizeWords)
	}

	l.mustHaveLink(task.chip)
	l.loadTasks = append(l.loadTasks, task)

	return int(offset - base), nil
}

// ReadBack queues a read of nBytes starting at addr on chip (x, y),
// used to fetch recording regions after a run.
func (l *Loader) ReadBack(x, y int, addr uint64, nBytes int) *ReadTask {
	task := &ReadTask{
		chip: [2]int{x, y},
		addr: addr,
		data: make([]byte, nBytes),
	}

	l.mustHaveLink(task.chip)
	l.readTasks = append(l.readTasks, task)

	return task
}

func (l *Loader) mustHaveLink(chip [2]int) {
	if _, ok := l.links[chip]; !ok {
		panic(fmt.Sprintf("no link to chip (%d, %d)", chip[0], chip[1]))
	}
}

// Run ticks the loader and runs the engine until all queued traffic has
// drained.
func (l *Loader) Run() error {
	l.TickNow()
	return l.Engine.Run()
}

// Tick advances every task by at most one message and drains responses.
func (l *Loader) Tick() (madeProgress bool) {
	madeProgress = l.doLoad() || madeProgress
	madeProgress = l.doRead() || madeProgress
	madeProgress = l.collectResponses() || madeProgress

	return madeProgress
}

func (l *Loader) doLoad() bool {
	madeProgress := false

	for _, task := range l.loadTasks {
		madeProgress = l.doOneLoadTask(task) || madeProgress
	}

	l.removeFinishedLoadTasks()

	return madeProgress
}

func (l *Loader) doOneLoadTask(task *loadTask) bool {
	if task.next >= len(task.writes) {
		return false
	}

	link := l.links[task.chip]
	if !link.local.CanSend() {
		return false
	}

	w := task.writes[task.next]
	req := mem.WriteReqBuilder{}.
		WithAddress(w.addr).
		WithData(w.data).
		WithSrc(link.local.AsRemote()).
		WithDst(link.remote).
		Build()

	if err := link.local.Send(req); err != nil {
		return false
	}

	l.inflightWrites[req.ID] = task
	task.next++

	return true
}

func (l *Loader) removeFinishedLoadTasks() {
	for i := len(l.loadTasks) - 1; i >= 0; i-- {
		task := l.loadTasks[i]
		if !task.isFinished() {
			continue
		}

		machine.Trace("Loader",
			"Behavior", "LoadDone",
			"Core", task.label,
			"Words", len(task.writes),
		)
		l.loadTasks = append(l.loadTasks[:i], l.loadTasks[i+1:]...)
	}
}

func (l *Loader) doRead() bool {
	madeProgress := false

	for _, task := range l.readTasks {
		madeProgress = l.doOneReadTask(task) || madeProgress
	}

	l.removeFinishedReadTasks()

	return madeProgress
}

func (l *Loader) doOneReadTask(task *ReadTask) bool {
	if task.requested >= len(task.data) {
		return false
	}

	link := l.links[task.chip]
	if !link.local.CanSend() {
		return false
	}

	n := len(task.data) - task.requested
	if n > wordBytes {
		n = wordBytes
	}

	req := mem.ReadReqBuilder{}.
		WithAddress(task.addr + uint64(task.requested)).
		WithSrc(link.local.AsRemote()).
		WithDst(link.remote).
		WithByteSize(uint64(n)).
		Build()

	if err := link.local.Send(req); err != nil {
		return false
	}

	l.inflightReads[req.ID] = readChunk{task: task, offset: task.requested}
	task.requested += n

	return true
}

func (l *Loader) removeFinishedReadTasks() {
	for i := len(l.readTasks) - 1; i >= 0; i-- {
		if l.readTasks[i].Done() {
			l.readTasks = append(l.readTasks[:i], l.readTasks[i+1:]...)
		}
	}
}

func (l *Loader) collectResponses() bool {
	madeProgress := false

	for _, link := range l.links {
		item := link.local.PeekIncoming()
		if item == nil {
			continue
		}

		switch rsp := item.(type) {
		case *mem.WriteDoneRsp:
			task, ok := l.inflightWrites[rsp.RespondTo]
			if !ok {
				panic("write response matches no request")
			}
			task.acks++
			delete(l.inflightWrites, rsp.RespondTo)

		case *mem.DataReadyRsp:
			chunk, ok := l.inflightReads[rsp.RespondTo]
			if !ok {
				panic("read response matches no request")
			}
			copy(chunk.task.data[chunk.offset:], rsp.Data)
			chunk.task.received += len(rsp.Data)
			delete(l.inflightReads, rsp.RespondTo)

		default:
			panic(fmt.Sprintf("loader: unexpected message %T", item))
		}

		link.local.RetrieveIncoming()
		madeProgress = true
	}

	return madeProgress
}
