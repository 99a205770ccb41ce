// Package bus implements the single serially-arbitrated snooping bus that
// couples a fixed set of private L1 caches.
package bus

import (
	"container/heap"

	"github.com/arch-sim/mesicache/core"
	"github.com/arch-sim/mesicache/hooks"
)

// memoryFetchCycles is the fixed latency of a transaction serviced by main memory
// rather than by a peer cache's valid copy.
const memoryFetchCycles = 100

// upgradeCycles is the fixed latency of a BusUpgr invalidation broadcast.
const upgradeCycles = 1

// requestQueue is a container/heap priority queue of pending BusRequests, ordered by
// ascending CoreID so the bus always serves the lowest-numbered waiting core first.
type requestQueue []core.BusRequest

func (q requestQueue) Len() int            { return len(q) }
func (q requestQueue) Less(i, j int) bool  { return q[i].CoreID < q[j].CoreID }
func (q requestQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *requestQueue) Push(x interface{}) { *q = append(*q, x.(core.BusRequest)) }
func (q *requestQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// pendingCompletion records what to do with the originating cache once the
// in-flight transaction's duration elapses.
type pendingCompletion struct {
	req       core.BusRequest
	isFlush   bool
	isUpgrade bool
	newState  core.MESIState
}

// Bus arbitrates coherence transactions among a fixed set of caches. Exactly one
// transaction is in flight at a time; everything else waits in queue.
type Bus struct {
	caches []*core.L1Cache
	broker *hooks.Broker

	queue requestQueue

	busy       bool
	busyUntil  int
	completion pendingCompletion

	Counters core.BusCounters
}

// New builds a bus serving the given caches, indexed by core ID, and publishing
// coherence events through broker (which may be nil: a nil broker's Emit* calls are
// no-ops).
func New(caches []*core.L1Cache, broker *hooks.Broker) *Bus {
	return &Bus{
		caches: caches,
		broker: broker,
	}
}

// Idle reports whether the bus is free to dispatch a new transaction.
func (b *Bus) Idle() bool {
	return !b.busy
}

// QueueEmpty reports whether there is no pending work for the bus at all: no
// transaction in flight and nothing queued behind it.
func (b *Bus) QueueEmpty() bool {
	return !b.busy && len(b.queue) == 0
}

// Enqueue admits a new bus request for arbitration.
func (b *Bus) Enqueue(req core.BusRequest) {
	heap.Push(&b.queue, req)
}

// Dispatch pops the highest-priority queued request, snoops every other cache, and
// begins servicing it. It must only be called when Idle() and the queue is
// non-empty.
func (b *Bus) Dispatch(cycle int) {
	req := heap.Pop(&b.queue).(core.BusRequest)

	blockBytes := b.caches[req.CoreID].BlockBytes()

	dataFromCache := false
	transferCycles := 0
	for _, c := range b.caches {
		if c.CoreID == req.CoreID {
			continue
		}
		provides, cycles, invalidated := c.Snoop(req, cycle)
		if provides {
			dataFromCache = true
			if cycles > transferCycles {
				transferCycles = cycles
			}
		}
		if invalidated {
			b.broker.EmitInvalidate(hooks.InvalidateEvent{
				Cycle:   cycle,
				CoreID:  c.CoreID,
				Address: req.Address,
			})
		}
	}

	var duration int
	pc := pendingCompletion{req: req}

	switch req.Op {
	case core.BusRd:
		if dataFromCache {
			duration = transferCycles
		} else {
			duration = memoryFetchCycles
		}
		if dataFromCache {
			pc.newState = core.MESIShared
		} else {
			pc.newState = core.MESIExclusive
		}
	case core.BusRdX:
		duration = memoryFetchCycles
		pc.newState = core.MESIModified
	case core.BusUpgr:
		duration = upgradeCycles
		pc.newState = core.MESIModified
		pc.isUpgrade = true
	case core.Flush:
		duration = memoryFetchCycles
		pc.isFlush = true
	default:
		panic("bus: unhandled BusOp in Dispatch")
	}

	b.completion = pc
	b.busy = true
	b.busyUntil = cycle + duration

	originator := &b.Counters
	coreCounters := &b.caches[req.CoreID].Counters
	coreCounters.TransactionsIssued++
	originator.Transactions++
	if req.Op.InvalidatesSnoopers() {
		coreCounters.InvalidationsIssued++
		originator.Invalidations++
	}
	if dataBytes := dataBytesFor(req.Op, blockBytes); dataBytes > 0 {
		coreCounters.DataBytes += dataBytes
		originator.DataBytes += dataBytes
	}

	b.broker.EmitDispatch(hooks.DispatchEvent{
		Cycle:      cycle,
		CoreID:     req.CoreID,
		Op:         req.Op.String(),
		Address:    req.Address,
		IssueCycle: req.IssueCycle,
	})
}

// dataBytesFor returns the data-traffic bytes a dispatched transaction of op
// attributes to its originator, regardless of whether a cache or memory served it
// (§4.2): every op except BusUpgr moves one block's worth of bytes.
func dataBytesFor(op core.BusOp, blockBytes int) int {
	switch op {
	case core.BusRd, core.BusRdX, core.Flush:
		return blockBytes
	case core.BusUpgr:
		return 0
	default:
		panic("bus: unhandled BusOp in dataBytesFor")
	}
}

// Complete finalises the in-flight transaction if its completion cycle has arrived.
// It must only be called when the bus is busy.
func (b *Bus) Complete(cycle int) {
	if cycle != b.busyUntil {
		return
	}

	pc := b.completion
	originator := b.caches[pc.req.CoreID]

	if pc.isFlush {
		originator.CompleteFlush(cycle)
	} else {
		originator.Complete(cycle, pc.isUpgrade, pc.newState)
		b.broker.EmitComplete(hooks.CompleteEvent{
			Cycle:    cycle,
			CoreID:   pc.req.CoreID,
			Op:       pc.req.Op.String(),
			Address:  pc.req.Address,
			NewState: pc.newState.String(),
		})
	}

	b.busy = false
	b.completion = pendingCompletion{}
}
