// Package simulation drives the per-cycle loop that ties the bus and the per-core L1
// caches together.
package simulation

import (
	"context"

	"github.com/arch-sim/mesicache/bus"
	"github.com/arch-sim/mesicache/config"
	"github.com/arch-sim/mesicache/core"
	"github.com/arch-sim/mesicache/hooks"
)

// Simulator owns the global cycle clock, the bus, the per-core caches, and each
// core's remaining trace.
type Simulator struct {
	caches []*core.L1Cache
	bus    *bus.Bus
	traces [core.NumCores][]core.MemRef
	cursor [core.NumCores]int
	done   [core.NumCores]bool

	cycle int
}

// New builds a Simulator from a validated configuration, the per-core reference
// traces, and an event broker (nil is accepted and treated as no subscribers).
func New(cfg config.Config, traces [core.NumCores][]core.MemRef, broker *hooks.Broker) *Simulator {
	caches := make([]*core.L1Cache, core.NumCores)
	for i := range caches {
		caches[i] = core.NewL1Cache(i, cfg.SetIndexBits, cfg.BlockOffsetBits, cfg.Associativity)
		if broker != nil {
			caches[i].SetEventSink(broker)
		}
	}

	return &Simulator{
		caches: caches,
		bus:    bus.New(caches, broker),
		traces: traces,
	}
}

// Run executes the simulation to completion and returns the final per-core and bus
// counters. ctx is checked once per cycle as a cancellation point; the loop never
// suspends waiting on it, since a run always completes once traces are exhausted.
func (s *Simulator) Run(ctx context.Context) ([core.NumCores]core.CoreCounters, core.BusCounters, error) {
	var results [core.NumCores]core.CoreCounters

	for !s.finished() {
		select {
		case <-ctx.Done():
			return results, s.bus.Counters, ctx.Err()
		default:
		}
		s.step()
	}

	for i, c := range s.caches {
		results[i] = c.Counters
	}
	return results, s.bus.Counters, nil
}

func (s *Simulator) finished() bool {
	if !s.bus.QueueEmpty() {
		return false
	}
	for i := range s.done {
		if !s.done[i] {
			return false
		}
	}
	return true
}

// step advances the simulation by exactly one cycle, in the fixed order required by
// the driver: bus dispatch, bus completion, then each core 0..N-1.
func (s *Simulator) step() {
	if s.bus.Idle() && !s.bus.QueueEmpty() {
		s.bus.Dispatch(s.cycle)
	} else if s.bus.Idle() {
		// queue empty: nothing to dispatch this cycle.
	}
	if !s.bus.Idle() {
		s.bus.Complete(s.cycle)
	}

	for i := 0; i < core.NumCores; i++ {
		s.stepCore(i)
	}

	s.cycle++
}

// stepCore advances one core by one cycle. A reference is counted by Offer exactly
// once, at the cycle it is first presented; if the cache's completing bus transaction
// unblocks it this same cycle, that reference retires here without ever being offered
// a second time, since the line it needed is already installed and a second Offer
// would look like a fresh hit.
func (s *Simulator) stepCore(i int) {
	if s.done[i] {
		return
	}

	cache := s.caches[i]

	if cache.ReadyToRetire() {
		cache.ConsumeRetirement()
		cache.Counters.InstructionsRetired++
		cache.Counters.ExecutionCycles++
		s.cursor[i]++
		return
	}

	if cache.Blocked() {
		cache.Counters.IdleCycles++
		return
	}

	if s.cursor[i] >= len(s.traces[i]) {
		s.done[i] = true
		return
	}

	ref := s.traces[i][s.cursor[i]]
	retired, emitted := cache.Offer(ref, s.cycle)
	for _, req := range emitted {
		s.bus.Enqueue(req)
	}

	if retired {
		cache.Counters.InstructionsRetired++
		cache.Counters.ExecutionCycles++
		s.cursor[i]++
	} else {
		cache.Counters.IdleCycles++
	}
}
