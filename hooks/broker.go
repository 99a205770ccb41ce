package hooks

import "sync"

// DispatchEvent carries the details of a bus transaction beginning service. Op and
// NewState are rendered as their mnemonic strings (e.g. "BusRdX", "M") rather than
// typed as core.BusOp/core.MESIState, so this package does not import core; core in
// turn reaches the broker only through its own EventSink interface.
type DispatchEvent struct {
	Cycle      int
	CoreID     int
	Op         string
	Address    uint32
	IssueCycle int
}

// CompleteEvent carries the details of a bus transaction finishing and its
// originator's line being installed or upgraded.
type CompleteEvent struct {
	Cycle    int
	CoreID   int
	Op       string
	Address  uint32
	NewState string
}

// InvalidateEvent fires whenever a snoop invalidates a line in some other cache.
type InvalidateEvent struct {
	Cycle   int
	CoreID  int
	Address uint32
}

// EvictEvent fires on a capacity eviction, before any resulting writeback.
type EvictEvent struct {
	Cycle       int
	CoreID      int
	Address     uint32
	WasModified bool
}

// WritebackEvent fires when an eviction produces a Flush transaction.
type WritebackEvent struct {
	Cycle   int
	CoreID  int
	Address uint32
}

// DispatchHook observes a bus transaction starting.
type DispatchHook func(DispatchEvent)

// CompleteHook observes a bus transaction finishing.
type CompleteHook func(CompleteEvent)

// InvalidateHook observes a snoop-driven invalidation.
type InvalidateHook func(InvalidateEvent)

// EvictHook observes a capacity eviction.
type EvictHook func(EvictEvent)

// WritebackHook observes a dirty-victim flush.
type WritebackHook func(WritebackEvent)

// Broker fans coherence events out to registered subscribers. It is adapted from the
// plugin broker this codebase uses for NoC capability plugins, trimmed to the five
// event kinds a coherence trace cares about. The mutex is kept even though the
// simulation driver never calls it from more than one goroutine: it is carried over
// with the rest of that broker's shape, and an uncontended RWMutex costs nothing a
// cycle loop would notice.
type Broker struct {
	mu sync.RWMutex

	dispatchHooks   []DispatchHook
	completeHooks   []CompleteHook
	invalidateHooks []InvalidateHook
	evictHooks      []EvictHook
	writebackHooks  []WritebackHook
}

// NewBroker creates an empty broker with no subscribers.
func NewBroker() *Broker {
	return &Broker{}
}

// OnDispatch registers a subscriber for bus dispatch events.
func (b *Broker) OnDispatch(h DispatchHook) {
	if b == nil || h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dispatchHooks = append(b.dispatchHooks, h)
}

// OnComplete registers a subscriber for bus completion events.
func (b *Broker) OnComplete(h CompleteHook) {
	if b == nil || h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.completeHooks = append(b.completeHooks, h)
}

// OnInvalidate registers a subscriber for snoop-driven invalidation events.
func (b *Broker) OnInvalidate(h InvalidateHook) {
	if b == nil || h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.invalidateHooks = append(b.invalidateHooks, h)
}

// OnEvict registers a subscriber for capacity eviction events.
func (b *Broker) OnEvict(h EvictHook) {
	if b == nil || h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.evictHooks = append(b.evictHooks, h)
}

// OnWriteback registers a subscriber for dirty-victim flush events.
func (b *Broker) OnWriteback(h WritebackHook) {
	if b == nil || h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writebackHooks = append(b.writebackHooks, h)
}

// EmitDispatch notifies all dispatch subscribers. With no subscriber registered this
// is a lock-and-iterate over an empty slice, so a non-debug run pays no formatting
// cost in the hot loop.
func (b *Broker) EmitDispatch(evt DispatchEvent) {
	if b == nil {
		return
	}
	b.mu.RLock()
	hooks := b.dispatchHooks
	b.mu.RUnlock()
	for _, h := range hooks {
		h(evt)
	}
}

// EmitComplete notifies all completion subscribers.
func (b *Broker) EmitComplete(evt CompleteEvent) {
	if b == nil {
		return
	}
	b.mu.RLock()
	hooks := b.completeHooks
	b.mu.RUnlock()
	for _, h := range hooks {
		h(evt)
	}
}

// EmitInvalidate notifies all invalidation subscribers.
func (b *Broker) EmitInvalidate(evt InvalidateEvent) {
	if b == nil {
		return
	}
	b.mu.RLock()
	hooks := b.invalidateHooks
	b.mu.RUnlock()
	for _, h := range hooks {
		h(evt)
	}
}

// EmitEvict notifies all eviction subscribers.
func (b *Broker) EmitEvict(evt EvictEvent) {
	if b == nil {
		return
	}
	b.mu.RLock()
	hooks := b.evictHooks
	b.mu.RUnlock()
	for _, h := range hooks {
		h(evt)
	}
}

// EmitWriteback notifies all writeback subscribers.
func (b *Broker) EmitWriteback(evt WritebackEvent) {
	if b == nil {
		return
	}
	b.mu.RLock()
	hooks := b.writebackHooks
	b.mu.RUnlock()
	for _, h := range hooks {
		h(evt)
	}
}

// Evict and Writeback give *Broker the plain-typed method set of core.EventSink,
// letting an L1Cache hold a Broker as its event sink without the core package
// importing hooks.

// Evict forwards a capacity-eviction event to EmitEvict.
func (b *Broker) Evict(cycle, coreID int, address uint32, wasModified bool) {
	b.EmitEvict(EvictEvent{Cycle: cycle, CoreID: coreID, Address: address, WasModified: wasModified})
}

// Writeback forwards a dirty-victim flush event to EmitWriteback.
func (b *Broker) Writeback(cycle, coreID int, address uint32) {
	b.EmitWriteback(WritebackEvent{Cycle: cycle, CoreID: coreID, Address: address})
}
