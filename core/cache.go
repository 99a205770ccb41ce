package core

// L1Cache is one core's private, set-associative, write-back/write-allocate cache. It
// answers its own core's references (Offer), snoops coherence traffic from the other
// cores (Snoop), and installs/upgrades lines when its own pending bus transaction
// finishes (Complete, CompleteFlush).
//
// Mutation of a cache's sets and counters only ever happens from one of those three
// call paths, and the driver that invokes them is single-threaded (§5), so L1Cache
// carries no synchronization of its own.
type L1Cache struct {
	CoreID int

	s, b, e int // set-index bits, block-offset bits, associativity
	sMask   uint32

	sets []*CacheSet

	events EventSink

	Counters CoreCounters

	blocked bool
	pending MemRef
	// pendingVictim remembers the slot chosen at miss time so Complete doesn't have to
	// re-derive it; re-deriving would be wrong if, by the time the fill completes, some
	// other slot now holds the tag (the "re-entry after displacement" case below).
	pendingVictim int
	// retirePending is raised by Complete once the transaction that blocked the cache
	// finishes, and consumed by the driver to retire the reference that caused it.
	// Offer already counted that reference's Read/Write/Hit/Miss at the cycle it
	// blocked, so retirement must never re-enter Offer for the same reference — doing
	// so would look up the now-installed line and double-count it as a fresh hit.
	retirePending bool
}

// NewL1Cache builds a cache with S = 2^s sets, B = 2^b byte blocks, and associativity E.
func NewL1Cache(coreID, s, b, e int) *L1Cache {
	numSets := 1 << uint(s)
	sets := make([]*CacheSet, numSets)
	for i := range sets {
		sets[i] = NewCacheSet(e)
	}
	return &L1Cache{
		CoreID: coreID,
		s:      s,
		b:      b,
		e:      e,
		sMask:  uint32(numSets - 1),
		sets:   sets,
		events: noopEventSink{},
	}
}

// SetEventSink wires a coherence-event subscriber; a nil sink restores the no-op
// default. Called once at simulator construction time, never on the hot path itself.
func (c *L1Cache) SetEventSink(sink EventSink) {
	if sink == nil {
		sink = noopEventSink{}
	}
	c.events = sink
}

// BlockBytes returns B = 2^b, the unit of transfer and coherence.
func (c *L1Cache) BlockBytes() int {
	return 1 << uint(c.b)
}

// Blocked reports whether the cache is waiting on a pending bus transaction.
func (c *L1Cache) Blocked() bool {
	return c.blocked
}

// ReadyToRetire reports whether the reference that most recently blocked this cache
// has just completed and is waiting for the driver to retire it.
func (c *L1Cache) ReadyToRetire() bool {
	return c.retirePending
}

// ConsumeRetirement clears the ready-to-retire flag. The driver calls this exactly
// once per completed reference, after accounting for its retirement.
func (c *L1Cache) ConsumeRetirement() {
	c.retirePending = false
}

func (c *L1Cache) setIndex(addr uint32) uint32 {
	return (addr >> uint(c.b)) & c.sMask
}

func (c *L1Cache) tag(addr uint32) uint32 {
	return addr >> uint(c.s+c.b)
}

func (c *L1Cache) blockAddress(setIdx, tag uint32) uint32 {
	return (tag << uint(c.s+c.b)) | (setIdx << uint(c.b))
}

// Offer presents ref to the cache for the given cycle. It returns whether the
// reference retired this cycle and the bus requests (0, 1, or 2) it emitted. While
// blocked it is a defensive no-op: the driver must not call Offer on a blocked cache,
// but Offer does not trust that contract blindly (§4.1).
func (c *L1Cache) Offer(ref MemRef, cycle int) (retired bool, emitted []BusRequest) {
	if c.blocked {
		return false, nil
	}

	setIdx := c.setIndex(ref.Address)
	tag := c.tag(ref.Address)
	set := c.sets[setIdx]

	if idx := set.Find(tag); idx != -1 {
		return c.offerHit(ref, set, idx, cycle)
	}
	return c.offerMiss(ref, setIdx, tag, set, cycle)
}

func (c *L1Cache) offerHit(ref MemRef, set *CacheSet, idx int, cycle int) (bool, []BusRequest) {
	c.Counters.Hits++
	line := set.Line(idx)

	if !ref.IsWrite {
		c.Counters.Reads++
		set.Touch(idx)
		return true, nil
	}

	c.Counters.Writes++
	switch line.State {
	case MESIModified:
		set.Touch(idx)
		return true, nil
	case MESIExclusive:
		set.SetState(idx, MESIModified)
		set.Touch(idx)
		return true, nil
	case MESIShared:
		req := NewBusRequest(c.CoreID, BusUpgr, ref.Address, cycle)
		c.blocked = true
		c.pending = ref
		return false, []BusRequest{req}
	case MESIInvalid:
		panic("core: L1Cache hit returned an Invalid line")
	default:
		panic("core: unhandled MESIState in offerHit")
	}
}

func (c *L1Cache) offerMiss(ref MemRef, setIdx, tag uint32, set *CacheSet, cycle int) (bool, []BusRequest) {
	c.Counters.Misses++
	if ref.IsWrite {
		c.Counters.Writes++
	} else {
		c.Counters.Reads++
	}

	victim := set.VictimIndex()
	var emitted []BusRequest

	if line := set.Line(victim); line.Valid {
		c.Counters.Evictions++
		victimAddr := c.blockAddress(setIdx, line.Tag)
		wasModified := line.State == MESIModified
		c.events.Evict(cycle, c.CoreID, victimAddr, wasModified)
		if wasModified {
			c.Counters.Writebacks++
			emitted = append(emitted, NewBusRequest(c.CoreID, Flush, victimAddr, cycle))
			c.events.Writeback(cycle, c.CoreID, victimAddr)
		}
		set.Invalidate(victim)
	}

	op := BusRd
	if ref.IsWrite {
		op = BusRdX
	}
	emitted = append(emitted, NewBusRequest(c.CoreID, op, ref.Address, cycle))

	c.blocked = true
	c.pending = ref
	c.pendingVictim = victim

	return false, emitted
}

// Snoop observes a bus transaction issued by another core and updates this cache's
// line accordingly. It reports whether it supplied data (and if so, the transfer
// latency) and whether it invalidated a line it held, so a caller can fire an
// OnInvalidate event without re-deriving cache-internal state. Snooping never changes
// this cache's recency ordering (§4.1).
func (c *L1Cache) Snoop(req BusRequest, cycle int) (providesData bool, transferCycles int, invalidated bool) {
	setIdx := c.setIndex(req.Address)
	tag := c.tag(req.Address)
	set := c.sets[setIdx]

	idx := set.Find(tag)
	if idx == -1 {
		return false, 0, false
	}
	line := set.Line(idx)

	switch req.Op {
	case BusRd:
		if line.State != MESIInvalid {
			set.SetState(idx, MESIShared)
			return true, 2 * (c.BlockBytes() / 4), false
		}
		return false, 0, false
	case BusRdX:
		if line.State != MESIInvalid {
			set.Invalidate(idx)
			return true, 2 * (c.BlockBytes() / 4), true
		}
		return false, 0, false
	case BusUpgr:
		switch line.State {
		case MESIShared, MESIExclusive:
			set.Invalidate(idx)
			return false, 0, true
		case MESIModified:
			panic("core: BusUpgr snooped a Modified line: coherence invariant violated")
		case MESIInvalid:
		default:
			panic("core: unhandled MESIState in Snoop")
		}
		return false, 0, false
	case Flush:
		return false, 0, false
	default:
		panic("core: unhandled BusOp in Snoop")
	}
}

// Complete finishes a non-flush bus transaction this cache issued: it installs or
// upgrades the line and clears the blocked flag (§4.1).
func (c *L1Cache) Complete(cycle int, isUpgrade bool, newState MESIState) {
	addr := c.pending.Address
	setIdx := c.setIndex(addr)
	tag := c.tag(addr)
	set := c.sets[setIdx]

	if isUpgrade {
		if idx := set.Find(tag); idx != -1 {
			set.SetState(idx, newState)
		}
		c.blocked = false
		c.retirePending = true
		return
	}

	if idx := set.Find(tag); idx != -1 {
		set.Install(idx, tag, newState)
	} else {
		set.Install(c.pendingVictim, tag, newState)
	}
	c.blocked = false
	c.retirePending = true
}

// CompleteFlush finishes a Flush this cache issued. The evicted slot is already
// logically empty, so there is nothing to update; the cache stays blocked because a
// Flush is always immediately followed by the fill it made room for (§4.1).
func (c *L1Cache) CompleteFlush(cycle int) {
	// Intentionally a no-op on cache state: flush completion never unblocks the cache
	// by itself, closing the race window the original implementation left open.
}
