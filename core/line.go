package core

import "container/list"

// CacheLine is one slot's contents. State = MESIInvalid iff Valid = false (§3 invariant 4).
type CacheLine struct {
	Valid bool
	Tag   uint32
	State MESIState
}

// CacheSet is a fixed-capacity, fully-associative group of E lines. Recency is tracked
// with an intrusive most-recently-used-at-front list, one node per slot index, the same
// container/list-based bookkeeping this codebase already uses for LRU cache capacity
// management elsewhere, adapted here to a fixed per-set capacity instead of a single
// global one.
type CacheSet struct {
	lines []CacheLine
	// recency holds *list.Element per slot index; the front of order is the MRU slot,
	// the back is the LRU slot. Every slot has exactly one element, valid or not, so
	// "preferred invalid victim" and "LRU valid victim" share one data structure.
	order   *list.List
	recency []*list.Element
}

// NewCacheSet allocates a set with associativity assoc, all slots initially invalid.
func NewCacheSet(assoc int) *CacheSet {
	s := &CacheSet{
		lines:   make([]CacheLine, assoc),
		order:   list.New(),
		recency: make([]*list.Element, assoc),
	}
	// Seed order back-to-front so slot 0 starts as MRU and the highest index starts as
	// LRU. An all-invalid set still evicts slot 0 first, because VictimIndex takes the
	// lowest-index invalid slot before it consults recency ("ties broken by slot index").
	for i := assoc - 1; i >= 0; i-- {
		s.recency[i] = s.order.PushFront(i)
	}
	return s
}

// Associativity returns the number of ways in the set.
func (s *CacheSet) Associativity() int {
	return len(s.lines)
}

// Find returns the slot index holding tag in a valid state, or -1 if absent.
func (s *CacheSet) Find(tag uint32) int {
	for i := range s.lines {
		if s.lines[i].Valid && s.lines[i].Tag == tag {
			return i
		}
	}
	return -1
}

// Line returns a copy of the line at slot index.
func (s *CacheSet) Line(index int) CacheLine {
	return s.lines[index]
}

// Touch promotes slot index to most-recently-used without changing its contents.
func (s *CacheSet) Touch(index int) {
	s.order.MoveToFront(s.recency[index])
}

// VictimIndex returns the slot to evict on a miss: the first invalid slot, preferred
// over any valid one, else the least-recently-used valid slot.
func (s *CacheSet) VictimIndex() int {
	for i := range s.lines {
		if !s.lines[i].Valid {
			return i
		}
	}
	back := s.order.Back()
	return back.Value.(int)
}

// Invalidate clears a slot back to Invalid without touching recency: snooping must
// never reorder the snooped cache's own LRU state (§4.1).
func (s *CacheSet) Invalidate(index int) {
	s.lines[index] = CacheLine{}
}

// Install writes tag/state into slot index, marks it valid, and promotes it to MRU.
// Used both for a fresh fill and for "re-entry after displacement" (§4.1 Complete).
func (s *CacheSet) Install(index int, tag uint32, state MESIState) {
	s.lines[index] = CacheLine{Valid: true, Tag: tag, State: state}
	s.Touch(index)
}

// SetState overwrites the state of an already-valid slot without touching recency
// (used by the upgrade-completion path, which leaves recency as it was before the
// Shared write hit, and by in-place state changes on hits and snoops).
func (s *CacheSet) SetState(index int, state MESIState) {
	s.lines[index].State = state
}
