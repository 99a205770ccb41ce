package core

// BusOp is the closed set of coherence transactions that can travel on the bus.
type BusOp uint8

const (
	BusRd   BusOp = iota // read miss: fetch a line for shared/exclusive read access
	BusRdX               // write miss: fetch a line for exclusive/modified access, invalidate others
	BusUpgr              // shared line being written: invalidate other copies, no data movement
	Flush                // dirty victim writeback to memory
)

// String renders the transaction mnemonic used in coherence traces.
func (op BusOp) String() string {
	switch op {
	case BusRd:
		return "BusRd"
	case BusRdX:
		return "BusRdX"
	case BusUpgr:
		return "BusUpgr"
	case Flush:
		return "Flush"
	default:
		panic("core: unhandled BusOp in String")
	}
}

// InvalidatesSnoopers reports whether dispatching this transaction counts toward the
// bus's invalidation counter (BusRdX and BusUpgr evict other caches' copies).
func (op BusOp) InvalidatesSnoopers() bool {
	switch op {
	case BusRdX, BusUpgr:
		return true
	case BusRd, Flush:
		return false
	default:
		panic("core: unhandled BusOp in InvalidatesSnoopers")
	}
}
