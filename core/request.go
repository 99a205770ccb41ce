package core

import "github.com/rs/xid"

// BusRequest is a coherence transaction emitted by an L1Cache for the bus to arbitrate.
// It is transferred by value: once pushed onto the bus queue the originating cache keeps
// no reference to it, and the bus identifies the originator only by CoreID.
type BusRequest struct {
	CoreID     int
	Op         BusOp
	Address    uint32
	IssueCycle int

	// TraceID correlates a dispatch log line with its completion log line. It has no
	// effect on simulated behaviour; it exists purely for the debug-logging collaborator.
	TraceID xid.ID
}

// NewBusRequest builds a request stamped with a fresh trace identifier.
func NewBusRequest(coreID int, op BusOp, address uint32, issueCycle int) BusRequest {
	return BusRequest{
		CoreID:     coreID,
		Op:         op,
		Address:    address,
		IssueCycle: issueCycle,
		TraceID:    xid.New(),
	}
}
