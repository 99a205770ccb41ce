// Package protocol expresses the local MESI snooping state machine declaratively, as
// a cross-check against core.L1Cache's hand-written implementation rather than as
// something on the simulation hot path.
package protocol

import "github.com/arch-sim/mesicache/slicc"

// States are named the same as core.MESIState's String() form, and the snoop events
// embed core.BusOp's String() form, so the table reads the same vocabulary the trace
// log does.
const (
	StateModified  = "M"
	StateExclusive = "E"
	StateShared    = "S"
	StateInvalid   = "I"

	EventLocalRead    = "LocalRead"
	EventLocalWrite   = "LocalWrite"
	EventSnoopBusRd   = "SnoopBusRd"
	EventSnoopBusRdX  = "SnoopBusRdX"
	EventSnoopBusUpgr = "SnoopBusUpgr"
)

// Spec is the declarative MESI snooping protocol table described in the component
// design for the L1 cache state machine. Constructing it validates structural
// consistency (every referenced state and event is declared) at package init time,
// the same role slicc.StateMachineSpec plays for this codebase's other protocols.
var Spec = mustBuildSpec()

func mustBuildSpec() *slicc.StateMachineSpec {
	spec := &slicc.StateMachineSpec{
		Name:         "MESI-Snoop",
		Description:  "local MESI transitions for a single L1 cache over a snooping bus",
		DefaultState: StateInvalid,
		States: []slicc.StateSpec{
			{Name: StateModified, Description: "dirty, exclusively owned"},
			{Name: StateExclusive, Description: "clean, exclusively owned"},
			{Name: StateShared, Description: "clean, possibly replicated"},
			{Name: StateInvalid, Description: "no valid copy"},
		},
		Events: []slicc.EventSpec{
			{Name: EventLocalRead, Description: "this core reads the address"},
			{Name: EventLocalWrite, Description: "this core writes the address"},
			{Name: EventSnoopBusRd, Description: "another core issues BusRd"},
			{Name: EventSnoopBusRdX, Description: "another core issues BusRdX"},
			{Name: EventSnoopBusUpgr, Description: "another core issues BusUpgr"},
		},
		Transitions: []slicc.TransitionSpec{
			{FromStates: []string{StateModified}, Events: []string{EventLocalRead, EventLocalWrite}, ToState: StateModified},
			{FromStates: []string{StateModified}, Events: []string{EventSnoopBusRd}, ToState: StateShared, Actions: []string{"supplyData"}},
			{FromStates: []string{StateModified}, Events: []string{EventSnoopBusRdX}, ToState: StateInvalid, Actions: []string{"supplyData"}},

			{FromStates: []string{StateExclusive}, Events: []string{EventLocalRead}, ToState: StateExclusive},
			{FromStates: []string{StateExclusive}, Events: []string{EventLocalWrite}, ToState: StateModified, Actions: []string{"silentUpgrade"}},
			{FromStates: []string{StateExclusive}, Events: []string{EventSnoopBusRd}, ToState: StateShared, Actions: []string{"supplyData"}},
			{FromStates: []string{StateExclusive}, Events: []string{EventSnoopBusRdX}, ToState: StateInvalid, Actions: []string{"supplyData"}},
			{FromStates: []string{StateExclusive}, Events: []string{EventSnoopBusUpgr}, ToState: StateInvalid},

			{FromStates: []string{StateShared}, Events: []string{EventLocalRead}, ToState: StateShared},
			{FromStates: []string{StateShared}, Events: []string{EventLocalWrite}, ToState: StateModified, Actions: []string{"issueBusUpgr", "blockUntilComplete"}},
			{FromStates: []string{StateShared}, Events: []string{EventSnoopBusRd}, ToState: StateShared, Actions: []string{"supplyData"}},
			{FromStates: []string{StateShared}, Events: []string{EventSnoopBusRdX}, ToState: StateInvalid, Actions: []string{"supplyData"}},
			{FromStates: []string{StateShared}, Events: []string{EventSnoopBusUpgr}, ToState: StateInvalid},

			{FromStates: []string{StateInvalid}, Events: []string{EventLocalRead}, ToState: StateExclusive, Actions: []string{"issueBusRd", "blockUntilComplete"}},
			{FromStates: []string{StateInvalid}, Events: []string{EventLocalWrite}, ToState: StateModified, Actions: []string{"issueBusRdX", "blockUntilComplete"}},
		},
	}
	if err := spec.Validate(); err != nil {
		panic("protocol: invalid MESI snoop spec: " + err.Error())
	}
	return spec
}
