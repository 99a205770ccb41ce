package hooks

import "testing"

func TestDispatchHookReceivesRequest(t *testing.T) {
	b := NewBroker()
	var got DispatchEvent

	b.OnDispatch(func(evt DispatchEvent) {
		got = evt
	})

	b.EmitDispatch(DispatchEvent{Cycle: 7, CoreID: 2, Op: "BusRd", Address: 0x40})

	if got.Cycle != 7 {
		t.Fatalf("expected cycle 7, got %d", got.Cycle)
	}
	if got.CoreID != 2 || got.Op != "BusRd" {
		t.Fatalf("unexpected request echoed back: %+v", got)
	}
}

func TestCompleteHookOrder(t *testing.T) {
	b := NewBroker()
	order := make([]string, 0, 2)

	b.OnComplete(func(evt CompleteEvent) {
		order = append(order, "first")
	})
	b.OnComplete(func(evt CompleteEvent) {
		order = append(order, "second")
	})

	b.EmitComplete(CompleteEvent{Cycle: 1, NewState: "M"})

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("unexpected hook order: %v", order)
	}
}

func TestInvalidateHookFiresPerCore(t *testing.T) {
	b := NewBroker()
	cores := make([]int, 0, 2)

	b.OnInvalidate(func(evt InvalidateEvent) {
		cores = append(cores, evt.CoreID)
	})

	b.EmitInvalidate(InvalidateEvent{Cycle: 3, CoreID: 1, Address: 0x10})
	b.EmitInvalidate(InvalidateEvent{Cycle: 3, CoreID: 2, Address: 0x10})

	if len(cores) != 2 || cores[0] != 1 || cores[1] != 2 {
		t.Fatalf("unexpected invalidation fan-out: %v", cores)
	}
}

func TestEvictAndWritebackHooks(t *testing.T) {
	b := NewBroker()
	var evicted EvictEvent
	var written WritebackEvent

	b.OnEvict(func(evt EvictEvent) { evicted = evt })
	b.OnWriteback(func(evt WritebackEvent) { written = evt })

	b.EmitEvict(EvictEvent{Cycle: 4, CoreID: 0, Address: 0x0, WasModified: true})
	b.EmitWriteback(WritebackEvent{Cycle: 4, CoreID: 0, Address: 0x0})

	if !evicted.WasModified {
		t.Fatalf("expected WasModified to be true")
	}
	if written.CoreID != 0 {
		t.Fatalf("expected writeback core 0, got %d", written.CoreID)
	}
}

func TestEmitWithNoSubscribersIsANoOp(t *testing.T) {
	b := NewBroker()
	// Must not panic when nothing is registered.
	b.EmitDispatch(DispatchEvent{})
	b.EmitComplete(CompleteEvent{})
	b.EmitInvalidate(InvalidateEvent{})
	b.EmitEvict(EvictEvent{})
	b.EmitWriteback(WritebackEvent{})
}

func TestNilBrokerEmitIsSafe(t *testing.T) {
	var b *Broker
	b.EmitDispatch(DispatchEvent{})
	b.OnDispatch(func(DispatchEvent) {})
}
