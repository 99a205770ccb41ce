package bus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arch-sim/mesicache/bus"
	"github.com/arch-sim/mesicache/core"
)

func newCaches(n int) []*core.L1Cache {
	caches := make([]*core.L1Cache, n)
	for i := range caches {
		caches[i] = core.NewL1Cache(i, 1, 2, 2)
	}
	return caches
}

func TestBusDispatchMemoryFetchAndComplete(t *testing.T) {
	caches := newCaches(2)
	b := bus.New(caches, nil)

	_, emitted := caches[0].Offer(core.MemRef{Address: 0x00}, 0)
	require.Len(t, emitted, 1)
	b.Enqueue(emitted[0])

	require.True(t, b.Idle())
	require.False(t, b.QueueEmpty())

	b.Dispatch(0)
	assert.False(t, b.Idle())

	for cycle := 1; cycle < 100; cycle++ {
		b.Complete(cycle)
		assert.True(t, caches[0].Blocked(), "cache should remain blocked until cycle 100")
	}
	b.Complete(100)
	assert.True(t, b.Idle())
	assert.False(t, caches[0].Blocked())

	assert.Equal(t, 1, b.Counters.Transactions)
	assert.Equal(t, caches[0].BlockBytes(), b.Counters.DataBytes)
}

func TestBusCacheToCacheTransferIsFaster(t *testing.T) {
	caches := newCaches(2)
	b := bus.New(caches, nil)

	_, emitted := caches[0].Offer(core.MemRef{Address: 0x00}, 0)
	require.Len(t, emitted, 1)
	b.Enqueue(emitted[0])
	b.Dispatch(0)
	b.Complete(100)

	_, emitted = caches[1].Offer(core.MemRef{Address: 0x00}, 101)
	require.Len(t, emitted, 1)
	b.Enqueue(emitted[0])
	b.Dispatch(101)

	// BlockBytes = 2^2 = 4, so cache-to-cache transfer = 2*(4/4) = 2 cycles: 101 + 2 = 103.
	b.Complete(103)
	assert.True(t, b.Idle())
	assert.False(t, caches[1].Blocked())
}

func TestBusArbitratesByAscendingCoreID(t *testing.T) {
	caches := newCaches(4)
	b := bus.New(caches, nil)

	for i := 3; i >= 0; i-- {
		_, emitted := caches[i].Offer(core.MemRef{Address: uint32(i * 0x40)}, 0)
		require.Len(t, emitted, 1)
		b.Enqueue(emitted[0])
	}

	b.Dispatch(0)
	assert.Equal(t, 1, caches[0].Counters.TransactionsIssued)
	assert.Equal(t, 0, caches[1].Counters.TransactionsIssued)
}

func TestBusUpgradeInvalidatesSnooper(t *testing.T) {
	caches := newCaches(2)
	b := bus.New(caches, nil)

	_, emitted := caches[0].Offer(core.MemRef{Address: 0x00}, 0)
	b.Enqueue(emitted[0])
	b.Dispatch(0)
	b.Complete(100) // core 0 -> Exclusive

	_, emitted = caches[1].Offer(core.MemRef{Address: 0x00}, 101)
	b.Enqueue(emitted[0])
	b.Dispatch(101)
	b.Complete(103) // core 1 -> Shared (transfer from core 0), core 0 -> Shared

	_, emitted = caches[0].Offer(core.MemRef{IsWrite: true, Address: 0x00}, 104)
	require.Len(t, emitted, 1)
	assert.Equal(t, core.BusUpgr, emitted[0].Op)
	b.Enqueue(emitted[0])
	b.Dispatch(104)
	b.Complete(105) // upgrade duration is 1 cycle

	assert.Equal(t, 1, b.Counters.Invalidations)

	retired, emitted := caches[1].Offer(core.MemRef{Address: 0x00}, 106)
	assert.False(t, retired)
	require.Len(t, emitted, 1)
	assert.Equal(t, core.BusRd, emitted[0].Op)
}
