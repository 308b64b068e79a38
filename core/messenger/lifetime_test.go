package messenger_test

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/messenger/core/messenger"
)

const (
	defaultWait = 5 * time.Second
	tick        = 10 * time.Millisecond
)

// registerDropped registers receivers that nothing else references.
//
//go:noinline
func registerDropped(t *testing.T, reg *messenger.Registry[dummyMessage], n int) {
	t.Helper()
	for range n {
		require.NoError(t, reg.Register(&dummyReceiver{values: make([]string, 0, 4)}))
	}
}

func staleCount(reg *messenger.Registry[dummyMessage]) int {
	n := 0
	for _, e := range reg.Entries() {
		if !e.Alive {
			n++
		}
	}
	return n
}

// waitCollected runs the GC until want entries of reg report a reclaimed receiver.
func waitCollected(t *testing.T, reg *messenger.Registry[dummyMessage], want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		runtime.GC()
		return staleCount(reg) == want
	}, defaultWait, tick, "receivers were not reclaimed")
}

func TestRegistry_DoesNotKeepReceiversAlive(t *testing.T) {
	t.Parallel()

	reg := messenger.New[dummyMessage]()
	registerDropped(t, reg, 3)
	require.Equal(t, 3, reg.RegisteredCount())

	waitCollected(t, reg, 3)

	// Stale entries are still counted until swept.
	assert.Equal(t, 3, reg.RegisteredCount())

	assert.NotPanics(t, func() {
		reg.Send(dummyMessage{Value: dummyValue})
	})
	stats := reg.Stats()
	assert.Zero(t, stats.Delivered)
	assert.Equal(t, int64(3), stats.Stale)
}

func TestCheckAlive_RemovesOnlyStaleEntries(t *testing.T) {
	t.Parallel()

	reg := messenger.New[dummyMessage]()

	first := &dummyReceiver{}
	require.NoError(t, reg.Register(first, messenger.WithName[dummyMessage]("first")))
	registerDropped(t, reg, 2)
	second := &dummyReceiver{}
	require.NoError(t, reg.Register(second,
		messenger.WithName[dummyMessage]("second"),
		messenger.WithFilter(func(m dummyMessage) bool { return m.Key == "second" }),
	))
	registerDropped(t, reg, 1)
	third := &dummyReceiver{}
	require.NoError(t, reg.Register(third, messenger.WithName[dummyMessage]("third")))

	require.Equal(t, 6, reg.RegisteredCount())
	waitCollected(t, reg, 3)

	removed := reg.CheckAlive()
	assert.Equal(t, 3, removed)
	assert.Equal(t, 3, reg.RegisteredCount())

	entries := reg.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "first", entries[0].Name)
	assert.Equal(t, "second", entries[1].Name)
	assert.True(t, entries[1].Filtered, "filter must survive the sweep")
	assert.Equal(t, "third", entries[2].Name)

	reg.Send(dummyMessage{Key: "other", Value: dummyValue})
	assert.Equal(t, 1, first.count())
	assert.Zero(t, second.count())
	assert.Equal(t, 1, third.count())

	reg.Send(dummyMessage{Key: "second", Value: dummyValue})
	assert.Equal(t, 1, second.count())

	assert.Equal(t, int64(3), reg.Stats().Swept)
	assert.Zero(t, reg.CheckAlive(), "second sweep has nothing to remove")

	runtime.KeepAlive(first)
	runtime.KeepAlive(second)
	runtime.KeepAlive(third)
}

// IsRegistered and Unregister only look at the queried receiver and leave
// other stale entries in place, so RegisteredCount over-reports until
// CheckAlive runs.
func TestStaleEntries_NotSweptByOtherOperations(t *testing.T) {
	t.Parallel()

	reg := messenger.New[dummyMessage]()
	live := &dummyReceiver{}
	require.NoError(t, reg.Register(live))
	registerDropped(t, reg, 2)
	waitCollected(t, reg, 2)

	assert.True(t, reg.IsRegistered(live))
	assert.Equal(t, 3, reg.RegisteredCount())

	require.NoError(t, reg.Unregister(live))
	assert.Equal(t, 2, reg.RegisteredCount())

	assert.False(t, reg.IsRegistered(live))
	assert.Equal(t, 2, reg.CheckAlive())
	assert.Zero(t, reg.RegisteredCount())
}

func TestRegister_AfterReclaimDoesNotMatchStaleEntry(t *testing.T) {
	t.Parallel()

	reg := messenger.New[dummyMessage]()
	registerDropped(t, reg, 1)
	waitCollected(t, reg, 1)

	fresh := &dummyReceiver{}
	assert.False(t, reg.IsRegistered(fresh))
	require.NoError(t, reg.Register(fresh))
	assert.Equal(t, 2, reg.RegisteredCount())

	reg.Send(dummyMessage{Value: dummyValue})
	assert.Equal(t, 1, fresh.count())
}

func TestRegistry_ReceiverStaysAliveWhileOwned(t *testing.T) {
	t.Parallel()

	reg := messenger.New[dummyMessage]()
	owned := &dummyReceiver{}
	require.NoError(t, reg.Register(owned))

	for range 3 {
		runtime.GC()
	}

	assert.Zero(t, reg.CheckAlive())
	reg.Send(dummyMessage{Value: dummyValue})
	assert.Equal(t, dummyValue, owned.last())
}

//go:noinline
func registerDroppedWide(t *testing.T, reg *messenger.Registry[dummyMessage], n int) {
	t.Helper()
	for range n {
		require.NoError(t, reg.Register(&wideReceiver{}))
	}
}

func TestRegister_PointerFreeReceivers(t *testing.T) {
	t.Parallel()

	reg := messenger.New[dummyMessage]()

	// Small pointer-free values can share an allocation with unrelated
	// objects, so they would never become stale. They are refused up front.
	err := reg.Register(&smallReceiver{})
	require.ErrorIs(t, err, messenger.ErrUnsupportedReceiver)
	assert.Zero(t, reg.RegisteredCount())

	// At 16 bytes and above they get their own allocation and are reclaimed.
	registerDroppedWide(t, reg, 3)
	require.Equal(t, 3, reg.RegisteredCount())

	require.Eventually(t, func() bool {
		runtime.GC()
		reg.CheckAlive()
		return reg.RegisteredCount() == 0
	}, defaultWait, tick, "pointer-free receivers were not reclaimed")

	assert.Equal(t, int64(3), reg.Stats().Swept)
}
