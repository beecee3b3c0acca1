package toast

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-portal/internal/events"
)

type fakeTimer struct {
	clock    *fakeClock
	deadline time.Time
	fn       func()
	stopped  bool
	fired    bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, deadline: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs due callbacks outside the lock.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []func()
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.deadline.After(c.now) {
			t.fired = true
			due = append(due, t.fn)
		}
	}
	c.mu.Unlock()
	for _, f := range due {
		f()
	}
}

func (c *fakeClock) stoppedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if t.stopped {
			n++
		}
	}
	return n
}

func TestErrorToastExpiresAfterDuration(t *testing.T) {
	clock := newFakeClock()
	s := NewStore(Options{Clock: clock})

	toast := s.Error("X")
	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, toast.ID, list[0].ID)
	assert.Equal(t, KindError, list[0].Kind)
	assert.Equal(t, "X", list[0].Message)

	clock.Advance(2999 * time.Millisecond)
	assert.Len(t, s.List(), 1)

	clock.Advance(time.Millisecond)
	assert.Empty(t, s.List())
}

func TestDismissStopsTimer(t *testing.T) {
	clock := newFakeClock()
	s := NewStore(Options{Clock: clock})

	toast := s.Info("hello")
	assert.True(t, s.Dismiss(toast.ID))
	assert.False(t, s.Dismiss(toast.ID))
	assert.Equal(t, 1, clock.stoppedCount())

	clock.Advance(DefaultDuration)
	assert.Empty(t, s.List())
}

func TestArrivalOrderAndOffsets(t *testing.T) {
	clock := newFakeClock()
	s := NewStore(Options{Clock: clock})

	a := s.Success("a")
	clock.Advance(time.Second)
	b := s.Warning("b")
	c := s.Info("c")

	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, []string{list[0].ID, list[1].ID, list[2].ID})
	assert.Equal(t, []int{0, 64, 128}, []int{list[0].Offset, list[1].Offset, list[2].Offset})

	clock.Advance(2 * time.Second)
	list = s.List()
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, 0, list[0].Offset)
	assert.Equal(t, 64, list[1].Offset)
}

func TestUniqueIDs(t *testing.T) {
	s := NewStore(Options{Clock: newFakeClock()})
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := s.Info("x").ID
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestCloseStopsAllTimers(t *testing.T) {
	clock := newFakeClock()
	s := NewStore(Options{Clock: clock})
	s.Info("a")
	s.Info("b")

	s.Close()
	assert.Zero(t, s.Len())
	assert.Equal(t, 2, clock.stoppedCount())
}

func TestKindValid(t *testing.T) {
	assert.True(t, KindWarning.Valid())
	assert.False(t, Kind("fatal").Valid())
}

func TestRealClockExpiry(t *testing.T) {
	s := NewStore(Options{Duration: 20 * time.Millisecond})
	s.Error("X")
	require.Len(t, s.List(), 1)
	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestRegistryPublishesChanges(t *testing.T) {
	hub := events.NewHub()
	ch := hub.Subscribe("client-1")
	defer hub.Unsubscribe("client-1", ch)

	clock := newFakeClock()
	reg := NewRegistry(Options{Clock: clock}, hub)
	defer reg.Close()

	store := reg.For("client-1")
	assert.Same(t, store, reg.For("client-1"))
	assert.NotSame(t, store, reg.For("client-2"))

	toast := store.Error("boom")
	clock.Advance(DefaultDuration)

	var shown, dismissed events.Event
	require.NoError(t, json.Unmarshal([]byte(<-ch), &shown))
	require.NoError(t, json.Unmarshal([]byte(<-ch), &dismissed))
	assert.Equal(t, events.TypeToastShown, shown.Type)
	assert.Equal(t, events.TypeToastDismiss, dismissed.Type)

	var payload Toast
	require.NoError(t, json.Unmarshal(dismissed.Data, &payload))
	assert.Equal(t, toast.ID, payload.ID)
}

func TestRegistrySweepsIdleEmptyStores(t *testing.T) {
	clock := newFakeClock()
	reg := NewRegistry(Options{Clock: clock, IdleTTL: time.Minute}, nil)
	defer reg.Close()

	for i := 0; i < 100; i++ {
		reg.For(fmt.Sprintf("guest-%d", i)).List()
	}
	busy := reg.For("busy")
	busy.Info("still here")
	require.Equal(t, 101, reg.Len())

	assert.Zero(t, reg.Sweep(), "fresh stores are kept")

	clock.Advance(2 * time.Minute)
	busy.Info("refreshed")
	assert.Equal(t, 100, reg.Sweep())
	assert.Equal(t, 1, reg.Len())
	assert.Same(t, busy, reg.For("busy"))
	assert.Len(t, busy.List(), 1)
}

func TestRegistryCloseIsIdempotent(t *testing.T) {
	reg := NewRegistry(Options{Clock: newFakeClock()}, nil)
	reg.For("client-1").Error("boom")
	reg.Close()
	reg.Close()
	assert.Zero(t, reg.Len())
}
