package fakeinv

import (
	"slices"
	"testing"
	"time"
)

func TestExecRunsOnCurrentTick(t *testing.T) {
	h := newHarness(t)

	var ran bool
	if !h.m.Exec(func() { ran = true }) {
		t.Fatal("Exec refused work on a running manager")
	}
	h.flush()
	if !ran {
		t.Error("Exec task did not run on the current tick")
	}
	if h.m.TickNumber() != 0 {
		t.Errorf("tick advanced to %d", h.m.TickNumber())
	}
}

func TestDeferRunsOnNextTick(t *testing.T) {
	h := newHarness(t)

	var ran int
	h.m.Defer(Default, func() { ran++ })
	h.flush()
	if ran != 0 {
		t.Fatal("deferred task ran on the current tick")
	}

	h.tick()
	if ran != 1 {
		t.Fatalf("deferred task ran %d times, want 1", ran)
	}
	h.tick()
	if ran != 1 {
		t.Errorf("deferred task ran again")
	}
}

func TestDeferredDuringTickWaitsForNextTick(t *testing.T) {
	h := newHarness(t)

	var order []string
	h.m.Defer(Default, func() {
		order = append(order, "first")
		h.m.Defer(Default, func() { order = append(order, "second") })
	})

	h.tick()
	if !slices.Equal(order, []string{"first"}) {
		t.Fatalf("order after one tick = %v", order)
	}
	h.tick()
	if !slices.Equal(order, []string{"first", "second"}) {
		t.Errorf("order after two ticks = %v", order)
	}
}

func TestStageOrdering(t *testing.T) {
	h := newHarness(t)

	var order []string
	h.m.Defer(After, func() { order = append(order, "after") })
	h.m.Defer(Default, func() { order = append(order, "default-1") })
	h.m.Defer(Before, func() { order = append(order, "before") })
	h.m.Defer(Default, func() { order = append(order, "default-2") })

	h.tick()
	want := []string{"before", "default-1", "default-2", "after"}
	if !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestDeferForResolvesViewer(t *testing.T) {
	h := newHarness(t)
	h.add(alice())

	var got []string
	h.m.DeferFor("alice", Default, func(v Viewer) { got = append(got, v.Name()) })
	h.m.DeferFor("bob", Default, func(v Viewer) { got = append(got, v.Name()) })

	h.tick()
	if !slices.Equal(got, []string{"alice"}) {
		t.Errorf("resolved %v, want only alice", got)
	}
}

func TestTaskPanicDoesNotStopTick(t *testing.T) {
	h := newHarness(t)

	var ran bool
	h.m.Defer(Default, func() { panic("boom") })
	h.m.Defer(Default, func() { ran = true })

	h.tick()
	if !ran {
		t.Error("task after a panicking task did not run")
	}
}

func TestScheduleRefusedWhenStopped(t *testing.T) {
	m := NewBuilder().Build()

	if m.Running() {
		t.Fatal("Build started the loop")
	}
	if m.Exec(func() {}) || m.Defer(Default, func() {}) {
		t.Error("work accepted by a stopped manager")
	}
	if m.scheduler.Pending() != 0 {
		t.Errorf("Pending() = %d", m.scheduler.Pending())
	}
}

func TestSchedulerLoop(t *testing.T) {
	m := NewBuilder().TickRate(time.Millisecond).Init()
	defer m.Shutdown()

	done := make(chan uint64, 1)
	m.Defer(Default, func() { done <- m.TickNumber() })

	select {
	case tick := <-done:
		if tick == 0 {
			t.Error("deferred task ran on tick 0")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("deferred task never ran")
	}

	ran := make(chan struct{})
	m.Exec(func() { close(ran) })
	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("Exec task never ran")
	}
}

func TestShutdownClosesInventories(t *testing.T) {
	v := alice()
	viewers := map[string]Viewer{"alice": v}
	m := NewBuilder().
		TickRate(time.Hour).
		Viewers(ViewerSourceFunc(func(name string) (Viewer, bool) {
			viewer, ok := viewers[name]
			return viewer, ok
		})).
		BlockRuntimeIDs(testRuntimeID).
		Init()

	inv := m.NewInventory(nil)
	opened := make(chan struct{})
	m.Exec(func() {
		inv.Open(v)
		close(opened)
	})
	<-opened

	m.Shutdown()
	if m.Running() {
		t.Error("manager still running after Shutdown")
	}
	if m.Bound() != 0 {
		t.Errorf("Bound() = %d after Shutdown", m.Bound())
	}
	if len(v.closed) != 1 {
		t.Errorf("window closed %d times, want 1", len(v.closed))
	}
}
