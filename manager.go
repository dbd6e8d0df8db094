package fakeinv

import (
	"log/slog"
	"sync"
	"time"

	"github.com/df-mc/dragonfly/server/world"
)

// Manager is the central fake inventory coordinator.
// It owns the tick loop, the viewer bindings and the registries of tracked
// players and connections. Multiple Manager instances can coexist in the same
// process for running multiple isolated servers.
type Manager struct {
	log *slog.Logger

	// scheduler owns the tick loop all inventory state lives on
	scheduler *Scheduler

	// viewers resolves viewer names for deferred work
	viewers ViewerSource

	// runtimeID maps blocks to their network runtime ID
	runtimeID func(world.Block) uint32

	// behind is the default for InventoryOptions.BehindPlayer
	behind bool

	// bindings maps viewer names to the inventory they have open
	bindings   map[string]*Inventory
	bindingsMu sync.RWMutex

	// players maps names of tracked players to their entity handles
	players   map[string]*world.EntityHandle
	playersMu sync.RWMutex

	// conns maps names to wrapped network connections
	conns   map[string]*Conn
	connsMu sync.RWMutex
}

// newManager creates a new manager. The tick loop is not started.
func newManager(log *slog.Logger, tickRate time.Duration) *Manager {
	m := &Manager{
		log:       log,
		runtimeID: world.BlockRuntimeID,
		behind:    true,
		bindings:  make(map[string]*Inventory),
		players:   make(map[string]*world.EntityHandle),
		conns:     make(map[string]*Conn),
	}
	m.viewers = ViewerSourceFunc(m.sessionViewer)
	m.scheduler = newScheduler(m, tickRate)
	return m
}

// Start starts the tick loop.
func (m *Manager) Start() {
	m.scheduler.Start()
}

// Running reports whether the tick loop is accepting work.
func (m *Manager) Running() bool {
	return m.scheduler.Running()
}

// TickNumber returns the current tick number.
func (m *Manager) TickNumber() uint64 {
	return m.scheduler.Tick()
}

// Shutdown closes every open fake inventory and stops the tick loop.
// Closing waits for at most one second; queued work is dropped afterwards.
func (m *Manager) Shutdown() {
	done := make(chan struct{})
	if m.Exec(func() {
		defer close(done)
		m.closeAll()
	}) {
		select {
		case <-done:
		case <-time.After(time.Second):
			m.log.Warn("fakeinv: timed out closing inventories on shutdown")
		}
	}
	m.scheduler.Stop()
}

// closeAll closes every bound inventory for its viewers.
func (m *Manager) closeAll() {
	m.bindingsMu.RLock()
	names := make([]string, 0, len(m.bindings))
	for name := range m.bindings {
		names = append(names, name)
	}
	m.bindingsMu.RUnlock()

	for _, name := range names {
		inv, ok := m.Binding(name)
		if !ok {
			continue
		}
		if v, ok := m.viewers.Viewer(name); ok {
			inv.Close(v)
			continue
		}
		inv.detach(name)
	}
}

// Exec runs fn on the tick loop during the current tick.
// It returns false if the loop is not running.
func (m *Manager) Exec(fn func()) bool {
	return m.scheduler.schedule("", TaskFunc(fn), Default, 0)
}

// ExecFor resolves the named viewer on the tick loop during the current tick
// and passes it to fn. fn is skipped if the viewer cannot be resolved.
func (m *Manager) ExecFor(name string, fn func(v Viewer)) bool {
	return m.scheduler.schedule(name, m.viewerTask(name, fn), Default, 0)
}

// Defer runs fn on the tick loop in stage of the next tick.
// It returns false if the loop is not running.
func (m *Manager) Defer(stage Stage, fn func()) bool {
	return m.scheduler.schedule("", TaskFunc(fn), stage, 1)
}

// DeferFor resolves the named viewer in stage of the next tick and passes it
// to fn. fn is skipped if the viewer is gone by then.
func (m *Manager) DeferFor(name string, stage Stage, fn func(v Viewer)) bool {
	return m.scheduler.schedule(name, m.viewerTask(name, fn), stage, 1)
}

// viewerTask wraps fn in a task resolving the named viewer when it runs.
func (m *Manager) viewerTask(name string, fn func(v Viewer)) TaskFunc {
	return func() {
		v, ok := m.viewers.Viewer(name)
		if !ok {
			m.log.Debug("fakeinv: viewer gone, skipping task", "viewer", name)
			return
		}
		fn(v)
	}
}

// resolve returns the viewers among names that can currently be resolved.
func (m *Manager) resolve(names []string) []Viewer {
	viewers := make([]Viewer, 0, len(names))
	for _, name := range names {
		if v, ok := m.viewers.Viewer(name); ok {
			viewers = append(viewers, v)
		}
	}
	return viewers
}

// Binding returns the fake inventory the named viewer has open.
func (m *Manager) Binding(name string) (*Inventory, bool) {
	m.bindingsMu.RLock()
	defer m.bindingsMu.RUnlock()
	inv, ok := m.bindings[name]
	return inv, ok
}

// Bound returns the number of viewers with a fake inventory open.
func (m *Manager) Bound() int {
	m.bindingsMu.RLock()
	defer m.bindingsMu.RUnlock()
	return len(m.bindings)
}

// bind records inv as the named viewer's open inventory.
func (m *Manager) bind(name string, inv *Inventory) {
	m.bindingsMu.Lock()
	m.bindings[name] = inv
	m.bindingsMu.Unlock()
}

// unbind clears the named viewer's binding if it points at inv.
func (m *Manager) unbind(name string, inv *Inventory) bool {
	m.bindingsMu.Lock()
	defer m.bindingsMu.Unlock()
	if m.bindings[name] != inv {
		return false
	}
	delete(m.bindings, name)
	return true
}

// OpenNamed opens inv for the named viewers on the current tick. Names that
// cannot be resolved are skipped.
func (m *Manager) OpenNamed(inv *Inventory, names ...string) bool {
	return m.Exec(func() {
		if viewers := m.resolve(names); len(viewers) > 0 {
			inv.Open(viewers...)
		}
	})
}

// CloseNamed closes whatever fake inventory the named viewer has open.
func (m *Manager) CloseNamed(name string) bool {
	return m.ExecFor(name, func(v Viewer) {
		if inv, ok := m.Binding(name); ok {
			inv.Close(v)
		}
	})
}

// TransitionNamed moves the named viewer from their open fake inventory to
// next. A viewer with nothing open gets next opened directly.
func (m *Manager) TransitionNamed(name string, next *Inventory) bool {
	return m.ExecFor(name, func(v Viewer) {
		if inv, ok := m.Binding(name); ok {
			inv.Transition(v, next)
			return
		}
		next.Open(v)
	})
}

// forget drops the named viewer's binding without reverting anything. It is
// used when the client is gone.
func (m *Manager) forget(name string) {
	if inv, ok := m.Binding(name); ok {
		inv.detach(name)
		m.log.Debug("fakeinv: dropped binding", "inventory", inv.id, "viewer", name)
	}
}
