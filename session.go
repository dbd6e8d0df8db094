package fakeinv

import (
	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// Session is a Viewer backed by a Dragonfly player.
//
// It wraps the player's EntityHandle, which outlives transactions, together
// with a snapshot of the player's position, rotation and world taken when the
// session was resolved on the tick loop. Packets go through the player's
// wrapped Conn, so players must join through a Listener wrapped with
// WrapListeners for the illusion to show.
type Session struct {
	manager *Manager
	handle  *world.EntityHandle
	name    string
	conn    *Conn

	w   *world.World
	pos mgl64.Vec3
	rot cube.Rotation
}

// Compile-time checks that Session implements Viewer and PlayerInventory.
var (
	_ Viewer          = (*Session)(nil)
	_ PlayerInventory = (*Session)(nil)
)

// Track registers p so it can be resolved as a viewer by name.
// Call it when the player joins, before passing the handler from NewHandler.
func (m *Manager) Track(p *player.Player) {
	m.playersMu.Lock()
	m.players[p.Name()] = p.H()
	m.playersMu.Unlock()
}

// Untrack removes the named player from the registry.
func (m *Manager) Untrack(name string) {
	m.playersMu.Lock()
	delete(m.players, name)
	m.playersMu.Unlock()
}

// Tracked returns the number of tracked players.
func (m *Manager) Tracked() int {
	m.playersMu.RLock()
	defer m.playersMu.RUnlock()
	return len(m.players)
}

// sessionViewer resolves the named tracked player into a Session. It waits on
// the player's world and must not be called from within a transaction.
func (m *Manager) sessionViewer(name string) (Viewer, bool) {
	m.playersMu.RLock()
	handle, ok := m.players[name]
	m.playersMu.RUnlock()
	if !ok {
		return nil, false
	}

	s := &Session{manager: m, handle: handle, name: name, conn: m.conn(name)}
	found := s.Exec(func(tx *world.Tx, p *player.Player) {
		s.w = tx.World()
		s.pos = p.Position()
		s.rot = p.Rotation()
	})
	if !found || s.w == nil {
		return nil, false
	}
	return s, true
}

// Handle returns the underlying EntityHandle.
func (s *Session) Handle() *world.EntityHandle {
	return s.handle
}

// Exec runs a function within the player's world transaction.
// Returns false if the player is offline.
func (s *Session) Exec(fn func(tx *world.Tx, p *player.Player)) bool {
	return s.handle.ExecWorld(func(tx *world.Tx, e world.Entity) {
		p, ok := e.(*player.Player)
		if !ok {
			return
		}
		fn(tx, p)
	})
}

// Name returns the player's name.
func (s *Session) Name() string {
	return s.name
}

// Position returns the player's position when the session was resolved.
func (s *Session) Position() mgl64.Vec3 {
	return s.pos
}

// Rotation returns the player's rotation when the session was resolved.
func (s *Session) Rotation() cube.Rotation {
	return s.rot
}

// World returns the world the player was in when the session was resolved.
func (s *Session) World() *world.World {
	return s.w
}

// Block returns the real block at pos.
func (s *Session) Block(pos cube.Pos) world.Block {
	var b world.Block = block.Air{}
	if s.w == nil {
		return b
	}
	<-s.w.Exec(func(tx *world.Tx) {
		b = tx.Block(pos)
	})
	return b
}

// WritePackets sends pks over the player's wrapped connection.
func (s *Session) WritePackets(pks ...packet.Packet) {
	if s.conn == nil {
		s.manager.log.Warn("fakeinv: no wrapped connection, dropping packets", "viewer", s.name, "packets", len(pks))
		return
	}
	s.conn.write(pks...)
}

// OpenWindow opens the container window on the next tick, once the client
// has the illusion's block actor.
func (s *Session) OpenWindow(inv *Inventory) {
	if s.conn == nil {
		return
	}
	m, conn := s.manager, s.conn
	m.DeferFor(s.name, Default, func(Viewer) {
		if cur, ok := m.Binding(s.name); ok && cur == inv {
			conn.openWindow(inv)
		}
	})
}

// CloseWindow closes the container window if it is still open.
func (s *Session) CloseWindow(inv *Inventory) {
	if s.conn != nil {
		s.conn.closeWindow(inv)
	}
}

// SyncSlots resends slots of the open window.
func (s *Session) SyncSlots(inv *Inventory, slots []int) {
	if s.conn != nil {
		s.conn.syncSlots(inv, slots)
	}
}

// PlayerItem returns the item in the player's inventory slot.
func (s *Session) PlayerItem(slot int) item.Stack {
	var it item.Stack
	s.Exec(func(tx *world.Tx, p *player.Player) {
		it, _ = p.Inventory().Item(slot)
	})
	return it
}

// SetPlayerItem replaces the item in the player's inventory slot.
func (s *Session) SetPlayerItem(slot int, it item.Stack) {
	s.Exec(func(tx *world.Tx, p *player.Player) {
		if err := p.Inventory().SetItem(slot, it); err != nil {
			s.manager.log.Debug("fakeinv: set player item", "viewer", s.name, "slot", slot, "error", err)
		}
	})
}

// GiveItem adds it to the player's inventory and drops what doesn't fit.
func (s *Session) GiveItem(it item.Stack) {
	s.Exec(func(tx *world.Tx, p *player.Player) {
		n, _ := p.Inventory().AddItem(it)
		if rest := it.Grow(-n); !rest.Empty() {
			p.Drop(rest)
		}
	})
}

// OpenFor opens inv for players on the current tick.
// It is safe to call from within a transaction, such as a command's Run.
func (m *Manager) OpenFor(inv *Inventory, players ...*player.Player) bool {
	names := make([]string, 0, len(players))
	for _, p := range players {
		m.Track(p)
		names = append(names, p.Name())
	}
	return m.OpenNamed(inv, names...)
}

// CloseFor closes whatever fake inventory p has open.
func (m *Manager) CloseFor(p *player.Player) bool {
	return m.CloseNamed(p.Name())
}

// TransitionFor moves p from their open fake inventory to next.
func (m *Manager) TransitionFor(p *player.Player, next *Inventory) bool {
	m.Track(p)
	return m.TransitionNamed(p.Name(), next)
}
