package fakeinv

import (
	"sync"
	_ "unsafe" // for go:linkname

	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/session"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// Window IDs for fake windows. Dragonfly assigns its own windows IDs below
// 100, and the fixed client windows start at 119.
const (
	firstWindowID byte = 100
	lastWindowID  byte = 109
)

// Conn wraps a player's network connection. It sends the illusion packets and
// takes the fake window's close and item stack requests off the packet stream
// before Dragonfly sees them.
type Conn struct {
	session.Conn

	manager *Manager
	name    string

	mu       sync.Mutex
	window   *Inventory
	windowID byte
	nextID   byte
}

// wrapConn wraps conn and registers it under the player's display name.
func (m *Manager) wrapConn(conn session.Conn) *Conn {
	c := &Conn{
		Conn:    conn,
		manager: m,
		name:    conn.IdentityData().DisplayName,
		nextID:  firstWindowID,
	}
	m.connsMu.Lock()
	m.conns[c.name] = c
	m.connsMu.Unlock()
	return c
}

// conn returns the wrapped connection of the named player.
func (m *Manager) conn(name string) *Conn {
	m.connsMu.RLock()
	defer m.connsMu.RUnlock()
	return m.conns[name]
}

// dropConn removes c from the registry if it is still the registered
// connection for its name.
func (m *Manager) dropConn(c *Conn) {
	m.connsMu.Lock()
	if m.conns[c.name] == c {
		delete(m.conns, c.name)
	}
	m.connsMu.Unlock()
}

// ReadPacket reads the next packet that is not meant for the fake window.
func (c *Conn) ReadPacket() (packet.Packet, error) {
	for {
		pk, err := c.Conn.ReadPacket()
		if err != nil {
			c.manager.dropConn(c)
			return nil, err
		}
		if !c.intercept(pk) {
			return pk, nil
		}
	}
}

// Close removes the connection from the registry and closes it.
func (c *Conn) Close() error {
	c.manager.dropConn(c)
	return c.Conn.Close()
}

// intercept handles pk if it concerns the fake window. It reports whether pk
// was consumed.
func (c *Conn) intercept(pk packet.Packet) bool {
	switch pk := pk.(type) {
	case *packet.ContainerClose:
		return c.handleContainerClose(pk)
	case *packet.ItemStackRequest:
		return c.handleItemStackRequest(pk)
	}
	return false
}

// current returns the open fake window and its ID.
func (c *Conn) current() (*Inventory, byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.window, c.windowID, c.window != nil
}

// handleContainerClose acknowledges the client closing the fake window and
// closes the inventory on the tick loop.
func (c *Conn) handleContainerClose(pk *packet.ContainerClose) bool {
	c.mu.Lock()
	inv := c.window
	if inv == nil || pk.WindowID != c.windowID {
		c.mu.Unlock()
		return false
	}
	c.window = nil
	c.mu.Unlock()

	c.write(&packet.ContainerClose{WindowID: pk.WindowID, ServerSide: false})
	c.manager.ExecFor(c.name, func(v Viewer) {
		if cur, ok := c.manager.Binding(c.name); ok && cur == inv {
			inv.Close(v)
		}
	})
	return true
}

// handleItemStackRequest rejects every request touching the fake window and
// hands its clicks to the inventory. Other requests are passed on.
func (c *Conn) handleItemStackRequest(pk *packet.ItemStackRequest) bool {
	inv, _, ok := c.current()
	if !ok {
		return false
	}

	var clicks []Click
	rejected := make([]protocol.ItemStackResponse, 0, len(pk.Requests))
	passed := pk.Requests[:0:0]
	for _, req := range pk.Requests {
		reqClicks := clicksFromRequest(req)
		if len(reqClicks) == 0 {
			passed = append(passed, req)
			continue
		}
		clicks = append(clicks, reqClicks...)
		rejected = append(rejected, protocol.ItemStackResponse{
			Status:    protocol.ItemStackResponseStatusError,
			RequestID: req.RequestID,
		})
	}
	if len(rejected) == 0 {
		return false
	}

	c.write(&packet.ItemStackResponse{Responses: rejected})
	c.manager.ExecFor(c.name, func(v Viewer) {
		for _, click := range clicks {
			if cur, ok := c.manager.Binding(c.name); !ok || cur != inv {
				break
			}
			inv.HandleClick(v, click)
		}
		c.clearCursor()
	})

	if len(passed) == 0 {
		return true
	}
	pk.Requests = passed
	return false
}

// openWindow opens inv's window on the client, replacing any fake window
// still open.
func (c *Conn) openWindow(inv *Inventory) {
	c.mu.Lock()
	id := c.nextID
	if c.nextID++; c.nextID > lastWindowID {
		c.nextID = firstWindowID
	}
	c.window, c.windowID = inv, id
	c.mu.Unlock()

	contents := inv.Contents()
	instances := make([]protocol.ItemInstance, len(contents))
	for i, it := range contents {
		instances[i] = instanceFromItem(it)
	}
	c.write(
		&packet.ContainerOpen{
			WindowID:                id,
			ContainerType:           protocol.ContainerTypeContainer,
			ContainerPosition:       blockPos(inv.Holder().Pos),
			ContainerEntityUniqueID: -1,
		},
		&packet.InventoryContent{
			WindowID: uint32(id),
			Content:  instances,
		},
	)
}

// closeWindow closes inv's window if it is the open fake window.
func (c *Conn) closeWindow(inv *Inventory) {
	c.mu.Lock()
	if c.window != inv {
		c.mu.Unlock()
		return
	}
	id := c.windowID
	c.window = nil
	c.mu.Unlock()

	c.write(&packet.ContainerClose{WindowID: id, ServerSide: true})
}

// syncSlots resends slots of inv if it is the open fake window.
func (c *Conn) syncSlots(inv *Inventory, slots []int) {
	cur, id, ok := c.current()
	if !ok || cur != inv {
		return
	}
	pks := make([]packet.Packet, 0, len(slots))
	for _, slot := range slots {
		pks = append(pks, &packet.InventorySlot{
			WindowID: uint32(id),
			Slot:     uint32(slot),
			NewItem:  instanceFromItem(inv.Item(slot)),
		})
	}
	c.write(pks...)
}

// clearCursor empties the client's cursor, which may still hold a predicted
// item after a rejected request.
func (c *Conn) clearCursor() {
	c.write(&packet.InventorySlot{
		WindowID: protocol.WindowIDUI,
		Slot:     0,
		NewItem:  instanceFromItem(item.Stack{}),
	})
}

// write sends pks, logging failures.
func (c *Conn) write(pks ...packet.Packet) {
	for _, pk := range pks {
		if err := c.Conn.WritePacket(pk); err != nil {
			c.manager.log.Debug("fakeinv: write packet", "viewer", c.name, "error", err)
			return
		}
	}
}

// instanceFromItem converts an item stack to its network representation,
// using Dragonfly's own conversion so custom items and NBT match.
//
//go:linkname instanceFromItem github.com/df-mc/dragonfly/server/session.instanceFromItem
func instanceFromItem(it item.Stack) protocol.ItemInstance
