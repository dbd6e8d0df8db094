package fakeinv

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// Viewer is a player a fake inventory is shown to.
//
// A Viewer is a snapshot taken on the tick loop: Position and Rotation
// describe the player at the moment the viewer was resolved, while Block and
// the write methods reach the live world and connection.
type Viewer interface {
	// Name returns the player's name. It is the key of the viewer registry.
	Name() string
	// Position returns the player's position.
	Position() mgl64.Vec3
	// Rotation returns the player's rotation. Only the yaw is used.
	Rotation() cube.Rotation
	// World returns the world the player is in. It may be nil for viewers
	// that are not backed by a Dragonfly world.
	World() *world.World
	// Block returns the real block at pos in the player's world.
	Block(pos cube.Pos) world.Block

	// WritePackets sends packets to the player's client in order. Writes are
	// fire-and-forget.
	WritePackets(pks ...packet.Packet)
	// OpenWindow opens the inventory's container window on the client. The
	// illusion has already been drawn at inv.Holder().
	OpenWindow(inv *Inventory)
	// CloseWindow closes the inventory's window if it is still open on the
	// client. It is a no-op if the client closed it itself.
	CloseWindow(inv *Inventory)
	// SyncSlots resends the given slots of an open window.
	SyncSlots(inv *Inventory, slots []int)
}

// ViewerSource resolves viewers by name at the time a task runs.
// Deferred work never holds on to a Viewer across ticks; it resolves a fresh
// one, so a player who left in the meantime is simply skipped.
type ViewerSource interface {
	Viewer(name string) (Viewer, bool)
}

// ViewerSourceFunc adapts a function to ViewerSource.
type ViewerSourceFunc func(name string) (Viewer, bool)

// Viewer calls f.
func (f ViewerSourceFunc) Viewer(name string) (Viewer, bool) {
	return f(name)
}
