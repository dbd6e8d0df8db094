package fakeinv

import (
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
)

// Handler wraps a player.Handler and keeps fake inventories consistent with
// the player's lifecycle. Events it does not need are passed straight to the
// wrapped handler.
//
// Concurrency:
// Handlers run inside the player's world transaction, so Handler never waits
// on the tick loop. It only posts work to it.
type Handler struct {
	player.Handler
	manager *Manager
}

// NewHandler wraps inner, which may be nil, in a Handler.
func (m *Manager) NewHandler(inner player.Handler) player.Handler {
	if inner == nil {
		inner = player.NopHandler{}
	}
	return &Handler{Handler: inner, manager: m}
}

// Compile-time check that Handler implements player.Handler.
var _ player.Handler = (*Handler)(nil)

// HandleChangeWorld closes the open fake inventory, whose illusion belongs to
// the old world.
func (h *Handler) HandleChangeWorld(p *player.Player, before, after *world.World) {
	h.manager.CloseFor(p)
	h.Handler.HandleChangeWorld(p, before, after)
}

// HandleDeath closes the open fake inventory.
func (h *Handler) HandleDeath(p *player.Player, src world.DamageSource, keepInv *bool) {
	h.manager.CloseFor(p)
	h.Handler.HandleDeath(p, src, keepInv)
}

// HandleQuit drops the player's binding and registry entry. Nothing is sent,
// the client is gone.
func (h *Handler) HandleQuit(p *player.Player) {
	m, name := h.manager, p.Name()
	if !m.Exec(func() {
		m.forget(name)
		m.Untrack(name)
	}) {
		m.Untrack(name)
	}
	h.Handler.HandleQuit(p)
}
