package fakeinv

import (
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/player/form"
)

// managerFromPlayer extracts the manager from a player's handler.
// Returns nil if the player doesn't have a fake inventory Handler.
func managerFromPlayer(p *player.Player) *Manager {
	h, ok := p.Handler().(*Handler)
	if !ok {
		return nil
	}
	return h.manager
}

// Command extracts the player and manager from a command source.
// Returns (nil, nil) if the source is not a player or has no Handler.
//
// Usage:
//
//	func (c ShopCommand) Run(src cmd.Source, out *cmd.Output, tx *world.Tx) {
//	    p, m := fakeinv.Command(src)
//	    if p == nil || m == nil {
//	        out.Error("Player-only command")
//	        return
//	    }
//	    m.OpenFor(m.NewInventory(shop{}), p)
//	}
//
// Concurrency:
// Commands run inside the world transaction. Opening through the manager only
// posts work to the tick loop and is safe here.
func Command(src cmd.Source) (*player.Player, *Manager) {
	p, ok := src.(*player.Player)
	if !ok {
		return nil, nil
	}
	return p, managerFromPlayer(p)
}

// Form extracts the player and manager from a form submitter.
// Returns (nil, nil) if the submitter is not a player or has no Handler.
func Form(sub form.Submitter) (*player.Player, *Manager) {
	p, ok := sub.(*player.Player)
	if !ok {
		return nil, nil
	}
	return p, managerFromPlayer(p)
}

// Item extracts the player and manager from an item user.
// Returns (nil, nil) if the user is not a player or has no Handler.
//
// Usage:
//
//	func (i MenuItem) Use(tx *world.Tx, user item.User, ctx *item.UseContext) bool {
//	    p, m := fakeinv.Item(user)
//	    if p == nil || m == nil {
//	        return false
//	    }
//	    return m.OpenFor(m.NewInventory(menu{}), p)
//	}
func Item(user item.User) (*player.Player, *Manager) {
	p, ok := user.(*player.Player)
	if !ok {
		return nil, nil
	}
	return p, managerFromPlayer(p)
}
