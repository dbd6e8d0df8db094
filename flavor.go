package fakeinv

import (
	"github.com/df-mc/dragonfly/server/item"
)

// Flavor defines what a fake inventory contains and which clicks it accepts.
// Concrete menus, shops and dialogs are flavors.
type Flavor interface {
	// Populate fills the inventory. It is called once, when the inventory is
	// created.
	Populate(inv *Inventory)
	// OnTransaction is called when v clicks slot. source is the item in the
	// slot, target the item offered in exchange (empty when picking up).
	// Returning true applies the exchange; the window is resynced either way.
	OnTransaction(inv *Inventory, v Viewer, source, target item.Stack, slot int) bool
}

// Opener is implemented by flavors that need to act when a viewer opens the
// inventory. OnOpen runs after the window has been opened for v.
type Opener interface {
	OnOpen(inv *Inventory, v Viewer)
}

// Closer is implemented by flavors that need cleanup when a viewer closes the
// inventory. OnClose runs before the viewer binding is cleared.
type Closer interface {
	OnClose(inv *Inventory, v Viewer)
}

// FlavorFuncs builds a Flavor out of plain functions. Nil functions are
// no-ops; a nil TransactionFunc rejects every click.
type FlavorFuncs struct {
	PopulateFunc    func(inv *Inventory)
	TransactionFunc func(inv *Inventory, v Viewer, source, target item.Stack, slot int) bool
}

// Populate implements Flavor.
func (f FlavorFuncs) Populate(inv *Inventory) {
	if f.PopulateFunc != nil {
		f.PopulateFunc(inv)
	}
}

// OnTransaction implements Flavor.
func (f FlavorFuncs) OnTransaction(inv *Inventory, v Viewer, source, target item.Stack, slot int) bool {
	if f.TransactionFunc == nil {
		return false
	}
	return f.TransactionFunc(inv, v, source, target, slot)
}

// PlayerInventory is implemented by viewers that can exchange items with the
// player's own inventory. Accepted clicks use it to move items across.
type PlayerInventory interface {
	// PlayerItem returns the item in the player's inventory slot.
	PlayerItem(slot int) item.Stack
	// SetPlayerItem replaces the item in the player's inventory slot.
	SetPlayerItem(slot int, it item.Stack)
	// GiveItem adds it to the player's inventory, dropping what doesn't fit.
	GiveItem(it item.Stack)
}
