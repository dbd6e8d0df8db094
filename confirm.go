package fakeinv

import (
	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/item"
)

// Confirm is a yes/no dialog flavor. The accept button sits in column 3 and
// the deny button in column 7 of the middle row; every other slot is filler.
//
// Clicking a button calls the matching callback and then closes the
// inventory, unless the callback already closed it or moved the viewer on.
type Confirm struct {
	// Accept and Deny are the button labels.
	Accept, Deny string
	// OnAccept and OnDeny are called with the inventory and the viewer who
	// clicked. Either may be nil.
	OnAccept, OnDeny func(inv *Inventory, v Viewer)
}

var (
	confirmAcceptSlot = SlotAt(3, 2)
	confirmDenySlot   = SlotAt(7, 2)
)

// Populate implements Flavor.
func (c Confirm) Populate(inv *Inventory) {
	accept, deny := c.Accept, c.Deny
	if accept == "" {
		accept = "§aConfirm"
	}
	if deny == "" {
		deny = "§cCancel"
	}
	inv.SetItem(confirmAcceptSlot, item.NewStack(item.Dye{Colour: item.ColourLime()}, 1).WithCustomName(accept), true)
	inv.SetItem(confirmDenySlot, item.NewStack(item.Dye{Colour: item.ColourRed()}, 1).WithCustomName(deny), true)
	inv.Fill(item.NewStack(block.StainedGlassPane{Colour: item.ColourGrey()}, 1))
}

// OnTransaction implements Flavor. Clicks are never applied.
func (c Confirm) OnTransaction(inv *Inventory, v Viewer, _, _ item.Stack, slot int) bool {
	var fn func(inv *Inventory, v Viewer)
	switch slot {
	case confirmAcceptSlot:
		fn = c.OnAccept
	case confirmDenySlot:
		fn = c.OnDeny
	default:
		return false
	}
	if fn != nil {
		fn(inv, v)
	}
	if !inv.Closed() {
		inv.Close(v)
	}
	return false
}
