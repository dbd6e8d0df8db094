package fakeinv

import (
	"github.com/df-mc/dragonfly/server/item"
)

// resetFormat is prepended to custom names so viewers see them without the
// client's default italic style.
const resetFormat = "§r"

// fillerName is the custom name given to filler items. A single space hides
// the item name in the tooltip.
const fillerName = " "

// SlotAt returns the slot index of the 1-based column x and row y.
// Columns run 1-9; there are Size.Rows() rows.
func SlotAt(x, y int) int {
	return 9*y - (9 - x) - 1
}

// SlotAt returns the slot index of the 1-based column x and row y.
func (inv *Inventory) SlotAt(x, y int) int {
	return SlotAt(x, y)
}

// Item returns the item in slot.
func (inv *Inventory) Item(slot int) item.Stack {
	return inv.slots[slot]
}

// SetItem places it in slot. With reset, a custom name on it gets the
// formatting reset prefix.
func (inv *Inventory) SetItem(slot int, it item.Stack, reset bool) {
	if reset && !it.Empty() {
		if name := it.CustomName(); name != "" {
			it = it.WithCustomName(resetFormat + name)
		}
	}
	inv.slots[slot] = it
	inv.markDirty(slot)
}

// ItemAt returns the item at column x, row y.
func (inv *Inventory) ItemAt(x, y int) item.Stack {
	return inv.Item(SlotAt(x, y))
}

// SetItemAt places it at column x, row y with the formatting reset applied.
func (inv *Inventory) SetItemAt(x, y int, it item.Stack) {
	inv.SetItem(SlotAt(x, y), it, true)
}

// Fill places a copy of it, renamed to a blank name, in every empty slot.
func (inv *Inventory) Fill(it item.Stack) {
	filler := it.WithCustomName(fillerName)
	for slot, cur := range inv.slots {
		if cur.Empty() {
			inv.SetItem(slot, filler, false)
		}
	}
}

// FillWithPattern places a copy of it, renamed to a blank name, in each of
// the given slots, overwriting what was there.
func (inv *Inventory) FillWithPattern(pattern []int, it item.Stack) {
	filler := it.WithCustomName(fillerName)
	for _, slot := range pattern {
		inv.SetItem(slot, filler, false)
	}
}

// FillMask is FillWithPattern for a SlotMask. Slots beyond the inventory
// size are ignored.
func (inv *Inventory) FillMask(mask SlotMask, it item.Stack) {
	filler := it.WithCustomName(fillerName)
	for _, slot := range mask.Slots() {
		if slot < len(inv.slots) {
			inv.SetItem(slot, filler, false)
		}
	}
}

// Clear empties slot.
func (inv *Inventory) Clear(slot int) {
	inv.SetItem(slot, item.Stack{}, false)
}

// ClearAll empties every slot.
func (inv *Inventory) ClearAll() {
	for slot := range inv.slots {
		inv.SetItem(slot, item.Stack{}, false)
	}
}

// Contents returns a copy of every slot.
func (inv *Inventory) Contents() []item.Stack {
	contents := make([]item.Stack, len(inv.slots))
	copy(contents, inv.slots)
	return contents
}

// Empty returns the slots that hold no item.
func (inv *Inventory) Empty() SlotMask {
	var mask SlotMask
	for slot, it := range inv.slots {
		if it.Empty() {
			mask.Set(slot)
		}
	}
	return mask
}

// allSlots returns every slot index of the inventory.
func (inv *Inventory) allSlots() []int {
	slots := make([]int, len(inv.slots))
	for i := range slots {
		slots[i] = i
	}
	return slots
}

// markDirty records a slot change for the next sync. Changes before the
// inventory is open are picked up by the window contents on open.
func (inv *Inventory) markDirty(slot int) {
	if len(inv.viewers) == 0 {
		return
	}
	inv.dirty.Set(slot)
	inv.queueSync()
}

// queueSync schedules a sync of changed slots and title for the After stage
// of the next tick.
func (inv *Inventory) queueSync() {
	if inv.syncQueued || len(inv.viewers) == 0 {
		return
	}
	if inv.manager.Defer(After, inv.sync) {
		inv.syncQueued = true
	}
}

// sync sends pending slot and title changes to every viewer.
func (inv *Inventory) sync() {
	inv.syncQueued = false
	slots := inv.dirty.Slots()
	title := inv.titleDirty
	inv.dirty = SlotMask{}
	inv.titleDirty = false

	if len(slots) == 0 && !title {
		return
	}
	viewers := inv.manager.resolve(inv.Viewers())
	if title {
		inv.redrawTitle(viewers)
	}
	if len(slots) > 0 {
		for _, v := range viewers {
			v.SyncSlots(inv, slots)
		}
	}
}
