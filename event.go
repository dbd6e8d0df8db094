package fakeinv

import (
	"github.com/df-mc/dragonfly/server/item"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// ClickAction is the kind of stack request a click came from.
type ClickAction int

const (
	// ClickTake moves an item out of the fake inventory.
	ClickTake ClickAction = iota
	// ClickPlace moves an item into the fake inventory.
	ClickPlace
	// ClickSwap exchanges an item of the fake inventory with another stack.
	ClickSwap
	// ClickDrop throws an item of the fake inventory on the ground.
	ClickDrop
)

// String returns the string representation of the click action.
func (a ClickAction) String() string {
	switch a {
	case ClickTake:
		return "Take"
	case ClickPlace:
		return "Place"
	case ClickSwap:
		return "Swap"
	case ClickDrop:
		return "Drop"
	default:
		return "Unknown"
	}
}

// Click is a single client action on a slot of a fake inventory.
// Clicks decouple flavors from the network stack request format.
type Click struct {
	Action ClickAction
	// Slot is the slot of the fake inventory.
	Slot int
	// OtherSlot is the slot of the player's inventory on the other side of
	// the action, or -1 if the other side is the cursor or unknown.
	OtherSlot int
	// Count is the number of items the client asked to move.
	Count int
	// Target is the item offered in exchange for the slot's contents.
	Target item.Stack
}

// fakeContainer is the container ID the client uses for slots of a chest
// window.
const fakeContainer = protocol.ContainerLevelEntity

// isFakeSlot reports whether a stack request slot belongs to the fake window.
func isFakeSlot(info protocol.StackRequestSlotInfo) bool {
	return info.Container.ContainerID == fakeContainer
}

// playerSlot returns the player inventory slot of info, or -1 if info is not
// part of the player's inventory.
func playerSlot(info protocol.StackRequestSlotInfo) int {
	switch info.Container.ContainerID {
	case protocol.ContainerHotBar, protocol.ContainerInventory, protocol.ContainerCombinedHotBarAndInventory:
		return int(info.Slot)
	default:
		return -1
	}
}

// clicksFromRequest extracts the clicks on the fake window from a stack
// request. A request with no such clicks yields nil.
func clicksFromRequest(req protocol.ItemStackRequest) []Click {
	var clicks []Click
	transfer := func(action ClickAction, count byte, src, dst protocol.StackRequestSlotInfo) {
		switch {
		case isFakeSlot(src):
			clicks = append(clicks, Click{Action: action, Slot: int(src.Slot), OtherSlot: playerSlot(dst), Count: int(count)})
		case isFakeSlot(dst):
			clicks = append(clicks, Click{Action: action, Slot: int(dst.Slot), OtherSlot: playerSlot(src), Count: int(count)})
		}
	}

	for _, a := range req.Actions {
		switch act := a.(type) {
		case *protocol.TakeStackRequestAction:
			transfer(ClickTake, act.Count, act.Source, act.Destination)
		case *protocol.PlaceStackRequestAction:
			transfer(ClickPlace, act.Count, act.Source, act.Destination)
		case *protocol.SwapStackRequestAction:
			transfer(ClickSwap, 0, act.Source, act.Destination)
		case *protocol.DropStackRequestAction:
			if isFakeSlot(act.Source) {
				clicks = append(clicks, Click{Action: ClickDrop, Slot: int(act.Source.Slot), OtherSlot: -1, Count: int(act.Count)})
			}
		}
	}
	return clicks
}
