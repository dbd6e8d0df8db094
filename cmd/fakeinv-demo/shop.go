package main

import (
	"fmt"
	"strings"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/oriumgames/fakeinv"
)

// shopTitle is the title shown on every shop page.
var shopTitle = "Shop"

var products = []item.Stack{
	item.NewStack(item.Diamond{}, 1),
	item.NewStack(item.Emerald{}, 4),
	item.NewStack(item.GoldIngot{}, 8),
	item.NewStack(item.IronIngot{}, 16),
	item.NewStack(item.Apple{}, 16),
	item.NewStack(item.Bread{}, 16),
	item.NewStack(item.Coal{}, 32),
	item.NewStack(item.Stick{}, 64),
	item.NewStack(item.Feather{}, 16),
	item.NewStack(item.Bone{}, 16),
	item.NewStack(item.Book{}, 4),
	item.NewStack(item.Paper{}, 32),
}

// The first page is a small chest with one row of products. The second is a
// large chest framed by a border, so paging exercises size transitions.
var (
	firstPageSlots  = fakeinv.Row(2).AndNot(fakeinv.Border(fakeinv.SmallChest.Rows())).Slots()
	secondPageSlots = fakeinv.Pattern(allSlots(fakeinv.LargeChest)...).AndNot(fakeinv.Border(fakeinv.LargeChest.Rows())).Slots()

	nextSlot = fakeinv.SlotAt(9, 3)
	backSlot = fakeinv.SlotAt(1, 6)
)

func allSlots(size fakeinv.Size) []int {
	slots := make([]int, size)
	for i := range slots {
		slots[i] = i
	}
	return slots
}

// shopPage is a flavor listing one page of products.
type shopPage struct {
	m    *fakeinv.Manager
	page int
}

// newShopPage creates the inventory for page 0 or 1.
func newShopPage(m *fakeinv.Manager, page int) *fakeinv.Inventory {
	size := fakeinv.SmallChest
	if page > 0 {
		size = fakeinv.LargeChest
	}
	return m.NewInventory(shopPage{m: m, page: page},
		fakeinv.WithTitle(fmt.Sprintf("%s (%d/2)", shopTitle, page+1)),
		fakeinv.WithSize(size),
	)
}

// layout returns the slots products are shown in and the products shown.
func (s shopPage) layout() ([]int, []item.Stack) {
	if s.page == 0 {
		n := min(len(firstPageSlots), len(products))
		return firstPageSlots[:n], products[:n]
	}
	rest := products[min(len(firstPageSlots), len(products)):]
	n := min(len(secondPageSlots), len(rest))
	return secondPageSlots[:n], rest[:n]
}

// Populate implements fakeinv.Flavor.
func (s shopPage) Populate(inv *fakeinv.Inventory) {
	slots, stock := s.layout()
	for i, slot := range slots {
		inv.SetItem(slot, stock[i].WithCustomName("§e"+productName(stock[i])), true)
	}

	pane := item.NewStack(block.StainedGlassPane{Colour: item.ColourBlack()}, 1)
	inv.FillMask(fakeinv.Border(inv.Size().Rows()), pane)
	if s.page == 0 {
		inv.SetItem(nextSlot, item.NewStack(item.Arrow{}, 1).WithCustomName("Next page"), true)
	} else {
		inv.SetItem(backSlot, item.NewStack(item.Arrow{}, 1).WithCustomName("Previous page"), true)
	}
}

// OnTransaction implements fakeinv.Flavor. The shop never hands items out
// through the window itself.
func (s shopPage) OnTransaction(inv *fakeinv.Inventory, v fakeinv.Viewer, _, _ item.Stack, slot int) bool {
	switch {
	case s.page == 0 && slot == nextSlot:
		inv.Transition(v, newShopPage(s.m, 1))
	case s.page > 0 && slot == backSlot:
		inv.Transition(v, newShopPage(s.m, 0))
	default:
		slots, stock := s.layout()
		for i, productSlot := range slots {
			if productSlot == slot {
				inv.Transition(v, s.confirm(stock[i]))
				break
			}
		}
	}
	return false
}

// confirm returns a purchase dialog for product. Denying returns to this
// page.
func (s shopPage) confirm(product item.Stack) *fakeinv.Inventory {
	name := productName(product)
	return s.m.NewInventory(fakeinv.Confirm{
		Accept: "§aBuy " + name,
		Deny:   "§cBack",
		OnAccept: func(inv *fakeinv.Inventory, v fakeinv.Viewer) {
			if pi, ok := v.(fakeinv.PlayerInventory); ok {
				pi.GiveItem(product)
			}
		},
		OnDeny: func(inv *fakeinv.Inventory, v fakeinv.Viewer) {
			inv.Transition(v, newShopPage(s.m, s.page))
		},
	}, fakeinv.WithTitle("Buy "+name+"?"))
}

// productName returns a readable name such as "16x Gold Ingot".
func productName(it item.Stack) string {
	id, _ := it.Item().EncodeItem()
	words := strings.Split(strings.TrimPrefix(id, "minecraft:"), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return fmt.Sprintf("%dx %s", it.Count(), strings.Join(words, " "))
}

// shopCommand opens the shop for the player running it.
type shopCommand struct{}

// Run opens the first shop page.
func (shopCommand) Run(src cmd.Source, o *cmd.Output, _ *world.Tx) {
	p, m := fakeinv.Command(src)
	if p == nil || m == nil {
		o.Error("This command can only be run by players.")
		return
	}
	m.OpenFor(newShopPage(m, 0), p)
}
