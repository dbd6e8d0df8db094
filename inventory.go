package fakeinv

import (
	"slices"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

// Holder is the position a fake inventory is drawn at.
type Holder struct {
	Pos   cube.Pos
	World *world.World
}

// InventoryOptions configures an inventory at construction.
type InventoryOptions struct {
	// Title is the window title shown to viewers.
	Title string
	// Size is the slot count, SmallChest or LargeChest.
	Size Size
	// BehindPlayer draws a single viewer's chest behind them instead of at
	// their feet.
	BehindPlayer bool
}

// InventoryOption is a functional option for NewInventory.
type InventoryOption func(*InventoryOptions)

// WithTitle sets the window title.
func WithTitle(title string) InventoryOption {
	return func(o *InventoryOptions) {
		o.Title = title
	}
}

// WithSize sets the slot count.
func WithSize(size Size) InventoryOption {
	return func(o *InventoryOptions) {
		o.Size = size
	}
}

// WithBehindPlayer sets whether the chest is drawn behind a single viewer.
func WithBehindPlayer(behind bool) InventoryOption {
	return func(o *InventoryOptions) {
		o.BehindPlayer = behind
	}
}

// Inventory is a container window backed by a client-only chest illusion.
//
// An Inventory is owned by the tick loop of its Manager. Before it is opened
// it may be filled from any goroutine; once opened, its methods must only be
// called from the loop: flavor callbacks, or functions passed to
// Manager.Exec and friends.
type Inventory struct {
	id      uuid.UUID
	manager *Manager
	flavor  Flavor

	title  string
	size   Size
	behind bool

	slots []item.Stack

	// dirty holds slots changed since the last sync
	dirty      SlotMask
	titleDirty bool
	syncQueued bool

	viewers map[string]struct{}
	chests  []cube.Pos
	holder  Holder
	next    *Inventory
	closed  bool

	// transitionPending marks both ends of a transition that changes size.
	// Closing while it is set leaves the revert to the transition.
	transitionPending bool
	// revertDeferred is set for large chests: their close revert runs on
	// the next tick.
	revertDeferred bool
}

// NewInventory creates an inventory with the given flavor and populates it.
// It panics if the configured size is not SmallChest or LargeChest.
func (m *Manager) NewInventory(f Flavor, opts ...InventoryOption) *Inventory {
	options := InventoryOptions{
		Title:        "Fake Inventory",
		Size:         SmallChest,
		BehindPlayer: m.behind,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if !options.Size.Valid() {
		panic("fakeinv: invalid inventory size " + options.Size.String())
	}
	if f == nil {
		f = FlavorFuncs{}
	}

	inv := &Inventory{
		id:      uuid.New(),
		manager: m,
		flavor:  f,
		title:   options.Title,
		size:    options.Size,
		behind:  options.BehindPlayer,
		slots:   make([]item.Stack, options.Size),
		viewers: make(map[string]struct{}),
	}
	f.Populate(inv)
	return inv
}

// ID returns the inventory's unique identifier.
func (inv *Inventory) ID() uuid.UUID {
	return inv.id
}

// Manager returns the manager that owns the inventory.
func (inv *Inventory) Manager() *Manager {
	return inv.manager
}

// Flavor returns the inventory's flavor.
func (inv *Inventory) Flavor() Flavor {
	return inv.flavor
}

// Title returns the window title.
func (inv *Inventory) Title() string {
	return inv.title
}

// SetTitle changes the window title. Open windows are redrawn on the next
// tick.
func (inv *Inventory) SetTitle(title string) {
	if inv.title == title {
		return
	}
	inv.title = title
	inv.titleDirty = true
	inv.queueSync()
}

// Size returns the slot count.
func (inv *Inventory) Size() Size {
	return inv.size
}

// BehindPlayer reports whether a single viewer's chest is drawn behind them.
func (inv *Inventory) BehindPlayer() bool {
	return inv.behind
}

// Holder returns where the inventory was last drawn.
func (inv *Inventory) Holder() Holder {
	return inv.holder
}

// Closed reports whether the inventory was closed or handed off to a
// successor since it was last opened.
func (inv *Inventory) Closed() bool {
	return inv.closed
}

// Changing reports whether the illusion is mid-change: part of a pending
// transition, or a large chest whose revert runs on the next tick.
func (inv *Inventory) Changing() bool {
	return inv.transitionPending || inv.revertDeferred
}

// Next returns the inventory this one last transitioned to.
func (inv *Inventory) Next() (*Inventory, bool) {
	return inv.next, inv.next != nil
}

// Viewers returns the names of the viewers the inventory is open for.
func (inv *Inventory) Viewers() []string {
	names := make([]string, 0, len(inv.viewers))
	for name := range inv.viewers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Chests returns the positions the illusion is currently drawn at.
func (inv *Inventory) Chests() []cube.Pos {
	return slices.Clone(inv.chests)
}

// holderFor returns the holder the inventory would be drawn at for viewers.
func (inv *Inventory) holderFor(viewers []Viewer) Holder {
	return Holder{
		Pos:   ChestPosition(viewers, inv.behind).Add(holderOffset),
		World: viewers[0].World(),
	}
}

// Open draws the illusion and opens the window for viewers.
//
// Any fake inventory a viewer already has open, this one included, is closed
// first. The chest position is computed once for all viewers.
func (inv *Inventory) Open(viewers ...Viewer) {
	if len(viewers) == 0 {
		return
	}
	m := inv.manager

	for _, v := range viewers {
		if cur, ok := m.Binding(v.Name()); ok {
			cur.Close(v)
		}
	}
	if len(inv.viewers) == 0 {
		inv.chests = inv.chests[:0]
	}

	inv.closed = false
	inv.revertDeferred = inv.size == LargeChest
	inv.holder = inv.holderFor(viewers)
	inv.draw(viewers, inv.holder.Pos)
	inv.titleDirty = false

	for _, v := range viewers {
		name := v.Name()
		m.bind(name, inv)
		inv.viewers[name] = struct{}{}
		v.OpenWindow(inv)

		if o, ok := inv.flavor.(Opener); ok {
			o.OnOpen(inv, v)
		}
	}
	m.log.Debug("fakeinv: opened inventory",
		"inventory", inv.id,
		"title", inv.title,
		"size", inv.size,
		"viewers", len(viewers),
		"holder", inv.holder.Pos)
}

// Close closes the inventory for v and undoes the illusion on v's client.
//
// Small chests are reverted at once. Large chests are reverted on the next
// tick, keeping any position the viewer's next inventory has drawn over. An
// inventory in a size-changing transition leaves the revert to the
// transition.
func (inv *Inventory) Close(v Viewer) {
	m := inv.manager
	name := v.Name()

	inv.closed = true
	v.CloseWindow(inv)

	positions := slices.Clone(inv.chests)
	switch {
	case inv.transitionPending:
	case inv.revertDeferred:
		m.DeferFor(name, Before, func(v Viewer) {
			var skip []cube.Pos
			if cur, ok := m.Binding(v.Name()); ok {
				skip = cur.chests
			}
			inv.revert(v, positions, skip)
		})
	default:
		inv.revert(v, positions, nil)
	}

	if c, ok := inv.flavor.(Closer); ok {
		c.OnClose(inv, v)
	}
	inv.detach(name)

	m.Defer(After, func() {
		inv.transitionPending = false
		if len(inv.viewers) == 0 {
			inv.revertDeferred = false
		}
	})
	m.log.Debug("fakeinv: closed inventory", "inventory", inv.id, "viewer", name)
}

// detach drops the binding between the inventory and the named viewer
// without touching the client.
func (inv *Inventory) detach(name string) {
	inv.manager.unbind(name, inv)
	delete(inv.viewers, name)
	if len(inv.viewers) == 0 {
		inv.chests = inv.chests[:0]
	}
}

// Transition hands v over from this inventory to next.
//
// The current window stays open until next is opened on the next tick. The
// illusion is reverted first when next differs in size or would be drawn
// elsewhere.
func (inv *Inventory) Transition(v Viewer, next *Inventory) {
	if next == nil {
		inv.Close(v)
		return
	}
	m := inv.manager
	name := v.Name()

	inv.closed = true
	inv.next = next

	positions := slices.Clone(inv.chests)
	revert := func(v Viewer) {
		inv.revert(v, positions, nil)
	}

	switch {
	case inv.size != next.size:
		inv.transitionPending = true
		next.transitionPending = true
		m.DeferFor(name, Before, revert)
	case inv.holder != next.holderFor([]Viewer{v}):
		m.DeferFor(name, Before, revert)
	}

	m.DeferFor(name, Default, func(v Viewer) {
		next.Open(v)
		m.Defer(After, func() {
			next.transitionPending = false
		})
	})
	m.log.Debug("fakeinv: transition",
		"from", inv.id,
		"to", next.id,
		"viewer", name)
}

// HandleClick passes a click by v to the flavor and resyncs the window.
// If the flavor accepts, the slot is exchanged with the other side of the
// click. It reports whether the flavor accepted.
func (inv *Inventory) HandleClick(v Viewer, c Click) bool {
	if c.Slot < 0 || c.Slot >= len(inv.slots) {
		return false
	}
	source := inv.slots[c.Slot]
	target := c.Target
	pi, hasInv := v.(PlayerInventory)
	if hasInv && c.OtherSlot >= 0 && target.Empty() {
		target = pi.PlayerItem(c.OtherSlot)
	}

	accepted := inv.flavor.OnTransaction(inv, v, source, target, c.Slot)
	if accepted {
		switch {
		case !hasInv:
			inv.SetItem(c.Slot, target, false)
		case c.OtherSlot >= 0:
			pi.SetPlayerItem(c.OtherSlot, source)
			inv.SetItem(c.Slot, target, false)
		default:
			inv.SetItem(c.Slot, item.Stack{}, false)
			if !source.Empty() {
				pi.GiveItem(source)
			}
		}
	}
	if _, ok := inv.viewers[v.Name()]; ok {
		v.SyncSlots(inv, inv.allSlots())
	}

	m := inv.manager
	m.log.Debug("fakeinv: click",
		"inventory", inv.id,
		"viewer", v.Name(),
		"action", c.Action,
		"slot", c.Slot,
		"accepted", accepted)
	return accepted
}
