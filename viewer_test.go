package fakeinv

import (
	"io"
	"log/slog"
	"testing"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

const (
	airRuntimeID uint32 = iota
	chestRuntimeID
	stoneRuntimeID
)

func testRuntimeID(b world.Block) uint32 {
	switch b.(type) {
	case block.Chest:
		return chestRuntimeID
	case block.Stone:
		return stoneRuntimeID
	default:
		return airRuntimeID
	}
}

// testViewer records everything sent to it.
type testViewer struct {
	name   string
	pos    mgl64.Vec3
	yaw    float64
	blocks map[cube.Pos]world.Block

	packets []packet.Packet
	opened  []*Inventory
	closed  []*Inventory
	synced  [][]int
}

func newTestViewer(name string, pos mgl64.Vec3, yaw float64) *testViewer {
	return &testViewer{name: name, pos: pos, yaw: yaw, blocks: make(map[cube.Pos]world.Block)}
}

func (v *testViewer) Name() string            { return v.name }
func (v *testViewer) Position() mgl64.Vec3    { return v.pos }
func (v *testViewer) Rotation() cube.Rotation { return cube.Rotation{v.yaw, 0} }
func (v *testViewer) World() *world.World     { return nil }

func (v *testViewer) Block(pos cube.Pos) world.Block {
	if b, ok := v.blocks[pos]; ok {
		return b
	}
	return block.Air{}
}

func (v *testViewer) WritePackets(pks ...packet.Packet) { v.packets = append(v.packets, pks...) }
func (v *testViewer) OpenWindow(inv *Inventory)         { v.opened = append(v.opened, inv) }
func (v *testViewer) CloseWindow(inv *Inventory)        { v.closed = append(v.closed, inv) }

func (v *testViewer) SyncSlots(_ *Inventory, slots []int) {
	v.synced = append(v.synced, append([]int(nil), slots...))
}

// blockUpdates returns the positions updated to runtimeID, in order.
func (v *testViewer) blockUpdates(runtimeID uint32) []cube.Pos {
	var positions []cube.Pos
	for _, pk := range v.packets {
		if u, ok := pk.(*packet.UpdateBlock); ok && u.NewBlockRuntimeID == runtimeID {
			positions = append(positions, cube.Pos{int(u.Position[0]), int(u.Position[1]), int(u.Position[2])})
		}
	}
	return positions
}

func (v *testViewer) reset() {
	v.packets, v.opened, v.closed, v.synced = nil, nil, nil, nil
}

// inventoryViewer is a testViewer with a player inventory.
type inventoryViewer struct {
	*testViewer
	items map[int]item.Stack
	given []item.Stack
}

func (v *inventoryViewer) PlayerItem(slot int) item.Stack        { return v.items[slot] }
func (v *inventoryViewer) SetPlayerItem(slot int, it item.Stack) { v.items[slot] = it }
func (v *inventoryViewer) GiveItem(it item.Stack)                { v.given = append(v.given, it) }

// harness drives a Manager without its goroutine.
type harness struct {
	t       *testing.T
	m       *Manager
	viewers map[string]Viewer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, viewers: make(map[string]Viewer)}
	h.m = NewBuilder().
		Logger(slog.New(slog.NewTextHandler(io.Discard, nil))).
		Viewers(ViewerSourceFunc(func(name string) (Viewer, bool) {
			v, ok := h.viewers[name]
			return v, ok
		})).
		BlockRuntimeIDs(testRuntimeID).
		Build()
	h.m.scheduler.running.Store(true)
	return h
}

func (h *harness) add(v Viewer) {
	h.viewers[v.Name()] = v
}

func (h *harness) remove(name string) {
	delete(h.viewers, name)
}

// tick advances to the next tick and runs everything due.
func (h *harness) tick() {
	h.m.scheduler.tick()
}

// flush runs work posted for the current tick.
func (h *harness) flush() {
	h.m.scheduler.processTasks(h.m.scheduler.Tick())
}
