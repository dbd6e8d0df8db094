package fakeinv

import (
	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// chestBlock is the block drawn for every illusory chest.
var chestBlock world.Block = block.NewChest()

// blockPos converts a cube.Pos to its network representation.
func blockPos(pos cube.Pos) protocol.BlockPos {
	return protocol.BlockPos{int32(pos[0]), int32(pos[1]), int32(pos[2])}
}

// blockPacket returns a client-only block change of pos to b.
func (m *Manager) blockPacket(pos cube.Pos, b world.Block) *packet.UpdateBlock {
	return &packet.UpdateBlock{
		Position:          blockPos(pos),
		NewBlockRuntimeID: m.runtimeID(b),
		Flags:             packet.BlockUpdateNetwork,
	}
}

// chestActorPacket returns the block actor data naming the chest at pos.
// A non-nil pair links the chest with a second one into a double chest.
func chestActorPacket(pos cube.Pos, title string, pair *cube.Pos) *packet.BlockActorData {
	data := map[string]any{
		"id":         "Chest",
		"x":          int32(pos[0]),
		"y":          int32(pos[1]),
		"z":          int32(pos[2]),
		"CustomName": title,
	}
	if pair != nil {
		data["pairx"] = int32(pair[0])
		data["pairz"] = int32(pair[2])
		data["pairlead"] = uint8(1)
	}
	return &packet.BlockActorData{
		Position: blockPos(pos),
		NBTData:  data,
	}
}

// draw sends the chest illusion at base to every viewer and records the drawn
// positions. Positions are appended: drawing twice without a close in
// between leaves the earlier positions on the list.
func (inv *Inventory) draw(viewers []Viewer, base cube.Pos) {
	pks := []packet.Packet{inv.manager.blockPacket(base, chestBlock)}
	inv.chests = append(inv.chests, base)

	var pair *cube.Pos
	if inv.size == LargeChest {
		second := base.Add(cube.Pos{1, 0, 0})
		pair = &second
		inv.chests = append(inv.chests, second)
		pks = append(pks, inv.manager.blockPacket(second, chestBlock))
	}
	pks = append(pks, chestActorPacket(base, inv.title, pair))

	for _, v := range viewers {
		v.WritePackets(pks...)
	}
}

// redrawTitle resends the block actor data of the primary chest so a title
// change shows up in open windows.
func (inv *Inventory) redrawTitle(viewers []Viewer) {
	if len(inv.chests) == 0 {
		return
	}
	base := inv.chests[0]
	var pair *cube.Pos
	if inv.size == LargeChest && len(inv.chests) > 1 {
		pair = &inv.chests[1]
	}
	pk := chestActorPacket(base, inv.title, pair)
	for _, v := range viewers {
		v.WritePackets(pk)
	}
}

// revert resends the real blocks at every drawn position to v, undoing the
// illusion. Positions listed in skip are left alone. It is safe to call more
// than once.
func (inv *Inventory) revert(v Viewer, positions []cube.Pos, skip []cube.Pos) {
	pks := make([]packet.Packet, 0, len(positions))
	for _, pos := range positions {
		if containsPos(skip, pos) {
			continue
		}
		b := v.Block(pos)
		pks = append(pks, inv.manager.blockPacket(pos, b))

		if nbter, ok := b.(world.NBTer); ok {
			data := nbter.EncodeNBT()
			data["x"], data["y"], data["z"] = int32(pos[0]), int32(pos[1]), int32(pos[2])
			pks = append(pks, &packet.BlockActorData{Position: blockPos(pos), NBTData: data})
		}
	}
	if len(pks) > 0 {
		v.WritePackets(pks...)
	}
}

// containsPos reports whether pos is in list.
func containsPos(list []cube.Pos, pos cube.Pos) bool {
	for _, p := range list {
		if p == pos {
			return true
		}
	}
	return false
}
