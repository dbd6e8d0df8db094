package fakeinv

import (
	"math/bits"
)

// SlotMask is a 256-bit set of slot indices.
// It is used for fill patterns and for tracking slots that changed since the
// last sync. Indices outside [0, 256) are ignored.
type SlotMask [4]uint64

// Pattern returns a mask with the given slots set.
func Pattern(slots ...int) SlotMask {
	var m SlotMask
	for _, slot := range slots {
		m.Set(slot)
	}
	return m
}

// Row returns a mask covering every slot of the given 1-based row of a
// 9-column layout.
func Row(y int) SlotMask {
	var m SlotMask
	for x := 1; x <= 9; x++ {
		m.Set(SlotAt(x, y))
	}
	return m
}

// Column returns a mask covering the given 1-based column for the first
// rows rows of a 9-column layout.
func Column(x, rows int) SlotMask {
	var m SlotMask
	for y := 1; y <= rows; y++ {
		m.Set(SlotAt(x, y))
	}
	return m
}

// Border returns a mask covering the outer ring of a 9-column layout with
// the given number of rows.
func Border(rows int) SlotMask {
	return Row(1).Or(Row(rows)).Or(Column(1, rows)).Or(Column(9, rows))
}

// Set sets the bit for the given slot.
func (m *SlotMask) Set(slot int) {
	if slot < 0 || slot >= 256 {
		return
	}
	m[slot/64] |= 1 << (slot % 64)
}

// Clear clears the bit for the given slot.
func (m *SlotMask) Clear(slot int) {
	if slot < 0 || slot >= 256 {
		return
	}
	m[slot/64] &^= 1 << (slot % 64)
}

// Has returns true if the bit for the given slot is set.
func (m SlotMask) Has(slot int) bool {
	if slot < 0 || slot >= 256 {
		return false
	}
	return m[slot/64]&(1<<(slot%64)) != 0
}

// ContainsAll returns true if all bits set in other are also set in m.
func (m SlotMask) ContainsAll(other SlotMask) bool {
	return (m[0]&other[0] == other[0]) &&
		(m[1]&other[1] == other[1]) &&
		(m[2]&other[2] == other[2]) &&
		(m[3]&other[3] == other[3])
}

// ContainsAny returns true if any bit set in other is also set in m.
func (m SlotMask) ContainsAny(other SlotMask) bool {
	return (m[0]&other[0] != 0) ||
		(m[1]&other[1] != 0) ||
		(m[2]&other[2] != 0) ||
		(m[3]&other[3] != 0)
}

// IsZero returns true if no bits are set.
func (m SlotMask) IsZero() bool {
	return m[0] == 0 && m[1] == 0 && m[2] == 0 && m[3] == 0
}

// Or returns a new mask with bits set from both m and other.
func (m SlotMask) Or(other SlotMask) SlotMask {
	return SlotMask{
		m[0] | other[0],
		m[1] | other[1],
		m[2] | other[2],
		m[3] | other[3],
	}
}

// AndNot returns a new mask with bits set in m but not in other.
func (m SlotMask) AndNot(other SlotMask) SlotMask {
	return SlotMask{
		m[0] &^ other[0],
		m[1] &^ other[1],
		m[2] &^ other[2],
		m[3] &^ other[3],
	}
}

// Count returns the number of bits set.
func (m SlotMask) Count() int {
	return bits.OnesCount64(m[0]) +
		bits.OnesCount64(m[1]) +
		bits.OnesCount64(m[2]) +
		bits.OnesCount64(m[3])
}

// Slots returns the set slot indices in ascending order.
func (m SlotMask) Slots() []int {
	slots := make([]int, 0, m.Count())
	for word := range m {
		w := m[word]
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			slots = append(slots, word*64+bit)
			w &= w - 1
		}
	}
	return slots
}
