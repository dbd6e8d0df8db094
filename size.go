package fakeinv

import "strconv"

// Size is the slot count of a fake inventory. Only chest sizes are valid.
type Size int

const (
	// SmallChest is a single chest: three rows of nine slots.
	SmallChest Size = 27
	// LargeChest is a double chest: six rows of nine slots. It is rendered
	// with two paired chest blocks.
	LargeChest Size = 54
)

// Rows returns the number of 9-slot rows of the size.
func (s Size) Rows() int {
	return int(s) / 9
}

// Valid reports whether s is one of the supported sizes.
func (s Size) Valid() bool {
	return s == SmallChest || s == LargeChest
}

// String returns the string representation of the size.
func (s Size) String() string {
	switch s {
	case SmallChest:
		return "SmallChest"
	case LargeChest:
		return "LargeChest"
	default:
		return "Size(" + strconv.Itoa(int(s)) + ")"
	}
}
