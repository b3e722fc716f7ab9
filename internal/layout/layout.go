package layout

// Order names a logical-to-physical pixel ordering.
type Order string

const (
	// Progressive wires every row left to right.
	Progressive Order = "progressive"
	// Serpentine wires odd rows right to left.
	Serpentine Order = "serpentine"
)

// Known reports whether o is a supported ordering.
func Known(o Order) bool {
	return o == Progressive || o == Serpentine
}

// Mapper translates logical (row, col) positions of a W x H matrix into
// physical strip indices.
type Mapper struct {
	W, H  int
	Order Order
}

// Index maps row,col -> linear LED index (0..W*H-1).
func (m Mapper) Index(row, col int) int {
	c := col
	if m.Order == Serpentine && row%2 == 1 {
		c = m.W - 1 - col
	}
	return row*m.W + c
}

func (m Mapper) Count() int {
	return m.W * m.H
}

// MapInto reorders a logical row-major RGB buffer into physical strip order.
// Both slices must hold Count()*3 bytes.
func (m Mapper) MapInto(dst, src []byte) {
	for row := 0; row < m.H; row++ {
		for col := 0; col < m.W; col++ {
			li := (row*m.W + col) * 3
			pi := m.Index(row, col) * 3
			dst[pi] = src[li]
			dst[pi+1] = src[li+1]
			dst[pi+2] = src[li+2]
		}
	}
}
