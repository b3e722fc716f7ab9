package layout_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjelinsky/ledscroll/internal/layout"
)

var TestIndexCoversEveryPixelOnce = []struct {
	W, H  int
	Order layout.Order
}{
	{64, 16, layout.Serpentine},
	{64, 16, layout.Progressive},
	{1, 1, layout.Serpentine},
	{7, 5, layout.Serpentine},
	{16, 64, layout.Serpentine},
	{3, 9, layout.Progressive},
}

func TestMappingIsBijective(t *testing.T) {
	for k, v := range TestIndexCoversEveryPixelOnce {
		t.Run("Given "+strconv.Itoa(v.W)+"x"+strconv.Itoa(v.H)+" "+string(v.Order)+" #"+strconv.Itoa(k), func(t *testing.T) {
			m := layout.Mapper{W: v.W, H: v.H, Order: v.Order}
			seen := make([]int, m.Count())
			for row := 0; row < v.H; row++ {
				for col := 0; col < v.W; col++ {
					i := m.Index(row, col)
					require.GreaterOrEqual(t, i, 0)
					require.Less(t, i, m.Count())
					seen[i]++
				}
			}
			for i, n := range seen {
				assert.Equal(t, 1, n, "index %d hit %d times", i, n)
			}
		})
	}
}

func TestSerpentineReversesOddRows(t *testing.T) {
	m := layout.Mapper{W: 4, H: 3, Order: layout.Serpentine}

	// Row 0 keeps column order.
	assert.Equal(t, 0, m.Index(0, 0))
	assert.Equal(t, 3, m.Index(0, 3))
	// Row 1 runs right to left.
	assert.Equal(t, 7, m.Index(1, 0))
	assert.Equal(t, 4, m.Index(1, 3))
	// Row 2 keeps column order again.
	assert.Equal(t, 8, m.Index(2, 0))
	assert.Equal(t, 11, m.Index(2, 3))
}

func TestProgressiveIsIdentity(t *testing.T) {
	m := layout.Mapper{W: 5, H: 4, Order: layout.Progressive}
	for row := 0; row < m.H; row++ {
		for col := 0; col < m.W; col++ {
			assert.Equal(t, row*m.W+col, m.Index(row, col))
		}
	}
}

func TestMapIntoReordersTriplets(t *testing.T) {
	m := layout.Mapper{W: 3, H: 2, Order: layout.Serpentine}
	src := make([]byte, m.Count()*3)
	for i := 0; i < m.Count(); i++ {
		src[i*3] = byte(i) // tag each pixel with its logical index
	}
	dst := make([]byte, len(src))
	m.MapInto(dst, src)

	// Logical row 1 is 3,4,5; physically it lands reversed as 5,4,3.
	want := []byte{0, 1, 2, 5, 4, 3}
	for i, w := range want {
		assert.Equal(t, w, dst[i*3], "pixel %d", i)
	}
}
