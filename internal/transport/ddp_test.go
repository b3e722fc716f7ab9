package transport_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjelinsky/ledscroll/internal/transport"
)

func frameBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func TestDDPSplitsFrameWithPushOnLast(t *testing.T) {
	// A 64x16 RGB frame is 3072 bytes; a 1400 byte payload cap splits it
	// into 1400 + 1400 + 272.
	pkts := transport.EncodeDDP(7, 1, 1400, frameBytes(3072))
	require.Len(t, pkts, 3)

	wantLen := []int{1400, 1400, 272}
	wantOff := []int{0, 1400, 2800}
	for i, pkt := range pkts {
		require.Len(t, pkt, 10+wantLen[i], "packet %d", i)
		d, err := transport.ParseDDP(pkt)
		require.NoError(t, err)
		assert.Equal(t, wantOff[i], d.Offset, "packet %d offset", i)
		assert.Len(t, d.Data, wantLen[i], "packet %d payload", i)
		assert.Equal(t, byte(7), d.Seq, "packet %d sequence", i)
		assert.Equal(t, i == len(pkts)-1, d.Apply, "push must mark only the final packet")
	}
}

func TestDDPHeaderBytes(t *testing.T) {
	pkts := transport.EncodeDDP(3, 5, 1400, frameBytes(3072))
	require.Len(t, pkts, 3)

	first, last := pkts[0], pkts[2]
	assert.Equal(t, byte(0x40), first[0], "version 1, no push")
	assert.Equal(t, byte(0x41), last[0], "version 1 with push")
	assert.Equal(t, byte(3), first[1], "sequence")
	assert.Equal(t, byte(0x0b), first[2], "RGB 8-bit data type")
	assert.Equal(t, byte(5), first[3], "channel")
	assert.Equal(t, []byte{0x00, 0x00, 0x0a, 0xf0}, []byte(last[4:8]), "offset 2800 big endian")
	assert.Equal(t, []byte{0x01, 0x10}, []byte(last[8:10]), "length 272 big endian")
}

var TestFramesSplitContiguously = []struct {
	Total, Max, Packets int
}{
	{3072, 1400, 3},
	{3072, 1440, 3},
	{3072, 3072, 1},
	{10, 3, 4},
	{1, 1440, 1},
	{4000, 999, 5},
}

func TestDDPOffsetsAreContiguous(t *testing.T) {
	for k, v := range TestFramesSplitContiguously {
		t.Run("Given "+strconv.Itoa(v.Total)+"b max "+strconv.Itoa(v.Max)+" #"+strconv.Itoa(k), func(t *testing.T) {
			data := frameBytes(v.Total)
			pkts := transport.EncodeDDP(1, 1, v.Max, data)
			require.Len(t, pkts, v.Packets)

			next := 0
			pushes := 0
			var got []byte
			for _, pkt := range pkts {
				d, err := transport.ParseDDP(pkt)
				require.NoError(t, err)
				assert.Equal(t, next, d.Offset, "offsets must be contiguous")
				next += len(d.Data)
				if d.Apply {
					pushes++
				}
				got = append(got, d.Data...)
			}
			assert.Equal(t, v.Total, next, "payloads must cover the frame")
			assert.Equal(t, 1, pushes, "exactly one push per frame")
			assert.NotZero(t, pkts[len(pkts)-1][0]&0x01, "push rides the final packet")
			assert.Equal(t, data, got)
		})
	}
}

func TestParseDDPRejectsBadPackets(t *testing.T) {
	pkt := transport.EncodeDDP(1, 1, 1400, frameBytes(100))[0]
	pkt[9]++ // claim one more payload byte than the packet carries
	_, err := transport.ParseDDP(pkt)
	assert.Error(t, err)

	_, err = transport.ParseDDP([]byte{0x40, 1, 0x0b})
	assert.Error(t, err)

	_, err = transport.ParseDDP(make([]byte, 10)) // version bits zero
	assert.Error(t, err)
}
