package transport

import (
	"encoding/binary"
	"net"
)

// WLED realtime DNRGB packet: protocol id, hold time in seconds, big endian
// start pixel index, then RGB triplets. Chunks cap at 489 pixels. DNRGB has
// no end-of-frame marker, so a receiver may refresh mid-frame; that tearing
// is inherent to the protocol.
const (
	wledProtoDNRGB  = 4
	wledHeaderLen   = 4
	wledChunkPixels = 489
)

// WLED drives WLED's UDP realtime mode.
type WLED struct {
	conn    *net.UDPConn
	timeout byte
}

// NewWLED wraps conn. timeout is the realtime hold in seconds; zero selects
// two seconds.
func NewWLED(conn *net.UDPConn, timeout byte) *WLED {
	if timeout == 0 {
		timeout = 2
	}
	return &WLED{conn: conn, timeout: timeout}
}

func (w *WLED) Send(rgb []byte) error {
	for _, pkt := range EncodeWLED(w.timeout, rgb) {
		if _, err := w.conn.Write(pkt); err != nil {
			return err
		}
	}
	return nil
}

func (w *WLED) Close() error { return w.conn.Close() }

// EncodeWLED splits one frame into DNRGB packets of at most 489 pixels each.
func EncodeWLED(timeout byte, rgb []byte) [][]byte {
	pixels := len(rgb) / 3
	pkts := make([][]byte, 0, (pixels+wledChunkPixels-1)/wledChunkPixels)
	for start := 0; start < pixels; start += wledChunkPixels {
		n := pixels - start
		if n > wledChunkPixels {
			n = wledChunkPixels
		}
		pkt := make([]byte, wledHeaderLen+n*3)
		pkt[0] = wledProtoDNRGB
		pkt[1] = timeout
		binary.BigEndian.PutUint16(pkt[2:4], uint16(start))
		copy(pkt[wledHeaderLen:], rgb[start*3:(start+n)*3])
		pkts = append(pkts, pkt)
	}
	return pkts
}
