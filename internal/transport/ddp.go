package transport

import (
	"encoding/binary"
	"net"
)

// DDP header layout (10 bytes):
//
//	0     flags: 0x40 version 1, 0x01 push
//	1     sequence 1..15, shared by every packet of one frame
//	2     data type (0x0B: RGB, 8 bits per channel)
//	3     destination channel
//	4..7  byte offset into the frame, big endian
//	8..9  payload length, big endian
const (
	ddpHeaderLen = 10

	ddpVer1    = 0x40
	ddpPush    = 0x01
	ddpTypeRGB = 0x0B

	// DefaultMaxPayload keeps packets comfortably under a 1500 byte MTU and
	// matches the per-packet payload cap of WLED's DDP receiver.
	DefaultMaxPayload = 1440
)

// DDP streams frames as chunked packets. Receivers buffer chunks until the
// final packet's push flag arrives and then apply the whole frame at once,
// so a frame never tears across refreshes.
type DDP struct {
	conn       *net.UDPConn
	channel    byte
	maxPayload int
	seq        byte
}

// NewDDP wraps conn. maxPayload <= 0 selects DefaultMaxPayload; channel 0
// selects the default output channel.
func NewDDP(conn *net.UDPConn, channel byte, maxPayload int) *DDP {
	if maxPayload <= 0 {
		maxPayload = DefaultMaxPayload
	}
	if channel == 0 {
		channel = 1
	}
	return &DDP{conn: conn, channel: channel, maxPayload: maxPayload}
}

func (d *DDP) Send(rgb []byte) error {
	d.seq = d.seq%15 + 1 // 1..15; zero is reserved for untracked senders
	for _, pkt := range EncodeDDP(d.seq, d.channel, d.maxPayload, rgb) {
		if _, err := d.conn.Write(pkt); err != nil {
			return err
		}
	}
	return nil
}

func (d *DDP) Close() error { return d.conn.Close() }

// EncodeDDP splits one frame into wire packets. Offsets are contiguous and
// strictly increasing; only the final packet carries the push flag.
func EncodeDDP(seq, channel byte, maxPayload int, data []byte) [][]byte {
	if maxPayload <= 0 {
		maxPayload = DefaultMaxPayload
	}
	pkts := make([][]byte, 0, (len(data)+maxPayload-1)/maxPayload)
	for off := 0; off < len(data); {
		n := len(data) - off
		if n > maxPayload {
			n = maxPayload
		}
		flags := byte(ddpVer1)
		if off+n == len(data) {
			flags |= ddpPush
		}
		pkt := make([]byte, ddpHeaderLen+n)
		pkt[0] = flags
		pkt[1] = seq & 0x0f
		pkt[2] = ddpTypeRGB
		pkt[3] = channel
		binary.BigEndian.PutUint32(pkt[4:8], uint32(off))
		binary.BigEndian.PutUint16(pkt[8:10], uint16(n))
		copy(pkt[ddpHeaderLen:], data[off:off+n])
		pkts = append(pkts, pkt)
		off += n
	}
	return pkts
}
