package transport

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrUnknownPacket reports a datagram that matches none of the wire formats.
var ErrUnknownPacket = errors.New("unrecognized packet")

/// Decoded is one parsed datagram in frame terms: where its payload lands and
// whether the buffered frame should be applied to the display now.
type Decoded struct {
	Offset int    // byte offset into the frame
	Data   []byte // RGB payload; aliases the packet buffer
	Apply  bool   // apply the buffered frame to the display
	W, H   int    // frame geometry when the protocol carries it, else 0
	Seq    byte   // DDP sequence, 0 otherwise
}

// Parse sniffs a raw datagram's protocol and decodes it. Simple packets open
// with the magic, WLED DNRGB with protocol id 4, DDP with its version bits.
func Parse(pkt []byte) (Decoded, error) {
	switch {
	case bytes.HasPrefix(pkt, []byte(simpleMagic)):
		return ParseSimple(pkt)
	case len(pkt) >= wledHeaderLen && pkt[0] == wledProtoDNRGB:
		return ParseWLED(pkt)
	case len(pkt) >= ddpHeaderLen && pkt[0]&0xc0 == ddpVer1:
		return ParseDDP(pkt)
	}
	return Decoded{}, ErrUnknownPacket
}

func ParseSimple(pkt []byte) (Decoded, error) {
	if len(pkt) < simpleHeaderLen || !bytes.HasPrefix(pkt, []byte(simpleMagic)) {
		return Decoded{}, fmt.Errorf("simple: %w", ErrUnknownPacket)
	}
	w, h := int(pkt[7]), int(pkt[8])
	if len(pkt) != simpleHeaderLen+w*h*3 {
		return Decoded{}, fmt.Errorf("simple: %d payload bytes for %dx%d frame", len(pkt)-simpleHeaderLen, w, h)
	}
	return Decoded{Data: pkt[simpleHeaderLen:], Apply: true, W: w, H: h}, nil
}

func ParseDDP(pkt []byte) (Decoded, error) {
	if len(pkt) < ddpHeaderLen {
		return Decoded{}, fmt.Errorf("ddp: short packet (%d bytes)", len(pkt))
	}
	if pkt[0]&0xc0 != ddpVer1 {
		return Decoded{}, fmt.Errorf("ddp: unsupported version flags %#02x", pkt[0])
	}
	n := int(binary.BigEndian.Uint16(pkt[8:10]))
	if len(pkt) != ddpHeaderLen+n {
		return Decoded{}, fmt.Errorf("ddp: header says %d payload bytes, packet carries %d", n, len(pkt)-ddpHeaderLen)
	}
	return Decoded{
		Offset: int(binary.BigEndian.Uint32(pkt[4:8])),
		Data:   pkt[ddpHeaderLen:],
		Apply:  pkt[0]&ddpPush != 0,
		Seq:    pkt[1] & 0x0f,
	}, nil
}

/// ParseWLED decodes a DNRGB chunk. Every chunk applies immediately: the
// protocol has no frame marker.
func ParseWLED(pkt []byte) (Decoded, error) {
	if len(pkt) < wledHeaderLen || pkt[0] != wledProtoDNRGB {
		return Decoded{}, fmt.Errorf("wled: %w", ErrUnknownPacket)
	}
	if (len(pkt)-wledHeaderLen)%3 != 0 {
		return Decoded{}, fmt.Errorf("wled: payload not triplet aligned (%d bytes)", len(pkt)-wledHeaderLen)
	}
	start := int(binary.BigEndian.Uint16(pkt[2:4]))
	return Decoded{Offset: start * 3, Data: pkt[wledHeaderLen:], Apply: true}, nil
}
