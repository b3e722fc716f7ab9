package transport

import (
	"fmt"
	"net"
)

// The simple protocol ships a whole frame per datagram: a 7 byte magic, one
// byte each of width and height, then raw RGB in physical order.
const simpleMagic = "ST16x64"

const simpleHeaderLen = len(simpleMagic) + 2

// Simple is the custom whole-frame protocol.
type Simple struct {
	conn *net.UDPConn
	w, h int
	pkt  []byte // header stays fixed, payload rewritten per frame
}

func NewSimple(conn *net.UDPConn, w, h int) *Simple {
	return &Simple{conn: conn, w: w, h: h, pkt: EncodeSimple(w, h, make([]byte, w*h*3))}
}

func (s *Simple) Send(rgb []byte) error {
	if len(rgb) != s.w*s.h*3 {
		return fmt.Errorf("simple: frame is %d bytes, want %d", len(rgb), s.w*s.h*3)
	}
	copy(s.pkt[simpleHeaderLen:], rgb)
	_, err := s.conn.Write(s.pkt)
	return err
}

func (s *Simple) Close() error { return s.conn.Close() }

// EncodeSimple builds the single wire packet for one frame.
func EncodeSimple(w, h int, rgb []byte) []byte {
	pkt := make([]byte, simpleHeaderLen+len(rgb))
	copy(pkt, simpleMagic)
	pkt[7] = byte(w)
	pkt[8] = byte(h)
	copy(pkt[simpleHeaderLen:], rgb)
	return pkt
}
