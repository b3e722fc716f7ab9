package transport

import (
	"fmt"
	"net"
	"strconv"

	"github.com/sjelinsky/ledscroll/internal/config"
)

// Transport frames a physical-order RGB buffer into protocol packets and
// sends them to the destination. Implementations are fire and forget: a lost
// packet simply shows up as a skipped frame.
type Transport interface {
	// Send encodes and transmits one frame. len(rgb) must equal 3*pixels.
	Send(rgb []byte) error
	// Close releases the socket.
	Close() error
}

// New resolves the destination and dials the transport for cfg.Mode. cfg
// must already be validated and normalized.
func New(cfg config.Display) (Transport, error) {
	raddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)))
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", cfg.Host, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("dial %v: %w", raddr, err)
	}
	switch cfg.Mode {
	case config.ModeDDP:
		return NewDDP(conn, byte(cfg.DDPChannel), 0), nil
	case config.ModeWLED:
		return NewWLED(conn, byte(cfg.WLEDTimeout)), nil
	default:
		return NewSimple(conn, cfg.Width, cfg.Height), nil
	}
}
