package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sjelinsky/ledscroll/internal/config"
	"github.com/sjelinsky/ledscroll/internal/layout"
	"github.com/sjelinsky/ledscroll/internal/render"
	"github.com/sjelinsky/ledscroll/internal/transport"
)

// ErrJoinTimeout reports a previous session that did not exit in time.
var ErrJoinTimeout = errors.New("previous session did not stop in time")

// Dialer opens the transport a session streams frames through.
type Dialer func(config.Display) (transport.Transport, error)

type State string

const (
	Idle     State = "idle"
	Running  State = "running"
	Stopping State = "stopping"
)

const (
	// minTick caps the frame rate at 100 fps no matter the scroll speed.
	minTick        = 10 * time.Millisecond
	staticInterval = 100 * time.Millisecond
)

// Engine runs at most one streaming session at a time. Start replaces the
// running session; Stop asks it to exit and returns immediately.
type Engine struct {
	Dial        Dialer
	JoinTimeout time.Duration

	mu  sync.Mutex
	cur *session

	snapMu  sync.RWMutex
	frame   *render.FrameBuffer
	frameID uint64
}

type session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func New() *Engine {
	return &Engine{
		Dial:        transport.New,
		JoinTimeout: 2 * time.Second,
	}
}

// Start validates cfg, stops any running session, and spawns a new one.
// The previous session's transport is closed before the new one dials, so
// two sessions never write to the same target at once. An invalid cfg is
// rejected before the running session is touched.
func (e *Engine) Start(cfg config.Display) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg = cfg.Normalize()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cur != nil {
		e.cur.cancel()
		select {
		case <-e.cur.done:
		case <-time.After(e.JoinTimeout):
			return ErrJoinTimeout
		}
		e.cur = nil
	}

	faces := render.LoadFaces(cfg.FontPath, cfg.FontSize, cfg.EmojiFontPath, cfg.EmojiShift)
	comp := render.NewCompositor(cfg, faces)
	mapper := layout.Mapper{W: cfg.Width, H: cfg.Height, Order: layout.Order(cfg.Layout)}

	tr, err := e.Dial(cfg)
	if err != nil {
		return fmt.Errorf("dial %s: %w", cfg.Mode, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		id:     uuid.NewString(),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	e.cur = s

	log.Info().
		Str("session", s.id).
		Str("text", cfg.Text).
		Str("mode", cfg.Mode).
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Float64("speed", cfg.Speed).
		Msg("session started")

	go e.run(s, cfg, comp, mapper, tr)
	return nil
}

// run is the session goroutine. The transport is closed before done is
// closed, so a joiner sees the socket released.
func (e *Engine) run(s *session, cfg config.Display, comp *render.Compositor, m layout.Mapper, tr transport.Transport) {
	defer close(s.done)
	defer func() {
		if err := tr.Close(); err != nil {
			log.Debug().Str("session", s.id).Err(err).Msg("transport close")
		}
	}()

	interval := staticInterval
	if cfg.Motion == config.MotionScroll {
		interval = time.Duration(float64(time.Second) / cfg.Speed)
		if interval < minTick {
			interval = minTick
		}
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fb := render.NewFrameBuffer(cfg.Width, cfg.Height)
	wire := make([]byte, len(fb.Pix))
	start := time.Now()

	for {
		comp.Frame(fb, time.Since(start).Seconds())
		m.MapInto(wire, fb.Pix)
		if err := tr.Send(wire); err != nil {
			log.Warn().Str("session", s.id).Err(err).Msg("send failed, frame dropped")
		}
		e.publish(fb)

		select {
		case <-s.ctx.Done():
			log.Info().Str("session", s.id).Msg("session stopped")
			return
		case <-ticker.C:
		}
	}
}

func (e *Engine) publish(fb *render.FrameBuffer) {
	e.snapMu.Lock()
	e.frame = fb.Clone()
	e.frameID++
	e.snapMu.Unlock()
}

// Stop asks the running session to exit without waiting for it.
// Safe to call repeatedly, or with no session running.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cur != nil {
		e.cur.cancel()
	}
}

// Done returns a channel that is closed once no session goroutine runs.
func (e *Engine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cur == nil {
		done := make(chan struct{})
		close(done)
		return done
	}
	return e.cur.done
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cur == nil {
		return Idle
	}
	select {
	case <-e.cur.done:
		return Idle
	default:
	}
	select {
	case <-e.cur.ctx.Done():
		return Stopping
	default:
	}
	return Running
}

// Snapshot is a copy of the most recently rendered frame.
type Snapshot struct {
	Frame   *render.FrameBuffer
	FrameID uint64
}

// Snapshot returns the last rendered frame, or a zero Snapshot before the
// first render. The returned buffer is the caller's to keep.
func (e *Engine) Snapshot() Snapshot {
	e.snapMu.RLock()
	defer e.snapMu.RUnlock()
	if e.frame == nil {
		return Snapshot{}
	}
	return Snapshot{Frame: e.frame.Clone(), FrameID: e.frameID}
}
