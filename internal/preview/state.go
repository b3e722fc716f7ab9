package preview

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/sjelinsky/ledscroll/internal/engine"
)

// State fans rendered frames out to websocket viewers. It polls the engine
// snapshot instead of sitting on the render path, so a slow viewer can never
// stall the matrix.
type State struct {
	mu      sync.RWMutex
	eng     *engine.Engine
	fps     int
	clients map[*websocket.Conn]bool
	started time.Time
}

func NewState(eng *engine.Engine, fps int) *State {
	if fps < 1 {
		fps = 30
	}
	return &State{
		eng:     eng,
		fps:     fps,
		clients: map[*websocket.Conn]bool{},
		started: time.Now(),
	}
}

// RunFeed broadcasts fresh frames until stop closes. Repeated frame ids are
// skipped so static sessions do not spam viewers.
func (s *State) RunFeed(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()
	var lastID uint64
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		snap := s.eng.Snapshot()
		if snap.Frame == nil || snap.FrameID == lastID {
			continue
		}
		lastID = snap.FrameID
		s.broadcastFrame(snap)
	}
}

func (s *State) HandleFrames(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	clients := len(s.clients)
	s.mu.RUnlock()
	resp := map[string]any{
		"state":    s.eng.State(),
		"frame_id": s.eng.Snapshot().FrameID,
		"uptime_s": time.Since(s.started).Seconds(),
		"clients":  clients,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *State) broadcastFrame(snap engine.Snapshot) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	type frame struct {
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		W       int    `json:"w"`
		H       int    `json:"h"`
		RGB     []byte `json:"rgb"`
	}
	b, _ := json.Marshal(frame{
		T:       time.Now().UnixNano(),
		FrameID: snap.FrameID,
		W:       snap.Frame.W,
		H:       snap.Frame.H,
		RGB:     snap.Frame.Pix,
	})
	for c := range s.clients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
}
