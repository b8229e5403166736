package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/normanking/cortexface/internal/bus"
	"github.com/normanking/cortexface/internal/engine"
)

// StatusProvider reports the driver's current state.
type StatusProvider interface {
	Status() engine.Status
}

// FrameSource renders the current framebuffer as text for bring-up.
type FrameSource func() string

// Snapshot is the JSON body served by the state endpoint.
type Snapshot struct {
	DeviceID  string    `json:"deviceId"`
	Driver    string    `json:"driver"`
	State     string    `json:"state"`
	Mood      string    `json:"mood"`
	TalkIndex int       `json:"talkIndex"`
	UptimeSec float64   `json:"uptimeSec"`
	Timestamp time.Time `json:"timestamp"`
}

// wsEvent is one bus event on the stream.
type wsEvent struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// Server is the host-side telemetry surface. All animation state stays
// volatile; this is a read-only window plus metrics, never a store.
type Server struct {
	addr     string
	provider StatusProvider
	frames   FrameSource
	metrics  *Metrics
	bus      *bus.EventBus
	log      zerolog.Logger

	deviceID string
	started  time.Time
	upgrader websocket.Upgrader
	srv      *http.Server

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewServer wires the telemetry surface. frames may be nil when no
// framebuffer view is wanted.
func NewServer(addr string, provider StatusProvider, frames FrameSource, metrics *Metrics, eventBus *bus.EventBus, logger zerolog.Logger) *Server {
	s := &Server{
		addr:     addr,
		provider: provider,
		frames:   frames,
		metrics:  metrics,
		bus:      eventBus,
		log:      logger.With().Str("component", "telemetry").Logger(),
		deviceID: uuid.NewString(),
		started:  time.Now(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}

	if eventBus != nil {
		eventBus.SubscribeMultiple(bus.FaceEventTypes, s.onBusEvent)
	}
	return s
}

// DeviceID returns the volatile per-boot device identifier.
func (s *Server) DeviceID() string { return s.deviceID }

// Start serves until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/face/state", s.handleState)
	mux.HandleFunc("/api/v1/face/frame", s.handleFrame)
	mux.HandleFunc("/ws/state", s.handleWS)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}

	s.srv = &http.Server{Addr: s.addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.srv.Shutdown(shutdownCtx)
	}()

	s.log.Info().Str("addr", s.addr).Msg("telemetry listening")
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// handleState serves the current engine snapshot.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st := s.provider.Status()
	snap := Snapshot{
		DeviceID:  s.deviceID,
		Driver:    st.Driver,
		State:     st.State,
		Mood:      st.Mood,
		TalkIndex: st.TalkIndex,
		UptimeSec: time.Since(s.started).Seconds(),
		Timestamp: time.Now().UTC(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

// handleFrame serves the framebuffer as plain text for hardware-free
// bring-up.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	if s.frames == nil {
		http.Error(w, "no framebuffer attached", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(s.frames()))
}

// handleWS upgrades and registers a state stream client.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()
	s.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("state stream client connected")

	// Drain the client until it hangs up; the stream is one-directional.
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

// onBusEvent fans a face event out to every stream client and feeds the
// relevant counters.
func (s *Server) onBusEvent(e bus.Event) {
	if s.metrics != nil {
		switch e.Type {
		case bus.EventTypeMoodChanged, bus.EventTypeTalkFrame, bus.EventTypeCycleAdvanced:
			s.metrics.FrameDrawn()
		case bus.EventTypeSpeechChanged:
			if state, ok := e.Data["state"].(string); ok {
				s.metrics.Transition(state)
			}
		}
	}

	msg := wsEvent{Type: string(e.Type), Data: e.Data}
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
}
