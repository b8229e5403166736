package gesture

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Receiver maintains the WebSocket connection to the gesture bridge with
// reconnection. On every drop it invokes the lost callback so the eye rig
// can fall back to autonomous idle animation.
type Receiver struct {
	baseURL string
	logger  zerolog.Logger

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
	cancel    context.CancelFunc

	onSample func(Sample)
	onLost   func()
}

// NewReceiver creates a gesture feed receiver.
func NewReceiver(baseURL string, logger zerolog.Logger) *Receiver {
	return &Receiver{
		baseURL: baseURL,
		logger:  logger.With().Str("component", "gesture").Logger(),
	}
}

// SetSampleCallback sets the callback for incoming samples.
func (r *Receiver) SetSampleCallback(cb func(Sample)) { r.onSample = cb }

// SetLostCallback sets the callback invoked when the link drops.
func (r *Receiver) SetLostCallback(cb func()) { r.onLost = cb }

// Connect starts the receive loop in the background.
func (r *Receiver) Connect(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	go r.connectLoop(ctx)
	return nil
}

// Disconnect closes the connection and stops reconnecting.
func (r *Receiver) Disconnect() {
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Lock()
	if r.conn != nil {
		r.conn.Close()
		r.conn = nil
	}
	r.connected = false
	r.mu.Unlock()
}

// IsConnected returns connection status.
func (r *Receiver) IsConnected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connected
}

// connectLoop maintains the connection with exponential backoff.
func (r *Receiver) connectLoop(ctx context.Context) {
	backoff := 3 * time.Second
	maxBackoff := 60 * time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := r.readFeed(ctx)
		wasConnected := r.IsConnected()
		r.mu.Lock()
		r.connected = false
		r.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		if wasConnected {
			// Link loss: the face falls back to idle animation.
			r.logger.Warn().Err(err).Msg("gesture link lost, falling back to idle")
			if r.onLost != nil {
				r.onLost()
			}
			backoff = 3 * time.Second
		} else {
			r.logger.Debug().Err(err).Dur("backoff", backoff).Msg("gesture bridge unavailable")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < maxBackoff {
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}
	}
}

// readFeed dials the bridge and pumps samples until the stream breaks.
func (r *Receiver) readFeed(ctx context.Context) error {
	u, err := url.Parse(r.baseURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else if u.Scheme == "http" || u.Scheme == "" {
		u.Scheme = "ws"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/api/v1/gesture/ws"
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	r.mu.Lock()
	r.conn = conn
	r.connected = true
	r.mu.Unlock()
	r.logger.Info().Str("url", u.String()).Msg("gesture feed connected")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var raw json.RawMessage
		if err := conn.ReadJSON(&raw); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		r.handleMessage(raw)
	}
}

// handleMessage decodes one feed message. Malformed samples are logged and
// dropped; they never propagate into the animation core.
func (r *Receiver) handleMessage(raw json.RawMessage) {
	var s Sample
	if err := json.Unmarshal(raw, &s); err != nil {
		r.logger.Warn().Err(err).Msg("malformed gesture sample")
		return
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}
	if r.onSample != nil {
		r.onSample(s)
	}
}
