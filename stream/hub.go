// Package stream broadcasts episode frames to spectators over websockets.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/critters/game"
)

const (
	sendBuffer   = 8
	writeTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Message is the JSON envelope sent to spectators.
type Message struct {
	Type  string      `json:"type"` // "frame"
	Frame *game.Frame `json:"frame,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// writeLoop owns all writes to the connection.
func (c *client) writeLoop() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			slog.Debug("spectator write failed", "remote", c.conn.RemoteAddr(), "error", err)
			return
		}
	}
}

// Hub is a game.Renderer that fans frames out to connected spectators.
// Slow spectators miss frames instead of stalling the simulation.
type Hub struct {
	every int

	mu      sync.Mutex
	clients map[*client]struct{}
	latest  []byte
}

// NewHub creates a hub that broadcasts every n-th tick (and always the
// final tick of an episode).
func NewHub(every int) *Hub {
	if every < 1 {
		every = 1
	}
	return &Hub{every: every, clients: make(map[*client]struct{})}
}

// Clients returns the number of connected spectators.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Render implements game.Renderer.
func (h *Hub) Render(f game.Frame) error {
	if f.Tick%h.every != 0 && !f.Ended {
		return nil
	}
	data, err := json.Marshal(Message{Type: "frame", Frame: &f})
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slog.Debug("spectator lagging, frame dropped", "remote", c.conn.RemoteAddr())
		}
	}
	return nil
}

// ServeHTTP upgrades the request and registers the spectator.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.latest != nil {
		c.send <- h.latest
	}
	h.mu.Unlock()
	slog.Info("spectator connected", "remote", conn.RemoteAddr())

	go c.writeLoop()

	// Spectators only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
	slog.Info("spectator disconnected", "remote", conn.RemoteAddr())
}

// Close disconnects every spectator.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}

// Serve listens on addr with the hub mounted at /ws until ctx is done.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("spectator stream listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
