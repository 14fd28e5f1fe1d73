// Package realtime pushes table-change notifications to connected browsers
// over WebSocket. Clients receive {"type":"dishes_changed","table":"dishes"}
// frames and react by re-fetching the affected list; no row data travels
// over the socket.
package realtime

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"bubbles/internal/events"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 90 * time.Second
	pingInterval = 30 * time.Second
)

// Hub manages active WebSocket connections and broadcasts bus events to them.
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]chan events.Event
}

// NewHub creates a hub and subscribes it to the table-change events.
func NewHub(bus *events.Bus) *Hub {
	h := &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]chan events.Event),
	}
	bus.Subscribe(h.broadcast, events.DishesChanged, events.SettingsChanged)
	return h
}

// HandleConnection upgrades the request to a WebSocket and serves it until
// the client disconnects.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	// Buffered so a slow client drops notifications instead of blocking
	// publishers. Dropped frames are harmless: the next one triggers the
	// same full re-fetch.
	ch := make(chan events.Event, 8)

	h.mu.Lock()
	h.conns[conn] = ch
	h.mu.Unlock()

	slog.Debug("websocket client connected", "remote", r.RemoteAddr)

	go h.writeLoop(conn, ch)
	h.readLoop(conn)

	h.mu.Lock()
	if cur, ok := h.conns[conn]; ok && cur == ch {
		delete(h.conns, conn)
		close(ch)
	}
	h.mu.Unlock()

	slog.Debug("websocket client disconnected", "remote", r.RemoteAddr)
}

// readLoop consumes (and discards) client frames until the connection
// closes. Clients never send meaningful data; the loop exists to observe
// close and pong frames.
func (h *Hub) readLoop(conn *websocket.Conn) {
	defer conn.Close()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket read error", "error", err)
			}
			return
		}
	}
}

// writeLoop sends queued events and periodic pings to one client.
func (h *Hub) writeLoop(conn *websocket.Conn, ch chan events.Event) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(e); err != nil {
				conn.Close()
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(
				websocket.PingMessage, nil,
				time.Now().Add(writeTimeout),
			); err != nil {
				conn.Close()
				return
			}
		}
	}
}

// broadcast fans an event out to every connected client. Full channels are
// skipped — last write wins on the client side anyway.
func (h *Hub) broadcast(e events.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.conns {
		select {
		case ch <- e:
		default:
		}
	}
}

// ActiveConnections returns the number of connected clients.
func (h *Hub) ActiveConnections() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// CloseAll terminates every active connection. Called on server shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, ch := range h.conns {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
			time.Now().Add(5*time.Second),
		)
		conn.Close()
		close(ch)
		delete(h.conns, conn)
	}
}
