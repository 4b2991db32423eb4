// Package ws pushes session events to a user's connected clients over
// websockets.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"focusflow/internal/app"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Hub tracks websocket connections per user.
type Hub struct {
	mu       sync.Mutex
	clients  map[int64]map[*websocket.Conn]bool
	upgrader websocket.Upgrader
	logger   *log.Logger
}

var _ app.EventPublisher = (*Hub)(nil)

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		clients: make(map[int64]map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.WithPrefix("ws"),
	}
}

// ServeWS upgrades the request and keeps the connection registered for
// userID until the client goes away. Incoming messages are discarded.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID int64) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("upgrade failed", "err", err)
		return
	}

	h.add(userID, conn)
	h.logger.Debug("client connected", "user", userID, "remote", conn.RemoteAddr())

	defer func() {
		h.remove(userID, conn)
		_ = conn.Close()
		h.logger.Debug("client disconnected", "user", userID)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish sends ev to every connection of userID. Connections whose write
// fails are closed and forgotten.
func (h *Hub) Publish(userID int64, ev app.SessionEvent) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal event", "event", ev.Event, "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients[userID] {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Warn("dropping client", "user", userID, "err", err)
			_ = conn.Close()
			h.removeLocked(userID, conn)
		}
	}
}

// Count returns the number of open connections for userID.
func (h *Hub) Count(userID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, conns := range h.clients {
		for conn := range conns {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			_ = conn.Close()
		}
		delete(h.clients, userID)
	}
}

func (h *Hub) add(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*websocket.Conn]bool)
	}
	h.clients[userID][conn] = true
}

func (h *Hub) remove(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(userID, conn)
}

func (h *Hub) removeLocked(userID int64, conn *websocket.Conn) {
	delete(h.clients[userID], conn)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}
