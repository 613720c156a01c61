// Package hub pushes deadline alerts to connected dashboards over websockets.
package hub

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Event is the message written to every client
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub keeps the connected clients
type Hub struct {
	clients map[*websocket.Conn]string
	mutex   sync.Mutex
}

// New creates an empty hub
func New() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]string)}
}

// ServeWS upgrades the request and keeps the connection until the client
// goes away. userID identifies the client in logs.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().With("error", err).Warn("failed to upgrade websocket")
		return
	}

	h.mutex.Lock()
	h.clients[conn] = userID
	h.mutex.Unlock()
	zap.S().Debugw("websocket connected", "userId", userID)

	// clients only listen; reading drives ping/pong and detects closes
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mutex.Lock()
	delete(h.clients, conn)
	h.mutex.Unlock()
	_ = conn.Close()
	zap.S().Debugw("websocket disconnected", "userId", userID)
}

// Broadcast writes an event to every connected client and drops the ones
// that fail
func (h *Hub) Broadcast(eventType string, data interface{}) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, userID := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(Event{Type: eventType, Data: data}); err != nil {
			zap.S().Warnw("dropping websocket client", "userId", userID, "error", err)
			_ = conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Len is the number of connected clients
func (h *Hub) Len() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}
