package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// writeWait bounds a single write to a client
	writeWait = 10 * time.Second
	// sendBuffer is how many events may queue for one client before it is dropped
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// Hub keeps the connected dashboard sessions and broadcasts events to them.
// Each client has its own writer, so a slow client never holds up Publish.
type Hub struct {
	clients map[*client]struct{}
	mutex   sync.Mutex
}

// NewHub returns an empty hub
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Serve upgrades the request and holds the connection open until the client leaves
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade error", "error", err)
		return
	}

	c := &client{conn: conn, userID: userID, send: make(chan []byte, sendBuffer)}
	h.mutex.Lock()
	h.clients[c] = struct{}{}
	h.mutex.Unlock()
	zap.S().Debugw("websocket client connected", "userId", userID)

	go c.writePump()

	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}

	h.remove(c)
	_ = conn.Close()
	zap.S().Debugw("websocket client disconnected", "userId", userID)
}

// writePump drains the client's queue until the hub closes it
func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			zap.S().Warnw("error writing to websocket client", "userId", c.userID, "error", err)
			return
		}
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// remove must be the only place a client's queue is closed
func (h *Hub) remove(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Publish queues e for every connected client. Clients whose queue is full are dropped.
func (h *Hub) Publish(ctx context.Context, e Event) error {
	msg, err := json.Marshal(map[string]interface{}{
		"event": e.Type,
		"data":  e,
	})
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			zap.S().Warnw("websocket client is not keeping up, dropping it", "userId", c.userID, "type", e.Type)
			delete(h.clients, c)
			close(c.send)
		}
	}
	return nil
}
