package booking

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// writeWait bounds a single write to a watcher. A socket that does not
// drain in time is dropped.
const writeWait = 10 * time.Second

type client struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	writeWait time.Duration
}

func (c *client) send(message any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(message)
}

// Hub fans live session views out to every socket watching the session.
type Hub struct {
	sessions  map[string]map[*client]struct{}
	mutex     sync.RWMutex
	writeWait time.Duration
}

func NewHub() *Hub {
	return &Hub{
		sessions:  make(map[string]map[*client]struct{}),
		writeWait: writeWait,
	}
}

func (h *Hub) Register(sessionID string, conn *websocket.Conn) *client {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	c := &client{conn: conn, writeWait: h.writeWait}
	if h.sessions[sessionID] == nil {
		h.sessions[sessionID] = make(map[*client]struct{})
	}
	h.sessions[sessionID][c] = struct{}{}
	return c
}

func (h *Hub) Unregister(sessionID string, c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	clients, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	if _, exists := clients[c]; exists {
		_ = c.conn.Close()
		delete(clients, c)
	}
	if len(clients) == 0 {
		delete(h.sessions, sessionID)
	}
}

// Broadcast sends message to every socket of the session and drops the
// ones that fail. It returns how many received it.
func (h *Hub) Broadcast(sessionID string, message any) int {
	h.mutex.RLock()
	targets := make([]*client, 0, len(h.sessions[sessionID]))
	for c := range h.sessions[sessionID] {
		targets = append(targets, c)
	}
	h.mutex.RUnlock()

	sent := 0
	for _, c := range targets {
		if err := c.send(message); err != nil {
			h.Unregister(sessionID, c)
			continue
		}
		sent++
	}
	return sent
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for sessionID, clients := range h.sessions {
		for c := range clients {
			_ = c.conn.Close()
		}
		delete(h.sessions, sessionID)
	}
}
