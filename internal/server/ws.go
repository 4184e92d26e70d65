package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/fingersign/internal/gesture"
)

const (
	// eventBuffer is the number of pending events kept for the broadcaster.
	// Further events are dropped until it catches up.
	eventBuffer = 16
	writeWait   = time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventHub broadcasts the recognitions of each frame to WebSocket clients.
type EventHub struct {
	events  chan []byte
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	dropped uint64
}

// NewEventHub creates a new EventHub. Call Run to start broadcasting.
func NewEventHub() *EventHub {
	return &EventHub{
		events:  make(chan []byte, eventBuffer),
		clients: make(map[*websocket.Conn]bool),
	}
}

// OnResult queues result for broadcast without blocking. The event is
// dropped when no client is connected or the queue is full.
func (h *EventHub) OnResult(result gesture.FrameResult) {
	if h.Clients() == 0 {
		return
	}

	msg, err := json.Marshal(result)
	if err != nil {
		log.Printf("Error encoding event: %v", err)
		return
	}

	select {
	case h.events <- msg:
	default:
		h.mu.Lock()
		h.dropped++
		h.mu.Unlock()
	}
}

// Run broadcasts queued events until ctx is cancelled, then closes all
// client connections.
func (h *EventHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.events:
			h.broadcast(msg)
		}
	}
}

// Clients returns the number of connected clients.
func (h *EventHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns how many events were discarded because the queue was full.
func (h *EventHub) Dropped() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	// Clients only listen.
	conn.SetReadLimit(512)

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer h.remove(conn)

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast sends msg to every client, dropping those that fail.
func (h *EventHub) broadcast(msg []byte) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.remove(conn)
		}
	}
}

func (h *EventHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if h.clients[conn] {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

func (h *EventHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(writeWait))
		conn.Close()
		delete(h.clients, conn)
	}
}
