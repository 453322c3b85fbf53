package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/ayusman/repwatch/internal/analysis"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventHub broadcasts analyzer events to WebSocket clients. The counter is
// the single writer; any number of dashboard clients may observe.
type EventHub struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewEventHub creates a hub with no clients.
func NewEventHub() *EventHub {
	return &EventHub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Broadcast sends one event to every connected client.
func (h *EventHub) Broadcast(event any) {
	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}

// ClientCount returns the number of connected clients.
func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Callbacks returns analyzer callbacks that broadcast every event through
// the hub as a tagged JSON message.
func (h *EventHub) Callbacks() analysis.Callbacks {
	return analysis.Callbacks{
		OnCount: func(count int) {
			h.Broadcast(map[string]any{"type": "count", "count": count})
		},
		OnState: func(state analysis.State) {
			h.Broadcast(map[string]any{"type": "state", "state": state})
		},
		OnReady: func() {
			h.Broadcast(map[string]any{"type": "ready"})
		},
		OnFeedback: func(rep int, category analysis.Category) {
			h.Broadcast(map[string]any{"type": "feedback", "rep": rep, "category": category})
		},
		OnTargetReached: func() {
			h.Broadcast(map[string]any{"type": "target_reached"})
		},
		OnComplete: func(result analysis.SessionResult) {
			h.Broadcast(map[string]any{
				"type":        "complete",
				"total_count": result.TotalCount,
				"feedback":    result.Feedback,
			})
		},
	}
}
