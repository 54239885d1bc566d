package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/drishti/internal/attention"
	"github.com/ayusman/drishti/internal/monitor"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LiveHandler broadcasts real-time frame results via WebSocket.
type LiveHandler struct {
	monitor *monitor.Monitor
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewLiveHandler creates a new LiveHandler fed by the given monitor.
func NewLiveHandler(m *monitor.Monitor) *LiveHandler {
	h := &LiveHandler{
		monitor: m,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

// broadcast forwards every published frame result to all connected
// clients.
func (h *LiveHandler) broadcast() {
	ch := h.monitor.Subscribe()

	for res := range ch {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}
		h.mu.RUnlock()

		h.send(res)
	}
}

// send marshals one frame result and writes it to every client.
func (h *LiveHandler) send(res attention.FrameResult) {
	msg, _ := json.Marshal(map[string]interface{}{
		"result":    res,
		"timestamp": time.Now().UnixMilli(),
	})

	h.mu.RLock()
	for conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
	h.mu.RUnlock()
}
