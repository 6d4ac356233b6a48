package ws

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// SpotUpdate is pushed to subscribers whenever a lot's spot count changes.
type SpotUpdate struct {
	LotID     uuid.UUID `json:"lot_id"`
	Available int       `json:"available"`
}

// Hub fans availability updates out to connected websocket clients.
type Hub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]bool

	broadcast chan SpotUpdate
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan SpotUpdate, 64),
	}
}

// Run drains the broadcast channel. Call in its own goroutine.
func (h *Hub) Run() {
	for update := range h.broadcast {
		h.mu.Lock()
		for conn := range h.clients {
			if err := conn.WriteJSON(update); err != nil {
				h.log.Warn("ws write failed, dropping client", zap.Error(err))
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.mu.Unlock()
	}
}

// Publish enqueues an update without blocking the caller; a full buffer
// drops the update rather than stalling a booking request.
func (h *Hub) Publish(update SpotUpdate) {
	select {
	case h.broadcast <- update:
	default:
		h.log.Warn("ws broadcast buffer full, update dropped",
			zap.String("lot_id", update.LotID.String()))
	}
}

// Serve upgrades an HTTP request to a subscriber connection.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// Reader loop only detects disconnects; subscribers never send data.
	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
