package notifier

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Event is the payload pushed to a user's live sessions after a committed
// state change. Delivery is best-effort; the mutation has already committed
// by the time an event is emitted.
type Event struct {
	Type      string `json:"type"`
	ProfileID uint   `json:"profile_id,omitempty"`
	UserID    uint   `json:"user_id,omitempty"`
	UserName  string `json:"user_name,omitempty"`
	Status    string `json:"status,omitempty"`
	Message   string `json:"message"`
}

const (
	EventInvitationAccepted = "invitation.accepted"
	EventInvitationDeclined = "invitation.declined"
)

// Hub tracks the open websocket connections per user.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[*websocket.Conn]bool)}
}

func (h *Hub) Register(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*websocket.Conn]bool)
	}
	h.clients[userID][conn] = true
	h.mu.Unlock()
}

func (h *Hub) Unregister(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	if conns, exists := h.clients[userID]; exists {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.clients, userID)
		}
	}
	h.mu.Unlock()
}

// Sessions reports how many live connections a user has.
func (h *Hub) Sessions(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Notify pushes an event to every live session of the user. Failures are
// logged and the dead connection dropped; they never propagate to the caller.
func (h *Hub) Notify(userID uint, event Event) {
	h.mu.RLock()
	conns, exists := h.clients[userID]
	if !exists || len(conns) == 0 {
		h.mu.RUnlock()
		return
	}

	// Copy so the lock is not held during writes
	connsCopy := make([]*websocket.Conn, 0, len(conns))
	for conn := range conns {
		connsCopy = append(connsCopy, conn)
	}
	h.mu.RUnlock()

	for _, conn := range connsCopy {
		err := conn.SetWriteDeadline(time.Now().Add(writeWait))

		if err == nil {
			err = conn.WriteJSON(event)
		}

		if err != nil {
			log.Printf("Failed to push %s event to user %d: %v", event.Type, userID, err)
			h.Unregister(userID, conn)
			conn.Close()
		}
	}
}

// Default is the process-wide hub shared by the websocket handler and the
// services that emit events.
var Default = NewHub()

func Notify(userID uint, event Event) {
	Default.Notify(userID, event)
}
