// Package websocket delivers live pushes (notifications, direct messages) to
// connected browsers. Delivery is best effort; the database rows remain the
// source of truth.
package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// outbound pairs a payload with the user it should reach.
type outbound struct {
	TargetUserID uuid.UUID
	Payload      []byte
}

// Hub maintains the set of active clients and routes payloads to them.
// A user may hold several connections (multiple tabs); every one gets the push.
type Hub struct {
	// Registered clients, user ID -> set of connections.
	Clients map[uuid.UUID]map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	send chan *outbound

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[uuid.UUID]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		send:       make(chan *outbound),
	}
}

// Run starts the hub's processing loop. Call it once, in its own goroutine.
func (h *Hub) Run() {
	log.Println("WebSocket hub started")
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.Clients[client.UserID]; !ok {
				h.Clients[client.UserID] = make(map[*Client]bool)
			}
			h.Clients[client.UserID][client] = true
			h.mu.Unlock()
			log.Printf("WebSocket client registered for user %s", client.UserID)

		case client := <-h.Unregister:
			h.mu.Lock()
			if userClients, ok := h.Clients[client.UserID]; ok {
				if _, clientOk := userClients[client]; clientOk {
					delete(userClients, client)
					if len(userClients) == 0 {
						delete(h.Clients, client.UserID)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.send:
			h.mu.RLock()
			for client := range h.Clients[msg.TargetUserID] {
				select {
				case client.Send <- msg.Payload:
				default:
					log.Printf("Send buffer full for a client of user %s, payload dropped", client.UserID)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// SendToUser queues a payload for every live connection the user has. If the
// user is offline, or the hub is wedged for more than a second, the payload
// is dropped.
func (h *Hub) SendToUser(targetUserID uuid.UUID, payload []byte) {
	msg := &outbound{TargetUserID: targetUserID, Payload: payload}
	select {
	case h.send <- msg:
	case <-time.After(1 * time.Second):
		log.Printf("Timeout queuing websocket payload for user %s", targetUserID)
	}
}
