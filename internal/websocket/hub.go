package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Event tells connected viewports that server-side state changed and the
// scene snapshot should be refetched.
type Event struct {
	Type   string `json:"type"`
	UserID string `json:"userId,omitempty"`
	RackID string `json:"rackId,omitempty"`
}

// Hub maintains the set of active viewport clients and fans out change
// events to them.
type Hub struct {
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		clients:    make(map[string]*Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.ID]; ok {
				close(old.send)
			}
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("🖥️  Viewport connected: %s", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
				log.Printf("📴 Viewport disconnected: %s", client.ID)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Buffer full or client dead; drop the event.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Notify broadcasts a change event to every connected viewport.
func (h *Hub) Notify(event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling event: %v", err)
		return
	}
	h.broadcast <- msg
}
