// internal/websocket/hub.go
package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"orderbot-service/internal/domain/order"
)

const (
	EventTypeConnected   = "connected"
	EventTypeOrderUpdate = "order-update"
	EventTypePing        = "ping"
	EventTypePong        = "pong"
)

// WSMessage is the JSON envelope for every frame pushed to a dashboard.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Hub fans order events out to connected dashboard sessions, keyed by
// client (tenant) ID. A client may hold several connections at once.
type Hub struct {
	clients map[int64]map[*Client]bool
	mu      sync.RWMutex

	Register   chan *Client
	unregister chan *Client

	broadcast chan *BroadcastMessage
}

type BroadcastMessage struct {
	ClientID int64
	Message  *WSMessage
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		Register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.clientID] == nil {
		h.clients[client.clientID] = make(map[*Client]bool)
	}
	h.clients[client.clientID][client] = true

	log.Printf("ws client connected: client=%d, total=%d", client.clientID, h.totalClients())

	client.SendMessage(&WSMessage{Type: EventTypeConnected, Data: map[string]interface{}{
		"client_id": client.clientID,
	}})
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.clientID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.clientID)
			}

			log.Printf("ws client disconnected: client=%d, total=%d", client.clientID, h.totalClients())
		}
	}
}

func (h *Hub) deliver(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.clients[msg.ClientID]; ok {
		for client := range clients {
			client.SendMessage(msg.Message)
		}
	}
}

// BroadcastOrderUpdate pushes an order's latest state to every session of
// the owning client. Dropped silently when nobody is connected.
func (h *Hub) BroadcastOrderUpdate(clientID int64, o *order.Order) {
	h.broadcast <- &BroadcastMessage{
		ClientID: clientID,
		Message:  &WSMessage{Type: EventTypeOrderUpdate, Data: map[string]interface{}{"order": o}},
	}
}

func (h *Hub) ConnectedClients(clientID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.clients[clientID]; ok {
		return len(clients)
	}
	return 0
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
	}
}

func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
