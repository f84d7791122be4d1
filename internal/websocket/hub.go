package websocket

import (
	"encoding/json"
	"sync"
)

// RejectionNotice is pushed to a broker's open sockets when a customer
// rejects one of their offers.
type RejectionNotice struct {
	RejectionID string `json:"rejection_id"`
	InquiryID   string `json:"inquiry_id"`
	City        string `json:"city"`
	Area        string `json:"area"`
	Message     string `json:"message"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(brokerID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[brokerID] == nil {
		h.clients[brokerID] = make(map[*Client]struct{})
	}
	h.clients[brokerID][client] = struct{}{}
}

func (h *Hub) Unregister(brokerID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[brokerID] == nil {
		return
	}
	delete(h.clients[brokerID], client)
	if len(h.clients[brokerID]) == 0 {
		delete(h.clients, brokerID)
	}
}

func (h *Hub) BroadcastRejection(brokerID string, notice RejectionNotice) {
	payload, _ := json.Marshal(notice)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[brokerID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
