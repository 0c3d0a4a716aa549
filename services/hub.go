package services

import (
	"encoding/json"
	"sync"

	"github.com/crapstable/craps-backend/utils/logger"
)

// envelope is the push event shape shared by every ws message.
type envelope struct {
	Type    string `json:"type"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Hub holds the set of connected realtime clients and pushes table
// events to them. Clients that cannot keep up have messages dropped;
// dead connections are pruned when their pumps exit.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	table   *Table
}

func NewHub(table *Table) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		table:   table,
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	logger.Infof("ws client %s connected (total=%d)", c.id, h.clientCount())
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
	}
	h.mu.Unlock()

	if ok {
		c.Close()
		logger.Infof("ws client %s disconnected (total=%d)", id, h.clientCount())
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast pushes one event to every connected client.
func (h *Hub) Broadcast(event envelope) {
	raw, err := json.Marshal(event)
	if err != nil {
		logger.Errorf("marshal %s event: %v", event.Type, err)
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.trySend(raw)
	}
}

// BroadcastState pushes a fresh snapshot to every client. Called after
// each committed mutation so delivered snapshots are always
// self-consistent.
func (h *Hub) BroadcastState() {
	snap, err := h.table.State()
	if err != nil {
		logger.Errorf("snapshot for broadcast: %v", err)
		return
	}
	h.Broadcast(envelope{Type: "game_state", Data: snap})
}
