// Package ws pushes live activity events to connected admin dashboards so
// point awards and redemptions show up without a page refresh.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Event is a real-time notification broadcast to every connected dashboard.
type Event struct {
	Type string         `json:"type"`
	At   time.Time      `json:"at"`
	Data map[string]any `json:"data,omitempty"`
}

// Event type constants. Dashboards switch on these to decide which panel
// to refresh.
const (
	EventPointsAwarded     = "points_awarded"
	EventGiftRedeemed      = "gift_redeemed"
	EventTechnicianCreated = "technician_created"
	EventGiftCreated       = "gift_created"
)

// NewEvent stamps an event with the current UTC time.
func NewEvent(typ string, data map[string]any) Event {
	return Event{Type: typ, At: time.Now().UTC(), Data: data}
}

// Hub tracks connected dashboard clients and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast delivers the event to every connected client. Clients whose
// send buffer is full miss the event rather than block the caller.
func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
