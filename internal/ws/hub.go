package ws

import (
	"encoding/json"
	"sync"

	"trashcash_webapp/internal/logger"
	"trashcash_webapp/internal/service"
)

// Hub fans balance events out to every open connection of a user.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[*Client]struct{})}
}

type balanceMessage struct {
	Type string `json:"type"`
	service.BalanceEvent
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.Send)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
}

// Publish implements service.EventPublisher. Slow clients drop messages
// rather than block the caller.
func (h *Hub) Publish(ev service.BalanceEvent) {
	msg, err := json.Marshal(balanceMessage{Type: MsgBalance, BalanceEvent: ev})
	if err != nil {
		logger.Error("ws: marshal balance event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[ev.UserID] {
		select {
		case c.Send <- msg:
		default:
			logger.Warn("ws: send buffer full, dropping event", "user_id", ev.UserID)
		}
	}
}

// Connections returns the number of open connections for userID.
func (h *Hub) Connections(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
