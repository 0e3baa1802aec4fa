package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/logger"
)

type Client struct {
	ID     string
	UserID uuid.UUID
	Send   chan []byte
}

func NewClient(userID uuid.UUID) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Send:   make(chan []byte, 256),
	}
}

// Hub tracks the websocket clients connected to this instance.
type Hub struct {
	clients map[string]*Client
	closed  bool
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

func (h *Hub) RegisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(client.Send)
		return
	}
	h.clients[client.ID] = client
	logger.Debug("ws client registered", "client_id", client.ID, "user_id", client.UserID)
}

func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(old.Send)
		logger.Debug("ws client unregistered", "client_id", client.ID)
	}
}

// SendToUser delivers payload to every socket of the user. Full buffers are
// skipped rather than blocking.
func (h *Hub) SendToUser(userID uuid.UUID, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, client := range h.clients {
		if client.UserID != userID {
			continue
		}
		select {
		case client.Send <- payload:
			delivered++
		default:
		}
	}
	return delivered
}

// Run blocks until done is closed, then drops every client.
func (h *Hub) Run(done <-chan struct{}) {
	<-done
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, client := range h.clients {
		close(client.Send)
		delete(h.clients, id)
	}
}
