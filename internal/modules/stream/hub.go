package stream

import (
	"context"
	"sync"

	"bluereserve/internal/domain"
	"bluereserve/internal/events"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type client struct {
	conn       *websocket.Conn
	resourceID string // empty receives every event
	mu         sync.Mutex
}

func (c *client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub fans lifecycle events out to connected websocket clients.
type Hub struct {
	clients map[*client]struct{}
	mutex   sync.RWMutex
	log     logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

func (h *Hub) Register(conn *websocket.Conn, resourceID string) *client {
	c := &client{conn: conn, resourceID: resourceID}

	h.mutex.Lock()
	h.clients[c] = struct{}{}
	h.mutex.Unlock()

	return c
}

func (h *Hub) Unregister(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, exists := h.clients[c]; exists {
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}

// Handle is an events.Handler. Clients whose write fails are dropped.
func (h *Hub) Handle(_ context.Context, e domain.Event) error {
	env := events.NewEnvelope(e)

	h.mutex.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		if c.resourceID == "" || c.resourceID == env.ResourceID {
			targets = append(targets, c)
		}
	}
	h.mutex.RUnlock()

	for _, c := range targets {
		if err := c.send(env); err != nil {
			h.log.WithError(err).Debug("websocket write failed, dropping client")
			h.Unregister(c)
		}
	}
	return nil
}

func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for c := range h.clients {
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}
