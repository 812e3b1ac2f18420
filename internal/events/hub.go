// Package events pushes domain events to connected registers over websockets.
package events

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edvin/retailpos/internal/model"
)

const (
	clientBuffer = 32
	writeTimeout = 10 * time.Second
)

type client struct {
	id   string
	send chan []byte
	// done is closed when the hub drops the client.
	done chan struct{}
}

// Hub fans published events out to every connected websocket client. A client
// whose buffer fills up is disconnected rather than blocking publishers.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
	origins []string
	logger  zerolog.Logger
	now     func() time.Time
}

func NewHub(originPatterns []string, logger zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		origins: originPatterns,
		logger:  logger.With().Str("component", "events").Logger(),
		now:     time.Now,
	}
}

// Publish broadcasts an event. It never blocks.
func (h *Hub) Publish(eventType string, data any) {
	msg, err := json.Marshal(model.Event{Type: eventType, Data: data, At: h.now().UTC()})
	if err != nil {
		h.logger.Error().Err(err).Str("type", eventType).Msg("failed to encode event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn().Str("client_id", id).Msg("dropping slow event client")
			h.removeLocked(id)
		}
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add() *client {
	c := &client{
		id:   uuid.NewString(),
		send: make(chan []byte, clientBuffer),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	return c
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(id)
}

func (h *Hub) removeLocked(id string) {
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.done)
	}
}

// ServeHTTP upgrades the request and streams events until the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		return // Accept already wrote the HTTP error
	}
	defer conn.CloseNow()

	c := h.add()
	defer h.remove(c.id)
	h.logger.Debug().Str("client_id", c.id).Str("remote", r.RemoteAddr).Msg("event client connected")

	// Registers never send anything; CloseRead handles control frames and
	// cancels ctx when the peer disconnects.
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			conn.Close(websocket.StatusPolicyViolation, "too slow")
			return
		case msg := <-c.send:
			if err := write(ctx, conn, msg); err != nil {
				h.logger.Debug().Err(err).Str("client_id", c.id).Msg("event write failed")
				return
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, msg)
}
