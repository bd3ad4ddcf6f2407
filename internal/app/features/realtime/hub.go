// internal/app/features/realtime/hub.go

// Package realtime pushes domain events to websocket clients. Every
// connected client receives the global feed; clients may additionally
// join per-house rooms to get house events on the house channel too.
package realtime

import (
	"context"
	"encoding/json"

	"github.com/campusgames/meethub/internal/domain/events"
	"go.uber.org/zap"
)

// envelope is the wire form of an outbound event.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub owns the client set and fans events out to it. It implements
// events.Publisher, so the lifecycle engine and announcement handlers
// publish through it without knowing about websockets.
type Hub struct {
	log        *zap.Logger
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	events     chan events.Event
}

// NewHub constructs a hub. Call Run to start delivery.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		log:        logger,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan events.Event, 256),
	}
}

// Publish implements events.Publisher. Delivery is best-effort: when the
// hub's queue is full the event is dropped rather than blocking the
// request that produced it.
func (h *Hub) Publish(ev events.Event) {
	select {
	case h.events <- ev:
	default:
		h.log.Warn("event queue full, dropping event", zap.String("event", ev.Name))
	}
}

// Run delivers events until ctx is cancelled. The hub goroutine is the
// only writer to the client set, so no lock is needed.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			h.log.Debug("client connected",
				zap.String("client_id", c.id),
				zap.Int("clients", len(h.clients)))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.log.Debug("client disconnected",
				zap.String("client_id", c.id),
				zap.Int("clients", len(h.clients)))

		case ev := <-h.events:
			h.deliver(ev)
		}
	}
}

func (h *Hub) deliver(ev events.Event) {
	msg, err := json.Marshal(envelope{Event: ev.Name, Data: ev.Payload})
	if err != nil {
		h.log.Error("marshal event failed", zap.String("event", ev.Name), zap.Error(err))
		return
	}

	// Global channel first: every client gets every event.
	for c := range h.clients {
		h.send(c, msg)
	}

	// House channel: room members get a second copy for each event
	// involving a house they joined.
	if len(ev.HouseIDs) == 0 {
		return
	}
	for c := range h.clients {
		if c.inAnyRoom(ev.HouseIDs) {
			h.send(c, msg)
		}
	}
}

func (h *Hub) send(c *Client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		// Slow consumer: drop the connection rather than the feed.
		delete(h.clients, c)
		close(c.send)
		h.log.Warn("client send buffer full, dropping client",
			zap.String("client_id", c.id))
	}
}
