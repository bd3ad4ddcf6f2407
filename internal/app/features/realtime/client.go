// internal/app/features/realtime/client.go
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// Inbound messages are tiny room-management commands.
	maxMessageSize = 512
	sendBuffer     = 64
)

// clientMessage is the inbound wire form: room joins and leaves.
type clientMessage struct {
	Type    string `json:"type"` // "join-house" | "leave-house"
	HouseID string `json:"house"`
}

// Client is one websocket connection and its room memberships.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	log  *zap.Logger

	mu    sync.Mutex
	rooms map[primitive.ObjectID]bool
}

func (c *Client) inAnyRoom(houseIDs []primitive.ObjectID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range houseIDs {
		if c.rooms[id] {
			return true
		}
	}
	return false
}

func (c *Client) setRoom(id primitive.ObjectID, member bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if member {
		c.rooms[id] = true
	} else {
		delete(c.rooms, id)
	}
}

// readPump consumes room commands until the connection drops, then
// unregisters the client.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("websocket read error",
					zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}
		c.handleMessage(raw)
	}
}

func (c *Client) handleMessage(raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}

	houseID, err := primitive.ObjectIDFromHex(msg.HouseID)
	if err != nil {
		return
	}

	switch msg.Type {
	case "join-house":
		c.setRoom(houseID, true)
	case "leave-house":
		c.setRoom(houseID, false)
	}
}

// writePump drains the send channel to the connection and keeps the
// connection alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
