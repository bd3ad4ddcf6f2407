// internal/app/features/realtime/handler.go
package realtime

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler upgrades HTTP requests into hub clients.
type Handler struct {
	Hub *Hub
	Log *zap.Logger

	upgrader websocket.Upgrader
}

// NewHandler constructs the websocket handler. Cross-origin policy is
// enforced by the CORS middleware in front of the router, so the
// upgrader accepts any origin that made it this far.
func NewHandler(hub *Hub, logger *zap.Logger) *Handler {
	return &Handler{
		Hub: hub,
		Log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Serve handles GET /ws.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.Log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &Client{
		id:    uuid.NewString(),
		hub:   h.Hub,
		conn:  conn,
		send:  make(chan []byte, sendBuffer),
		log:   h.Log,
		rooms: make(map[primitive.ObjectID]bool),
	}
	h.Hub.register <- c

	go c.writePump()
	go c.readPump()
}
