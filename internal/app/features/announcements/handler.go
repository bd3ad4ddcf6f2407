// internal/app/features/announcements/handler.go

// Package announcements exposes the announcement board. Posts are
// sanitized on the way in, scoped globally or to one house, and fan out
// to connected clients when created.
package announcements

import (
	announcementstore "github.com/campusgames/meethub/internal/app/store/announcements"
	housestore "github.com/campusgames/meethub/internal/app/store/houses"
	"github.com/campusgames/meethub/internal/domain/events"
	"go.uber.org/zap"
)

// Handler holds the dependencies of the announcement endpoints.
type Handler struct {
	Announcements *announcementstore.Store
	Houses        *housestore.Store
	Pub           events.Publisher
	Log           *zap.Logger
}

// NewHandler constructs an announcements Handler. A nil publisher
// disables realtime fan-out.
func NewHandler(store *announcementstore.Store, houses *housestore.Store, pub events.Publisher, logger *zap.Logger) *Handler {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Handler{Announcements: store, Houses: houses, Pub: pub, Log: logger}
}
