// internal/app/features/announcements/board.go

// Read endpoints for the announcement board.
package announcements

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	announcementstore "github.com/campusgames/meethub/internal/app/store/announcements"
	"github.com/campusgames/meethub/internal/app/system/apperr"
	"github.com/campusgames/meethub/internal/app/system/httpjson"
	"github.com/campusgames/meethub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const recentCount = 5

// ServeList handles GET /announcements with optional priority and house
// filters. A house filter also returns global announcements, matching
// what a member of that house should see.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	f := announcementstore.Filter{Priority: r.URL.Query().Get("priority")}

	if raw := r.URL.Query().Get("house"); raw != "" {
		hid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			httpjson.Error(w, h.Log, apperr.Validationf("Invalid house id"))
			return
		}
		f.HouseID = &hid
	}

	h.list(w, r, f, 0)
}

// ServeRecent handles GET /announcements/recent: the latest few active
// announcements for the landing page.
func (h *Handler) ServeRecent(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, announcementstore.Filter{}, recentCount)
}

// ServeByHouse handles GET /announcements/house/{id}: that house's feed,
// globals included.
func (h *Handler) ServeByHouse(w http.ResponseWriter, r *http.Request) {
	hid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validationf("Invalid house id"))
		return
	}
	h.list(w, r, announcementstore.Filter{HouseID: &hid}, 0)
}

// ServeAnnouncement handles GET /announcements/{id}.
func (h *Handler) ServeAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := announcementID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	a, err := h.Announcements.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, announcementstore.ErrNotFound) {
			httpjson.Error(w, h.Log, apperr.NotFoundf("Announcement not found"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, a)
}

// ServeStats handles GET /announcements/stats.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Announcements.GetStats(r.Context())
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, stats)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, f announcementstore.Filter, limit int) {
	anns, err := h.Announcements.List(r.Context(), f)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if limit > 0 && len(anns) > limit {
		anns = anns[:limit]
	}
	if anns == nil {
		anns = []models.Announcement{}
	}
	httpjson.Write(w, http.StatusOK, anns)
}

func announcementID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.Validationf("Invalid announcement id")
	}
	return id, nil
}
