// internal/app/features/matches/list.go
package matches

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	matchstore "github.com/campusgames/meethub/internal/app/store/matches"
	"github.com/campusgames/meethub/internal/app/system/apperr"
	"github.com/campusgames/meethub/internal/app/system/httpjson"
	"github.com/campusgames/meethub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeMatchList handles GET /matches with optional status, sport, and
// house query filters.
func (h *Handler) ServeMatchList(w http.ResponseWriter, r *http.Request) {
	f := matchstore.Filter{
		Status: r.URL.Query().Get("status"),
		Sport:  r.URL.Query().Get("sport"),
	}
	if raw := r.URL.Query().Get("house"); raw != "" {
		hid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			httpjson.Error(w, h.Log, apperr.Validationf("Invalid house id"))
			return
		}
		f.HouseID = &hid
	}

	h.list(w, r, f)
}

// ServeLive handles GET /matches/live.
func (h *Handler) ServeLive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, matchstore.Filter{Status: models.MatchLive})
}

// ServeUpcoming handles GET /matches/upcoming: upcoming matches whose
// scheduled time has not passed yet.
func (h *Handler) ServeUpcoming(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	h.list(w, r, matchstore.Filter{Status: models.MatchUpcoming, After: &now})
}

// ServeFinished handles GET /matches/finished, most recent first.
func (h *Handler) ServeFinished(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, matchstore.Filter{Status: models.MatchFinished, NewestFirst: true})
}

// ServeStats handles GET /matches/stats.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Matches.CountByStatus(r.Context())
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	httpjson.Write(w, http.StatusOK, map[string]int64{
		"total":    total,
		"upcoming": counts[models.MatchUpcoming],
		"live":     counts[models.MatchLive],
		"finished": counts[models.MatchFinished],
	})
}

// ServeMatch handles GET /matches/{id}.
func (h *Handler) ServeMatch(w http.ResponseWriter, r *http.Request) {
	id, err := matchID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	m, err := h.Matches.GetByID(r.Context(), id)
	if err != nil {
		if err == matchstore.ErrNotFound {
			httpjson.Error(w, h.Log, apperr.NotFoundf("Match not found"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, m)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, f matchstore.Filter) {
	matches, err := h.Matches.List(r.Context(), f)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if matches == nil {
		matches = []models.Match{}
	}
	httpjson.Write(w, http.StatusOK, matches)
}

func matchID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.Validationf("Invalid match id")
	}
	return id, nil
}
