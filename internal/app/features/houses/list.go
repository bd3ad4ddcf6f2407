// internal/app/features/houses/list.go
package houses

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	housestore "github.com/campusgames/meethub/internal/app/store/houses"
	"github.com/campusgames/meethub/internal/app/system/apperr"
	"github.com/campusgames/meethub/internal/app/system/httpjson"
	"github.com/campusgames/meethub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// houseWithStats is a house plus its finished-match record, the shape
// the leaderboard renders from.
type houseWithStats struct {
	models.House
	Stats models.HouseStats `json:"stats"`
}

// ServeHouseList handles GET /houses and GET /leaderboard. Houses come
// back in leaderboard order with win/loss/draw records attached.
func (h *Handler) ServeHouseList(w http.ResponseWriter, r *http.Request) {
	houses, err := h.Houses.List(r.Context())
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	out := make([]houseWithStats, 0, len(houses))
	for _, house := range houses {
		stats, err := h.statsFor(r, house.ID)
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		out = append(out, houseWithStats{House: house, Stats: *stats})
	}
	httpjson.Write(w, http.StatusOK, out)
}

// ServeHouse handles GET /houses/{id}.
func (h *Handler) ServeHouse(w http.ResponseWriter, r *http.Request) {
	id, err := houseID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	house, err := h.Houses.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, housestore.ErrNotFound) {
			httpjson.Error(w, h.Log, apperr.NotFoundf("House not found"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, house)
}

// ServeMembers handles GET /houses/{id}/members.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	id, err := houseID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if _, err := h.Houses.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, housestore.ErrNotFound) {
			httpjson.Error(w, h.Log, apperr.NotFoundf("House not found"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	members, err := h.Users.ListByHouse(r.Context(), id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, members)
}

// ServeStats handles GET /houses/{id}/stats.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	id, err := houseID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if _, err := h.Houses.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, housestore.ErrNotFound) {
			httpjson.Error(w, h.Log, apperr.NotFoundf("House not found"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	stats, err := h.statsFor(r, id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, stats)
}

func (h *Handler) statsFor(r *http.Request, id primitive.ObjectID) (*models.HouseStats, error) {
	finished, err := h.Matches.FinishedInvolving(r.Context(), id)
	if err != nil {
		return nil, err
	}

	stats := &models.HouseStats{TotalMatches: len(finished)}
	for _, m := range finished {
		switch {
		case m.WinnerID == nil:
			stats.Draws++
		case *m.WinnerID == id:
			stats.Wins++
		default:
			stats.Losses++
		}
	}
	return stats, nil
}

func houseID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.Validationf("Invalid house id")
	}
	return id, nil
}
