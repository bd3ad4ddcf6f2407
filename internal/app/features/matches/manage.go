// internal/app/features/matches/manage.go
package matches

import (
	"net/http"
	"time"

	"github.com/campusgames/meethub/internal/app/lifecycle"
	"github.com/campusgames/meethub/internal/app/system/apperr"
	appauth "github.com/campusgames/meethub/internal/app/system/auth"
	"github.com/campusgames/meethub/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createMatchRequest struct {
	House1ID    string    `json:"house1_id"`
	House2ID    string    `json:"house2_id"`
	MatchTime   time.Time `json:"match_time"`
	Sport       string    `json:"sport"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	Points      int       `json:"points"`
}

// HandleCreate handles POST /matches.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h1, err := primitive.ObjectIDFromHex(req.House1ID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validationf("Invalid house1 id"))
		return
	}
	h2, err := primitive.ObjectIDFromHex(req.House2ID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validationf("Invalid house2 id"))
		return
	}

	id, _ := appauth.CurrentUser(r)
	m, err := h.Engine.CreateMatch(r.Context(), lifecycle.CreateInput{
		House1ID:    h1,
		House2ID:    h2,
		MatchTime:   req.MatchTime,
		Sport:       req.Sport,
		Description: req.Description,
		Venue:       req.Venue,
		Points:      req.Points,
		CreatedByID: id.ID,
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, m)
}

type updateMatchRequest struct {
	Score1      *int       `json:"score1"`
	Score2      *int       `json:"score2"`
	Status      *string    `json:"status"`
	MatchTime   *time.Time `json:"match_time"`
	Sport       *string    `json:"sport"`
	Description *string    `json:"description"`
	Venue       *string    `json:"venue"`
	Points      *int       `json:"points"`
}

// HandleUpdate handles PUT /matches/{id}. A status change in the body
// runs the corresponding lifecycle transition; in particular
// status:"finished" goes through the same finish path as the dedicated
// endpoint, point award included.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := matchID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req updateMatchRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	m, err := h.Engine.Update(r.Context(), id, lifecycle.UpdateInput{
		Score1:      req.Score1,
		Score2:      req.Score2,
		Status:      req.Status,
		MatchTime:   req.MatchTime,
		Sport:       req.Sport,
		Description: req.Description,
		Venue:       req.Venue,
		Points:      req.Points,
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, m)
}

type scoresRequest struct {
	Score1 *int `json:"score1"`
	Score2 *int `json:"score2"`
}

// HandleUpdateScores handles PATCH /scores/{id}, the score-uploader
// fast path. Either score may be omitted; the missing side keeps its
// stored value and the winner is rederived from the result.
func (h *Handler) HandleUpdateScores(w http.ResponseWriter, r *http.Request) {
	id, err := matchID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req scoresRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if req.Score1 == nil && req.Score2 == nil {
		httpjson.Error(w, h.Log, apperr.Validationf("At least one score is required"))
		return
	}

	m, err := h.Engine.Update(r.Context(), id, lifecycle.UpdateInput{
		Score1: req.Score1,
		Score2: req.Score2,
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, m)
}

// HandleStart handles PATCH /matches/{id}/start.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	id, err := matchID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	m, err := h.Engine.StartMatch(r.Context(), id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, m)
}

// HandleFinish handles PATCH /matches/{id}/finish, optionally carrying
// final scores.
func (h *Handler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	id, err := matchID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req scoresRequest
	if r.ContentLength > 0 {
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
	}

	m, err := h.Engine.FinishMatch(r.Context(), id, req.Score1, req.Score2)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, m)
}

// HandleDelete handles DELETE /matches/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := matchID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := h.Engine.DeleteMatch(r.Context(), id); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "Match deleted"})
}
