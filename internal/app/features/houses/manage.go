// internal/app/features/houses/manage.go

// Admin house management. Captain assignment is two-sided: the house
// records its captain and the user's role and house follow. Deleting a
// house cascades: the captain drops back to student and every member's
// house reference is cleared.
package houses

import (
	"errors"
	"net/http"

	housestore "github.com/campusgames/meethub/internal/app/store/houses"
	userstore "github.com/campusgames/meethub/internal/app/store/users"
	"github.com/campusgames/meethub/internal/app/system/apperr"
	"github.com/campusgames/meethub/internal/app/system/httpjson"
	"github.com/campusgames/meethub/internal/app/system/inputval"
	"github.com/campusgames/meethub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createHouseRequest struct {
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Motto       string  `json:"motto"`
	Description string  `json:"description"`
	CaptainID   *string `json:"captain_id"`
}

// HandleCreate handles POST /houses.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createHouseRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := validateHouseFields(req.Name, req.Color); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if err := validateHouseText(req.Motto, req.Description); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var captainID *primitive.ObjectID
	if req.CaptainID != nil {
		cid, err := h.vetCaptain(r, *req.CaptainID, nil)
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		captainID = cid
	}

	house, err := h.Houses.Create(r.Context(), models.House{
		Name:        req.Name,
		Color:       req.Color,
		Motto:       req.Motto,
		Description: req.Description,
		CaptainID:   captainID,
	})
	if err != nil {
		if errors.Is(err, housestore.ErrDuplicateName) {
			httpjson.Error(w, h.Log, apperr.Validationf("A house with this name already exists"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	if captainID != nil {
		if err := h.Users.AssignHouseRole(r.Context(), *captainID, models.RoleCaptain, house.ID); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
	}

	h.Log.Info("house created",
		zap.String("house_id", house.ID.Hex()), zap.String("name", house.Name))
	httpjson.Write(w, http.StatusCreated, &house)
}

type updateHouseRequest struct {
	Name        *string `json:"name"`
	Color       *string `json:"color"`
	Motto       *string `json:"motto"`
	Description *string `json:"description"`
	CaptainID   *string `json:"captain_id"` // "" removes the captain
	IsActive    *bool   `json:"is_active"`
}

// HandleUpdate handles PUT /houses/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := houseID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req updateHouseRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	cur, err := h.Houses.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, housestore.ErrNotFound) {
			httpjson.Error(w, h.Log, apperr.NotFoundf("House not found"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	if req.Name != nil {
		if err := validateHouseFields(*req.Name, "#000000"); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
	}
	if req.Color != nil && !inputval.HexColor(*req.Color) {
		httpjson.Error(w, h.Log, apperr.Validationf("Color must be a 6-digit hex value like #FF0000"))
		return
	}
	var motto, desc string
	if req.Motto != nil {
		motto = *req.Motto
	}
	if req.Description != nil {
		desc = *req.Description
	}
	if err := validateHouseText(motto, desc); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	upd := housestore.Update{
		Name:        req.Name,
		Color:       req.Color,
		Motto:       req.Motto,
		Description: req.Description,
		IsActive:    req.IsActive,
	}

	var newCaptain *primitive.ObjectID
	if req.CaptainID != nil {
		if *req.CaptainID == "" {
			upd.ClearCaptain = true
		} else {
			cid, err := h.vetCaptain(r, *req.CaptainID, &id)
			if err != nil {
				httpjson.Error(w, h.Log, err)
				return
			}
			upd.CaptainID = cid
			newCaptain = cid
		}
	}

	if err := h.Houses.Apply(r.Context(), id, upd); err != nil {
		if errors.Is(err, housestore.ErrDuplicateName) {
			httpjson.Error(w, h.Log, apperr.Validationf("A house with this name already exists"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	// Captain bookkeeping after the house write: demote the outgoing
	// captain, promote the incoming one.
	if req.CaptainID != nil && cur.CaptainID != nil {
		replaced := upd.ClearCaptain || (newCaptain != nil && *newCaptain != *cur.CaptainID)
		if replaced {
			if err := h.Users.DemoteCaptain(r.Context(), *cur.CaptainID, false); err != nil {
				httpjson.Error(w, h.Log, err)
				return
			}
		}
	}
	if newCaptain != nil {
		if err := h.Users.AssignHouseRole(r.Context(), *newCaptain, models.RoleCaptain, id); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
	}

	house, err := h.Houses.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, house)
}

// HandleDelete handles DELETE /houses/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

	if house.CaptainID != nil {
		if err := h.Users.DemoteCaptain(r.Context(), *house.CaptainID, true); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
	}
	detached, err := h.Users.DetachHouseMembers(r.Context(), id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := h.Houses.Delete(r.Context(), id); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("house deleted",
		zap.String("house_id", id.Hex()),
		zap.Int64("members_detached", detached))
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "House deleted"})
}

type setScoreRequest struct {
	TotalScore *int `json:"total_score"`
}

// HandleSetScore handles PATCH /houses/{id}/score: an absolute override
// of the running total, outside the match award path.
func (h *Handler) HandleSetScore(w http.ResponseWriter, r *http.Request) {
	id, err := houseID(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	var req setScoreRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if req.TotalScore == nil {
		httpjson.Error(w, h.Log, apperr.Validationf("total_score is required"))
		return
	}
	if *req.TotalScore < 0 {
		httpjson.Error(w, h.Log, apperr.Validationf("total_score cannot be negative"))
		return
	}

	if err := h.Houses.SetScore(r.Context(), id, *req.TotalScore); err != nil {
		if errors.Is(err, housestore.ErrNotFound) {
			httpjson.Error(w, h.Log, apperr.NotFoundf("House not found"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	house, err := h.Houses.GetByID(r.Context(), id)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("house score overridden",
		zap.String("house_id", id.Hex()), zap.Int("total_score", *req.TotalScore))
	httpjson.Write(w, http.StatusOK, house)
}

// vetCaptain checks that the prospective captain exists and is not
// already captaining a different house.
func (h *Handler) vetCaptain(r *http.Request, raw string, thisHouse *primitive.ObjectID) (*primitive.ObjectID, error) {
	cid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, apperr.Validationf("Invalid captain id")
	}

	u, err := h.Users.GetByID(r.Context(), cid)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			return nil, apperr.NotFoundf("Captain user not found")
		}
		return nil, err
	}

	if u.Role == models.RoleCaptain && u.HouseID != nil {
		if thisHouse == nil || *u.HouseID != *thisHouse {
			return nil, apperr.Validationf("%s already captains another house", u.Name)
		}
	}
	return &cid, nil
}

func validateHouseFields(name, color string) error {
	if err := inputval.Required(name, "name"); err != nil {
		return err
	}
	if err := inputval.MaxLen(name, "name", 50); err != nil {
		return err
	}
	if !inputval.HexColor(color) {
		return apperr.Validationf("Color must be a 6-digit hex value like #FF0000")
	}
	return nil
}

func validateHouseText(motto, description string) error {
	if err := inputval.MaxLen(motto, "motto", 100); err != nil {
		return err
	}
	return inputval.MaxLen(description, "description", 200)
}
