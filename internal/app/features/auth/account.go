// internal/app/features/auth/account.go

// Self-service endpoints for the authenticated user: current identity,
// profile edits, and password changes.
package auth

import (
	"errors"
	"net/http"

	housestore "github.com/campusgames/meethub/internal/app/store/houses"
	"github.com/campusgames/meethub/internal/app/system/apperr"
	appauth "github.com/campusgames/meethub/internal/app/system/auth"
	"github.com/campusgames/meethub/internal/app/system/httpjson"
	"github.com/campusgames/meethub/internal/app/system/inputval"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ServeMe handles GET /auth/me.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	id, _ := appauth.CurrentUser(r)

	u, err := h.Users.GetByID(r.Context(), id.ID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, u)
}

type profileRequest struct {
	Name    *string `json:"name"`
	HouseID *string `json:"house_id"`
}

// HandleProfile handles PUT /auth/profile. Users may rename themselves
// and pick a house; roles stay admin-controlled.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := appauth.CurrentUser(r)

	var req profileRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if req.Name != nil {
		if err := inputval.Required(*req.Name, "name"); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		if err := inputval.MaxLen(*req.Name, "name", 100); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
	}

	var houseID *primitive.ObjectID
	if req.HouseID != nil {
		hid, err := primitive.ObjectIDFromHex(*req.HouseID)
		if err != nil {
			httpjson.Error(w, h.Log, apperr.Validationf("Invalid house id"))
			return
		}
		if _, err := h.Houses.GetByID(r.Context(), hid); err != nil {
			if errors.Is(err, housestore.ErrNotFound) {
				httpjson.Error(w, h.Log, apperr.NotFoundf("House not found"))
				return
			}
			httpjson.Error(w, h.Log, err)
			return
		}
		houseID = &hid
	}

	if err := h.Users.UpdateProfile(r.Context(), id.ID, req.Name, houseID); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	u, err := h.Users.GetByID(r.Context(), id.ID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, u)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// HandleChangePassword handles PUT /auth/change-password.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	id, _ := appauth.CurrentUser(r)

	var req changePasswordRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := inputval.MinLen(req.NewPassword, "new password", minPasswordLen); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	u, err := h.Users.GetByID(r.Context(), id.ID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.CurrentPassword)); err != nil {
		httpjson.Error(w, h.Log, apperr.New(apperr.Auth, "Current password is incorrect"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := h.Users.SetPassword(r.Context(), id.ID, string(hash)); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("password changed", zap.String("user_id", id.ID.Hex()))
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "Password updated"})
}
