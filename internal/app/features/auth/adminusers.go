// internal/app/features/auth/adminusers.go

// Admin user management: list, create with an explicit role, and update
// role/house/active/password on any account.
package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	housestore "github.com/campusgames/meethub/internal/app/store/houses"
	userstore "github.com/campusgames/meethub/internal/app/store/users"
	"github.com/campusgames/meethub/internal/app/system/apperr"
	"github.com/campusgames/meethub/internal/app/system/httpjson"
	"github.com/campusgames/meethub/internal/app/system/inputval"
	"github.com/campusgames/meethub/internal/app/system/normalize"
	"github.com/campusgames/meethub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ServeUserList handles GET /users.
func (h *Handler) ServeUserList(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, users)
}

type createUserRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	HouseID  *string `json:"house_id"`
}

// HandleCreateUser handles POST /users.
func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := validateCredentials(req.Name, req.Email, req.Password); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	role := normalize.Role(req.Role)
	if role == "" {
		role = models.RoleStudent
	}
	if !models.ValidRole(role) {
		httpjson.Error(w, h.Log, apperr.Validationf("Unknown role %q", req.Role))
		return
	}

	var houseID *primitive.ObjectID
	if req.HouseID != nil {
		hid, err := h.resolveHouse(r, *req.HouseID)
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		houseID = hid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	u, err := h.Users.Create(r.Context(), models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Role:     role,
		HouseID:  houseID,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpjson.Error(w, h.Log, apperr.Validationf("Email is already registered"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("user created by admin",
		zap.String("user_id", u.ID.Hex()), zap.String("role", u.Role))
	httpjson.Write(w, http.StatusCreated, &u)
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	HouseID  *string `json:"house_id"` // "" clears the house
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password"`
}

// HandleUpdateUser handles PUT /users/{id}.
func (h *Handler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	uid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validationf("Invalid user id"))
		return
	}

	var req updateUserRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	upd := userstore.AdminUpdate{Name: req.Name, IsActive: req.IsActive}

	if req.Role != nil {
		role := normalize.Role(*req.Role)
		if !models.ValidRole(role) {
			httpjson.Error(w, h.Log, apperr.Validationf("Unknown role %q", *req.Role))
			return
		}
		upd.Role = &role
	}

	if req.HouseID != nil {
		if *req.HouseID == "" {
			upd.ClearHouse = true
		} else {
			hid, err := h.resolveHouse(r, *req.HouseID)
			if err != nil {
				httpjson.Error(w, h.Log, err)
				return
			}
			upd.HouseID = hid
		}
	}

	if req.Password != nil {
		if err := inputval.MinLen(*req.Password, "password", minPasswordLen); err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		s := string(hash)
		upd.Password = &s
	}

	if err := h.Users.ApplyAdminUpdate(r.Context(), uid, upd); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, h.Log, apperr.NotFoundf("User not found"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	u, err := h.Users.GetByID(r.Context(), uid)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, u)
}

// resolveHouse parses and verifies a house ID from a request body.
func (h *Handler) resolveHouse(r *http.Request, raw string) (*primitive.ObjectID, error) {
	hid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, apperr.Validationf("Invalid house id")
	}
	if _, err := h.Houses.GetByID(r.Context(), hid); err != nil {
		if errors.Is(err, housestore.ErrNotFound) {
			return nil, apperr.NotFoundf("House not found")
		}
		return nil, err
	}
	return &hid, nil
}
