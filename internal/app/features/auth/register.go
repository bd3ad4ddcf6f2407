// internal/app/features/auth/register.go
package auth

import (
	"errors"
	"net/http"

	userstore "github.com/campusgames/meethub/internal/app/store/users"
	"github.com/campusgames/meethub/internal/app/system/apperr"
	"github.com/campusgames/meethub/internal/app/system/httpjson"
	"github.com/campusgames/meethub/internal/app/system/inputval"
	"github.com/campusgames/meethub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// HandleRegister handles POST /auth/register. Self-registration always
// produces a student; roles are granted by admins afterwards.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	// Same per-IP budget as login; no per-email window for signups.
	if ok, reason := h.Logins.Check(r, ""); !ok {
		httpjson.ErrorMsg(w, http.StatusTooManyRequests, reason)
		return
	}

	if err := validateCredentials(req.Name, req.Email, req.Password); err != nil {
		httpjson.Error(w, h.Log, err)
		return
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
		Role:     models.RoleStudent,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpjson.Error(w, h.Log, apperr.Validationf("Email is already registered"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	token, err := h.Tokens.Issue(&u)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("user registered", zap.String("user_id", u.ID.Hex()))
	httpjson.Write(w, http.StatusCreated, authResponse{Token: token, User: &u})
}

func validateCredentials(name, email, password string) error {
	if err := inputval.Required(name, "name"); err != nil {
		return err
	}
	if err := inputval.MaxLen(name, "name", 100); err != nil {
		return err
	}
	if !inputval.Email(email) {
		return apperr.Validationf("A valid email is required")
	}
	return inputval.MinLen(password, "password", minPasswordLen)
}
