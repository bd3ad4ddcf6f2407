// internal/app/features/auth/login.go
package auth

import (
	"errors"
	"net/http"

	userstore "github.com/campusgames/meethub/internal/app/store/users"
	"github.com/campusgames/meethub/internal/app/system/apperr"
	"github.com/campusgames/meethub/internal/app/system/httpjson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /auth/login.
//
// Failures are deliberately uniform: a wrong password and an unknown
// email produce the same message, so the endpoint cannot be used to
// probe which accounts exist.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if ok, reason := h.Logins.Check(r, req.Email); !ok {
		httpjson.ErrorMsg(w, http.StatusTooManyRequests, reason)
		return
	}

	invalid := apperr.New(apperr.Auth, "Invalid email or password")

	u, err := h.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			// Burn comparable time so lookups and mismatches are
			// indistinguishable by latency.
			bcrypt.CompareHashAndPassword([]byte("$2a$10$000000000000000000000u"), []byte(req.Password))
			httpjson.Error(w, h.Log, invalid)
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		httpjson.Error(w, h.Log, invalid)
		return
	}

	if !u.IsActive {
		httpjson.Error(w, h.Log, apperr.New(apperr.Auth, "Account is deactivated"))
		return
	}

	token, err := h.Tokens.Issue(u)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Logins.ResetEmail(req.Email)
	h.Log.Info("user logged in", zap.String("user_id", u.ID.Hex()))
	httpjson.Write(w, http.StatusOK, authResponse{Token: token, User: u})
}
