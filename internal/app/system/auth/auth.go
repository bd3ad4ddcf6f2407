// internal/app/system/auth/auth.go

// Package auth implements bearer-token authentication for the API.
//
// A TokenManager signs and verifies JWTs carrying the user ID and role.
// The Middleware resolves the Authorization header on every request and,
// when the token is valid, loads a fresh user record through a UserLoader
// so role changes and deactivated accounts take effect immediately. The
// authenticated Identity is threaded through the request context; handlers
// read it with CurrentUser.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/campusgames/meethub/internal/app/system/httpjson"
	"github.com/campusgames/meethub/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const tokenIssuer = "meethub"

// Identity is the authenticated caller injected into r.Context().
type Identity struct {
	ID      primitive.ObjectID
	Name    string
	Email   string
	Role    string
	HouseID *primitive.ObjectID
}

type ctxKey string

const identityKey ctxKey = "identity"

// CurrentUser returns the authenticated identity and a found flag.
func CurrentUser(r *http.Request) (*Identity, bool) {
	id, ok := r.Context().Value(identityKey).(*Identity)
	return id, ok
}

// WithTestUser injects an identity directly, bypassing token parsing.
// For use in handler tests only.
func WithTestUser(r *http.Request, id *Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityKey, id))
}

// Claims is the JWT payload: subject is the user ID hex, plus the role
// at issue time. The role is advisory; the middleware re-reads the user
// record on every request.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies bearer tokens.
type TokenManager struct {
	secret []byte
	expiry time.Duration
}

// NewTokenManager validates the signing secret and returns a manager.
func NewTokenManager(secret string, expiry time.Duration, logger *zap.Logger) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty; provide >=32 random chars")
	}
	if len(secret) < 32 {
		logger.Warn("jwt secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	return &TokenManager{secret: []byte(secret), expiry: expiry}, nil
}

// Issue creates a signed token for the user.
func (tm *TokenManager) Issue(u *models.User) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.Hex(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.expiry)),
		},
	})
	return tok.SignedString(tm.secret)
}

// Parse verifies the signature and expiry and returns the claims.
func (tm *TokenManager) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return tm.secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// UserLoader fetches a user record by ID. The user store satisfies this.
type UserLoader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Middleware resolves bearer tokens into request identities.
type Middleware struct {
	Tokens *TokenManager
	Users  UserLoader
	Log    *zap.Logger
}

// NewMiddleware constructs the auth middleware.
func NewMiddleware(tokens *TokenManager, users UserLoader, logger *zap.Logger) *Middleware {
	return &Middleware{Tokens: tokens, Users: users, Log: logger}
}

// Authenticate loads the identity into context when a valid bearer token
// is presented. Requests without a usable token continue anonymously;
// RequireAuth and RequireRole enforce access on protected routes.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.Tokens.Parse(raw)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		uid, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		u, err := m.Users.GetByID(r.Context(), uid)
		if err != nil || !u.IsActive {
			// Deleted or deactivated accounts authenticate as nobody.
			next.ServeHTTP(w, r)
			return
		}

		id := &Identity{
			ID:      u.ID,
			Name:    u.Name,
			Email:   u.Email,
			Role:    u.Role,
			HouseID: u.HouseID,
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
	})
}

// RequireAuth rejects requests without an authenticated identity.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			httpjson.ErrorMsg(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects requests whose identity lacks one of the allowed
// roles: 401 when anonymous, 403 when authenticated with the wrong role.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				httpjson.ErrorMsg(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				httpjson.ErrorMsg(w, http.StatusForbidden, "Insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
