package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campusgames/meethub/internal/app/system/auth"
	"github.com/campusgames/meethub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakeUserLoader serves users from a map, standing in for the user store.
type fakeUserLoader struct {
	users map[primitive.ObjectID]*models.User
}

func (f *fakeUserLoader) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, context.Canceled // any error will do; middleware treats it as anonymous
	}
	return u, nil
}

func newTestUser(role string, active bool) *models.User {
	return &models.User{
		ID:       primitive.NewObjectID(),
		Name:     "Test User",
		Email:    "test@example.com",
		Role:     role,
		IsActive: active,
	}
}

func newManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	return tm
}

func TestTokenRoundTrip(t *testing.T) {
	tm := newManager(t)
	u := newTestUser(models.RoleAdmin, true)

	tok, err := tm.Issue(u)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := tm.Parse(tok)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Subject != u.ID.Hex() {
		t.Errorf("subject: got %q, want %q", claims.Subject, u.ID.Hex())
	}
	if claims.Role != models.RoleAdmin {
		t.Errorf("role: got %q, want %q", claims.Role, models.RoleAdmin)
	}
}

func TestParse_RejectsTampered(t *testing.T) {
	tm := newManager(t)
	u := newTestUser(models.RoleStudent, true)

	tok, err := tm.Issue(u)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := tm.Parse(tok + "x"); err == nil {
		t.Error("expected tampered token to be rejected")
	}
}

func TestParse_RejectsExpired(t *testing.T) {
	tm, err := auth.NewTokenManager("0123456789abcdef0123456789abcdef", -time.Minute, zap.NewNop())
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	tok, err := tm.Issue(newTestUser(models.RoleStudent, true))
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := tm.Parse(tok); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	if _, err := auth.NewTokenManager("", time.Hour, zap.NewNop()); err == nil {
		t.Error("expected error for empty secret")
	}
}

// authedProbe records whether an identity reached the inner handler.
func authedProbe(got **auth.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := auth.CurrentUser(r); ok {
			*got = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_ValidToken(t *testing.T) {
	tm := newManager(t)
	u := newTestUser(models.RoleCaptain, true)
	loader := &fakeUserLoader{users: map[primitive.ObjectID]*models.User{u.ID: u}}
	mw := auth.NewMiddleware(tm, loader, zap.NewNop())

	tok, err := tm.Issue(u)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	var got *auth.Identity
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	mw.Authenticate(authedProbe(&got)).ServeHTTP(rec, req)

	if got == nil {
		t.Fatal("expected identity in context")
	}
	if got.ID != u.ID {
		t.Errorf("identity ID: got %v, want %v", got.ID, u.ID)
	}
	if got.Role != models.RoleCaptain {
		t.Errorf("identity role: got %q, want %q", got.Role, models.RoleCaptain)
	}
}

func TestAuthenticate_InactiveUser(t *testing.T) {
	tm := newManager(t)
	u := newTestUser(models.RoleStudent, false)
	loader := &fakeUserLoader{users: map[primitive.ObjectID]*models.User{u.ID: u}}
	mw := auth.NewMiddleware(tm, loader, zap.NewNop())

	tok, err := tm.Issue(u)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	var got *auth.Identity
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	mw.Authenticate(authedProbe(&got)).ServeHTTP(rec, req)

	if got != nil {
		t.Error("deactivated user should authenticate as nobody")
	}
}

func TestRequireAuth_Anonymous(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireRole(t *testing.T) {
	handler := auth.RequireRole(models.RoleAdmin, models.RoleScoreUploader)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	tests := []struct {
		name string
		id   *auth.Identity
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"student", &auth.Identity{ID: primitive.NewObjectID(), Role: models.RoleStudent}, http.StatusForbidden},
		{"admin", &auth.Identity{ID: primitive.NewObjectID(), Role: models.RoleAdmin}, http.StatusOK},
		{"uploader", &auth.Identity{ID: primitive.NewObjectID(), Role: models.RoleScoreUploader}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.id != nil {
				req = auth.WithTestUser(req, tt.id)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
