// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/campusgames/meethub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateHouse inserts a house with sensible defaults.
func (f *Fixtures) CreateHouse(ctx context.Context, name string) models.House {
	f.t.Helper()

	now := time.Now().UTC()
	h := models.House{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Color:     "#1E90FF",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("houses").InsertOne(ctx, h); err != nil {
		f.t.Fatalf("insert house fixture: %v", err)
	}
	return h
}

// CreateUser inserts a user with the given role. The stored password is
// not a usable bcrypt hash; login-path tests create their users through
// the register endpoint instead.
func (f *Fixtures) CreateUser(ctx context.Context, email, role string, houseID *primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:        primitive.NewObjectID(),
		Name:      "Fixture User",
		Email:     email,
		Password:  "fixture-not-a-hash",
		Role:      role,
		HouseID:   houseID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("insert user fixture: %v", err)
	}
	return u
}

// CreateMatch inserts an upcoming match between two houses.
func (f *Fixtures) CreateMatch(ctx context.Context, h1, h2 primitive.ObjectID, at time.Time) models.Match {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Match{
		ID:          primitive.NewObjectID(),
		House1ID:    h1,
		House2ID:    h2,
		Status:      models.MatchUpcoming,
		MatchTime:   at,
		Sport:       "Football",
		Points:      models.DefaultMatchPoints,
		CreatedByID: primitive.NewObjectID(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("matches").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("insert match fixture: %v", err)
	}
	return m
}

// CreateAnnouncement inserts an active announcement, global when houseID
// is nil.
func (f *Fixtures) CreateAnnouncement(ctx context.Context, title string, houseID *primitive.ObjectID) models.Announcement {
	f.t.Helper()

	a := models.Announcement{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Message:     "fixture message",
		Priority:    models.PriorityMedium,
		HouseID:     houseID,
		CreatedByID: primitive.NewObjectID(),
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("announcements").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("insert announcement fixture: %v", err)
	}
	return a
}
