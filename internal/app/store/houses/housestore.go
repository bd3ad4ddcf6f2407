// internal/app/store/houses/housestore.go

// Package housestore wraps the houses collection. Name uniqueness is
// case-insensitive via the name_ci field and its unique index; the
// leaderboard ordering (total_score desc, name asc) lives here so every
// listing endpoint agrees on it.
package housestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/campusgames/meethub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateName is returned when another house already uses the name.
	ErrDuplicateName = errors.New("a house with this name already exists")
	// ErrNotFound is returned when no house matches the query.
	ErrNotFound = errors.New("house not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("houses")}
}

// Create inserts a new house. Name is trimmed and its folded form stored
// for case-insensitive uniqueness.
func (s *Store) Create(ctx context.Context, h models.House) (models.House, error) {
	h.ID = primitive.NewObjectID()
	h.Name = strings.TrimSpace(h.Name)
	h.NameCI = text.Fold(h.Name)
	h.IsActive = true

	now := time.Now().UTC()
	h.CreatedAt = now
	h.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, h); err != nil {
		if wafflemongo.IsDup(err) {
			return models.House{}, ErrDuplicateName
		}
		return models.House{}, err
	}
	return h, nil
}

// GetByID loads a house by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.House, error) {
	var h models.House
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&h); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

// List returns active houses in leaderboard order.
func (s *Store) List(ctx context.Context) ([]models.House, error) {
	cur, err := s.c.Find(ctx, bson.M{"is_active": true},
		options.Find().SetSort(bson.D{
			{Key: "total_score", Value: -1},
			{Key: "name", Value: 1},
		}))
	if err != nil {
		return nil, err
	}
	var houses []models.House
	if err := cur.All(ctx, &houses); err != nil {
		return nil, err
	}
	return houses, nil
}

// Update holds the fields a house update may change. Nil fields are
// left unchanged.
type Update struct {
	Name         *string
	Color        *string
	Motto        *string
	Description  *string
	CaptainID    *primitive.ObjectID
	ClearCaptain bool
	IsActive     *bool
}

// Apply mutates a house record. Renames re-fold name_ci; the unique
// index still guards against collisions with other houses.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if upd.Color != nil {
		set["color"] = *upd.Color
	}
	if upd.Motto != nil {
		set["motto"] = *upd.Motto
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.ClearCaptain {
		unset["captain_id"] = ""
	} else if upd.CaptainID != nil {
		set["captain_id"] = *upd.CaptainID
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateName
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetScore overwrites the running total. Admin override only; the match
// lifecycle awards points through IncrementScore.
func (s *Store) SetScore(ctx context.Context, id primitive.ObjectID, score int) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"total_score": score, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementScore adds delta to the running total atomically.
func (s *Store) IncrementScore(ctx context.Context, id primitive.ObjectID, delta int) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"total_score": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the house document. The caller runs the member cascade
// before calling this.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
