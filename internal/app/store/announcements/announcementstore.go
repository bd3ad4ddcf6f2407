// internal/app/store/announcements/announcementstore.go

// Package announcementstore wraps the announcements collection.
package announcementstore

import (
	"context"
	"errors"
	"time"

	"github.com/campusgames/meethub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no announcement matches the query.
var ErrNotFound = errors.New("announcement not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("announcements")}
}

// Create inserts a new announcement, active by default.
func (s *Store) Create(ctx context.Context, a models.Announcement) (models.Announcement, error) {
	a.ID = primitive.NewObjectID()
	a.IsActive = true
	a.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

// GetByID loads an announcement by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Announcement, error) {
	var a models.Announcement
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Filter narrows List results.
type Filter struct {
	Priority        string
	HouseID         *primitive.ObjectID // global announcements are always included
	IncludeInactive bool
}

// List returns announcements newest first. When HouseID is set, globals
// and that house's announcements are returned; otherwise everything
// matching the remaining filters.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Announcement, error) {
	q := bson.M{}
	if !f.IncludeInactive {
		q["is_active"] = true
	}
	if f.Priority != "" {
		q["priority"] = f.Priority
	}
	if f.HouseID != nil {
		q["$or"] = bson.A{
			bson.M{"house_id": bson.M{"$exists": false}},
			bson.M{"house_id": nil},
			bson.M{"house_id": *f.HouseID},
		}
	}

	cur, err := s.c.Find(ctx, q,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var anns []models.Announcement
	if err := cur.All(ctx, &anns); err != nil {
		return nil, err
	}
	return anns, nil
}

// Update holds the mutable fields of an announcement.
type Update struct {
	Title      *string
	Message    *string
	Priority   *string
	HouseID    *primitive.ObjectID
	ClearHouse bool
}

// Apply mutates an announcement record.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{}
	unset := bson.M{}

	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Message != nil {
		set["message"] = *upd.Message
	}
	if upd.Priority != nil {
		set["priority"] = *upd.Priority
	}
	if upd.ClearHouse {
		unset["house_id"] = ""
	} else if upd.HouseID != nil {
		set["house_id"] = *upd.HouseID
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	if len(update) == 0 {
		return nil
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive toggles visibility without deleting history.
func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_active": active}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an announcement document.
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

// Stats summarizes announcement volume by priority and scope.
type Stats struct {
	Total      int64            `json:"total"`
	Active     int64            `json:"active"`
	Global     int64            `json:"global"`
	ByPriority map[string]int64 `json:"by_priority"`
}

// GetStats aggregates announcement counts for the admin dashboard.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	total, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	active, err := s.c.CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, err
	}
	global, err := s.c.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"house_id": bson.M{"$exists": false}},
		bson.M{"house_id": nil},
	}})
	if err != nil {
		return nil, err
	}

	cur, err := s.c.Aggregate(ctx, bson.A{
		bson.M{"$group": bson.M{"_id": "$priority", "n": bson.M{"$sum": 1}}},
	})
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Priority string `bson:"_id"`
		N        int64  `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	st := &Stats{Total: total, Active: active, Global: global,
		ByPriority: make(map[string]int64, len(rows))}
	for _, r := range rows {
		st.ByPriority[r.Priority] = r.N
	}
	return st, nil
}
