// internal/app/store/matches/matchstore.go

// Package matchstore wraps the matches collection.
//
// Score and lifecycle writes use aggregation-pipeline updates guarded by
// a status filter, so concurrent finish attempts resolve to exactly one
// winner document transition. The winner field is recomputed inside the
// pipeline from the stored scores, never passed in from the caller.
package matchstore

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

var (
	// ErrNotFound is returned when no match exists for the given ID.
	ErrNotFound = errors.New("match not found")
	// ErrAlreadyFinished is returned for writes against a finished match.
	ErrAlreadyFinished = errors.New("match is already finished")
	// ErrNotUpcoming is returned when starting a match that is not upcoming.
	ErrNotUpcoming = errors.New("match is not upcoming")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("matches")}
}

// winnerExpr derives winner_id from the stored scores: higher score wins,
// equal scores mean no winner.
func winnerExpr() bson.M {
	return bson.M{"$switch": bson.M{
		"branches": bson.A{
			bson.M{"case": bson.M{"$gt": bson.A{"$score1", "$score2"}}, "then": "$house1_id"},
			bson.M{"case": bson.M{"$gt": bson.A{"$score2", "$score1"}}, "then": "$house2_id"},
		},
		"default": nil,
	}}
}

// Insert stores a new match in the upcoming state with zeroed scores.
func (s *Store) Insert(ctx context.Context, m models.Match) (models.Match, error) {
	m.ID = primitive.NewObjectID()
	m.Score1 = 0
	m.Score2 = 0
	m.Status = models.MatchUpcoming
	m.WinnerID = nil
	m.FinishedAt = nil

	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Match{}, err
	}
	return m, nil
}

// GetByID loads a match by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Match, error) {
	var m models.Match
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Filter narrows List results. Zero values mean "any".
type Filter struct {
	Status      string
	Sport       string
	HouseID     *primitive.ObjectID // matches either side
	After       *time.Time          // match_time strictly after
	NewestFirst bool                // match_time desc instead of asc
}

// List returns matches matching the filter, soonest first by default.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Match, error) {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Sport != "" {
		q["sport"] = f.Sport
	}
	if f.HouseID != nil {
		q["$or"] = bson.A{
			bson.M{"house1_id": *f.HouseID},
			bson.M{"house2_id": *f.HouseID},
		}
	}
	if f.After != nil {
		q["match_time"] = bson.M{"$gt": *f.After}
	}

	order := 1
	if f.NewestFirst {
		order = -1
	}
	cur, err := s.c.Find(ctx, q,
		options.Find().SetSort(bson.D{{Key: "match_time", Value: order}}))
	if err != nil {
		return nil, err
	}
	var matches []models.Match
	if err := cur.All(ctx, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// FindConflict returns a match between the same two houses (either
// order) whose scheduled time falls within window of t, or nil. Status
// does not matter: a finished match still blocks the slot.
func (s *Store) FindConflict(ctx context.Context, h1, h2 primitive.ObjectID, t time.Time, window time.Duration, excludeID *primitive.ObjectID) (*models.Match, error) {
	q := bson.M{
		"$or": bson.A{
			bson.M{"house1_id": h1, "house2_id": h2},
			bson.M{"house1_id": h2, "house2_id": h1},
		},
		"match_time": bson.M{
			"$gte": t.Add(-window),
			"$lte": t.Add(window),
		},
	}
	if excludeID != nil {
		q["_id"] = bson.M{"$ne": *excludeID}
	}

	var m models.Match
	if err := s.c.FindOne(ctx, q).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// UpdateScores sets both scores and rederives the winner in one pipeline
// update, refused once the match is finished. Returns the updated match.
func (s *Store) UpdateScores(ctx context.Context, id primitive.ObjectID, score1, score2 int) (*models.Match, error) {
	filter := bson.M{"_id": id, "status": bson.M{"$ne": models.MatchFinished}}
	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"score1":     score1,
			"score2":     score2,
			"updated_at": time.Now().UTC(),
		}},
		bson.M{"$set": bson.M{"winner_id": winnerExpr()}},
	}

	var m models.Match
	err := s.c.FindOneAndUpdate(ctx, filter, pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, s.explainMiss(ctx, id, ErrAlreadyFinished)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Details holds the mutable scheduling fields of a match.
type Details struct {
	MatchTime   *time.Time
	Sport       *string
	Description *string
	Venue       *string
	Points      *int
}

// UpdateDetails edits scheduling fields, refused once finished.
func (s *Store) UpdateDetails(ctx context.Context, id primitive.ObjectID, d Details) (*models.Match, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if d.MatchTime != nil {
		set["match_time"] = *d.MatchTime
	}
	if d.Sport != nil {
		set["sport"] = *d.Sport
	}
	if d.Description != nil {
		set["description"] = *d.Description
	}
	if d.Venue != nil {
		set["venue"] = *d.Venue
	}
	if d.Points != nil {
		set["points"] = *d.Points
	}

	filter := bson.M{"_id": id, "status": bson.M{"$ne": models.MatchFinished}}
	var m models.Match
	err := s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, s.explainMiss(ctx, id, ErrAlreadyFinished)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Start transitions upcoming -> live. Exactly one concurrent caller wins.
func (s *Store) Start(ctx context.Context, id primitive.ObjectID) (*models.Match, error) {
	filter := bson.M{"_id": id, "status": models.MatchUpcoming}
	update := bson.M{"$set": bson.M{
		"status":     models.MatchLive,
		"updated_at": time.Now().UTC(),
	}}

	var m models.Match
	err := s.c.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, s.explainMiss(ctx, id, ErrNotUpcoming)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Finish transitions into the finished state, freezing scores, deriving
// the final winner, and stamping finished_at once. The status guard makes
// the transition happen at most once; concurrent callers lose the race
// and get ErrAlreadyFinished, which is how the point award stays one-shot.
func (s *Store) Finish(ctx context.Context, id primitive.ObjectID, score1, score2 *int) (*models.Match, error) {
	now := time.Now().UTC()
	first := bson.M{"updated_at": now}
	if score1 != nil {
		first["score1"] = *score1
	}
	if score2 != nil {
		first["score2"] = *score2
	}

	filter := bson.M{"_id": id, "status": bson.M{"$ne": models.MatchFinished}}
	pipeline := bson.A{
		bson.M{"$set": first},
		bson.M{"$set": bson.M{
			"status":      models.MatchFinished,
			"winner_id":   winnerExpr(),
			"finished_at": bson.M{"$ifNull": bson.A{"$finished_at", now}},
		}},
	}

	var m models.Match
	err := s.c.FindOneAndUpdate(ctx, filter, pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, s.explainMiss(ctx, id, ErrAlreadyFinished)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete removes a match document.
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

// FinishedInvolving returns finished matches where the house played,
// for win/loss/draw stats.
func (s *Store) FinishedInvolving(ctx context.Context, houseID primitive.ObjectID) ([]models.Match, error) {
	return s.List(ctx, Filter{Status: models.MatchFinished, HouseID: &houseID})
}

// CountByStatus returns match counts grouped by lifecycle state.
func (s *Store) CountByStatus(ctx context.Context) (map[string]int64, error) {
	cur, err := s.c.Aggregate(ctx, bson.A{
		bson.M{"$group": bson.M{"_id": "$status", "n": bson.M{"$sum": 1}}},
	})
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Status string `bson:"_id"`
		N      int64  `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.N
	}
	return counts, nil
}

// explainMiss disambiguates a FindOneAndUpdate miss: the match either
// does not exist or failed the status guard.
func (s *Store) explainMiss(ctx context.Context, id primitive.ObjectID, stateErr error) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return stateErr
}
