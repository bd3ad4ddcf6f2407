// internal/app/lifecycle/engine.go

// Package lifecycle drives the match state machine: upcoming -> live ->
// finished, never backwards. It validates schedules, keeps the winner in
// step with the scores, awards house points exactly once at finish time,
// and publishes realtime events for every externally visible change.
package lifecycle

import (
	"context"
	"errors"
	"time"

	housestore "github.com/campusgames/meethub/internal/app/store/houses"
	matchstore "github.com/campusgames/meethub/internal/app/store/matches"
	"github.com/campusgames/meethub/internal/app/system/apperr"
	"github.com/campusgames/meethub/internal/app/system/inputval"
	"github.com/campusgames/meethub/internal/domain/events"
	"github.com/campusgames/meethub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ConflictWindow is the scheduling exclusion zone: the same two houses
// cannot have two matches within this distance of each other.
const ConflictWindow = 2 * time.Hour

// MatchStore is the persistence surface the engine needs for matches.
// matchstore.Store satisfies it; tests use in-memory fakes.
type MatchStore interface {
	Insert(ctx context.Context, m models.Match) (models.Match, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Match, error)
	FindConflict(ctx context.Context, h1, h2 primitive.ObjectID, t time.Time, window time.Duration, excludeID *primitive.ObjectID) (*models.Match, error)
	UpdateScores(ctx context.Context, id primitive.ObjectID, score1, score2 int) (*models.Match, error)
	UpdateDetails(ctx context.Context, id primitive.ObjectID, d matchstore.Details) (*models.Match, error)
	Start(ctx context.Context, id primitive.ObjectID) (*models.Match, error)
	Finish(ctx context.Context, id primitive.ObjectID, score1, score2 *int) (*models.Match, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// HouseStore is the persistence surface the engine needs for houses.
type HouseStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.House, error)
	IncrementScore(ctx context.Context, id primitive.ObjectID, delta int) error
}

// Engine owns match lifecycle transitions.
type Engine struct {
	matches MatchStore
	houses  HouseStore
	pub     events.Publisher
	log     *zap.Logger
}

// New builds a lifecycle engine. A nil publisher disables events.
func New(matches MatchStore, houses HouseStore, pub events.Publisher, logger *zap.Logger) *Engine {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Engine{matches: matches, houses: houses, pub: pub, log: logger}
}

// CreateInput carries the fields of a new match request.
type CreateInput struct {
	House1ID    primitive.ObjectID
	House2ID    primitive.ObjectID
	MatchTime   time.Time
	Sport       string
	Description string
	Venue       string
	Points      int
	CreatedByID primitive.ObjectID
}

// CreateMatch validates and schedules a new match in the upcoming state.
func (e *Engine) CreateMatch(ctx context.Context, in CreateInput) (*models.Match, error) {
	if in.House1ID == in.House2ID {
		return nil, apperr.Validationf("A match requires two different houses")
	}
	if !models.ValidSport(in.Sport) {
		return nil, apperr.Validationf("Unknown sport %q", in.Sport)
	}
	if !in.MatchTime.After(time.Now()) {
		return nil, apperr.Validationf("Match time must be in the future")
	}
	if err := validateMatchText(in.Description, in.Venue); err != nil {
		return nil, err
	}
	if in.Points < 0 {
		return nil, apperr.Validationf("Points cannot be negative")
	}
	if in.Points == 0 {
		in.Points = models.DefaultMatchPoints
	}

	for _, hid := range []primitive.ObjectID{in.House1ID, in.House2ID} {
		h, err := e.houses.GetByID(ctx, hid)
		if err != nil {
			if errors.Is(err, housestore.ErrNotFound) {
				return nil, apperr.NotFoundf("House not found")
			}
			return nil, err
		}
		if !h.IsActive {
			return nil, apperr.Validationf("House %s is not active", h.Name)
		}
	}

	conflict, err := e.matches.FindConflict(ctx, in.House1ID, in.House2ID, in.MatchTime, ConflictWindow, nil)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, apperr.Validationf("These houses already have a match scheduled around that time")
	}

	m, err := e.matches.Insert(ctx, models.Match{
		House1ID:    in.House1ID,
		House2ID:    in.House2ID,
		MatchTime:   in.MatchTime.UTC(),
		Sport:       in.Sport,
		Description: in.Description,
		Venue:       in.Venue,
		Points:      in.Points,
		CreatedByID: in.CreatedByID,
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("match scheduled",
		zap.String("match_id", m.ID.Hex()),
		zap.String("sport", m.Sport),
		zap.Time("match_time", m.MatchTime))
	return &m, nil
}

// UpdateScores changes the live scores; the winner is rederived in the
// same write. Finished matches are immutable.
func (e *Engine) UpdateScores(ctx context.Context, id primitive.ObjectID, score1, score2 int) (*models.Match, error) {
	if score1 < 0 || score2 < 0 {
		return nil, apperr.Validationf("Scores cannot be negative")
	}

	m, err := e.matches.UpdateScores(ctx, id, score1, score2)
	if err != nil {
		return nil, translateMatchErr(err)
	}

	e.publish(events.MatchUpdate, m)
	return m, nil
}

// UpdateInput carries a generic match edit. Status, when set, routes
// through the corresponding lifecycle transition so there is a single
// code path for going live and for finishing.
type UpdateInput struct {
	Score1      *int
	Score2      *int
	Status      *string
	MatchTime   *time.Time
	Sport       *string
	Description *string
	Venue       *string
	Points      *int
}

// Update applies a generic edit to a match.
func (e *Engine) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*models.Match, error) {
	if (in.Score1 != nil && *in.Score1 < 0) || (in.Score2 != nil && *in.Score2 < 0) {
		return nil, apperr.Validationf("Scores cannot be negative")
	}
	if in.Sport != nil && !models.ValidSport(*in.Sport) {
		return nil, apperr.Validationf("Unknown sport %q", *in.Sport)
	}
	if in.Points != nil && *in.Points <= 0 {
		return nil, apperr.Validationf("Points must be positive")
	}
	var desc, venue string
	if in.Description != nil {
		desc = *in.Description
	}
	if in.Venue != nil {
		venue = *in.Venue
	}
	if err := validateMatchText(desc, venue); err != nil {
		return nil, err
	}

	// Status transitions first: finishing applies any submitted scores
	// atomically with the transition.
	if in.Status != nil {
		switch *in.Status {
		case models.MatchFinished:
			return e.FinishMatch(ctx, id, in.Score1, in.Score2)
		case models.MatchLive:
			if _, err := e.StartMatch(ctx, id); err != nil {
				return nil, err
			}
		case models.MatchUpcoming:
			return nil, apperr.Statef("Matches cannot move back to upcoming")
		default:
			return nil, apperr.Validationf("Unknown status %q", *in.Status)
		}
	}

	var m *models.Match
	var err error

	if in.MatchTime != nil || in.Sport != nil || in.Description != nil || in.Venue != nil || in.Points != nil {
		if in.MatchTime != nil {
			cur, gerr := e.matches.GetByID(ctx, id)
			if gerr != nil {
				return nil, translateMatchErr(gerr)
			}
			other := cur.House2ID
			conflict, cerr := e.matches.FindConflict(ctx, cur.House1ID, other, *in.MatchTime, ConflictWindow, &id)
			if cerr != nil {
				return nil, cerr
			}
			if conflict != nil {
				return nil, apperr.Validationf("These houses already have a match scheduled around that time")
			}
		}
		m, err = e.matches.UpdateDetails(ctx, id, matchstore.Details{
			MatchTime:   in.MatchTime,
			Sport:       in.Sport,
			Description: in.Description,
			Venue:       in.Venue,
			Points:      in.Points,
		})
		if err != nil {
			return nil, translateMatchErr(err)
		}
	}

	if in.Score1 != nil || in.Score2 != nil {
		cur := m
		if cur == nil {
			cur, err = e.matches.GetByID(ctx, id)
			if err != nil {
				return nil, translateMatchErr(err)
			}
		}
		s1, s2 := cur.Score1, cur.Score2
		if in.Score1 != nil {
			s1 = *in.Score1
		}
		if in.Score2 != nil {
			s2 = *in.Score2
		}
		m, err = e.matches.UpdateScores(ctx, id, s1, s2)
		if err != nil {
			return nil, translateMatchErr(err)
		}
		e.publish(events.MatchUpdate, m)
		return m, nil
	}

	if m != nil {
		// Detail edits are externally visible too.
		e.publish(events.MatchUpdate, m)
		return m, nil
	}

	m, err = e.matches.GetByID(ctx, id)
	if err != nil {
		return nil, translateMatchErr(err)
	}
	return m, nil
}

// StartMatch transitions upcoming -> live and announces it.
func (e *Engine) StartMatch(ctx context.Context, id primitive.ObjectID) (*models.Match, error) {
	m, err := e.matches.Start(ctx, id)
	if err != nil {
		return nil, translateMatchErr(err)
	}

	e.log.Info("match started", zap.String("match_id", m.ID.Hex()))
	e.publish(events.MatchStarted, m)
	return m, nil
}

// FinishMatch ends a match, optionally applying final scores in the same
// transition, and awards the winning house its points. The award happens
// at most once: only the caller whose conditional write performed the
// status transition reaches the increment.
func (e *Engine) FinishMatch(ctx context.Context, id primitive.ObjectID, score1, score2 *int) (*models.Match, error) {
	if (score1 != nil && *score1 < 0) || (score2 != nil && *score2 < 0) {
		return nil, apperr.Validationf("Scores cannot be negative")
	}

	m, err := e.matches.Finish(ctx, id, score1, score2)
	if err != nil {
		return nil, translateMatchErr(err)
	}

	if m.WinnerID != nil {
		if err := e.houses.IncrementScore(ctx, *m.WinnerID, m.Points); err != nil {
			// The match is finished either way; the award failing is an
			// operational problem, not a reason to fail the request.
			e.log.Error("point award failed",
				zap.String("match_id", m.ID.Hex()),
				zap.String("house_id", m.WinnerID.Hex()),
				zap.Int("points", m.Points),
				zap.Error(err))
		} else {
			e.log.Info("points awarded",
				zap.String("match_id", m.ID.Hex()),
				zap.String("house_id", m.WinnerID.Hex()),
				zap.Int("points", m.Points))
		}
	}

	e.publish(events.MatchFinished, m)
	return m, nil
}

// DeleteMatch removes a match. Deletions are silent; no event goes out.
func (e *Engine) DeleteMatch(ctx context.Context, id primitive.ObjectID) error {
	if err := e.matches.Delete(ctx, id); err != nil {
		return translateMatchErr(err)
	}
	e.log.Info("match deleted", zap.String("match_id", id.Hex()))
	return nil
}

// publish fans the match out to the global room and both houses' rooms.
func (e *Engine) publish(name string, m *models.Match) {
	e.pub.Publish(events.Event{
		Name:     name,
		HouseIDs: []primitive.ObjectID{m.House1ID, m.House2ID},
		Payload:  m,
	})
}

func validateMatchText(description, venue string) error {
	if err := inputval.MaxLen(description, "description", 500); err != nil {
		return err
	}
	return inputval.MaxLen(venue, "venue", 100)
}

func translateMatchErr(err error) error {
	switch {
	case errors.Is(err, matchstore.ErrNotFound):
		return apperr.NotFoundf("Match not found")
	case errors.Is(err, matchstore.ErrAlreadyFinished):
		return apperr.Statef("Match is already finished")
	case errors.Is(err, matchstore.ErrNotUpcoming):
		return apperr.Statef("Only upcoming matches can be started")
	}
	return err
}
