package lifecycle_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/campusgames/meethub/internal/app/lifecycle"
	housestore "github.com/campusgames/meethub/internal/app/store/houses"
	matchstore "github.com/campusgames/meethub/internal/app/store/matches"
	"github.com/campusgames/meethub/internal/app/system/apperr"
	"github.com/campusgames/meethub/internal/domain/events"
	"github.com/campusgames/meethub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakeMatches is an in-memory MatchStore that reproduces the store's
// conditional-update semantics: writes against finished matches miss.
type fakeMatches struct {
	mu      sync.Mutex
	matches map[primitive.ObjectID]*models.Match
}

func newFakeMatches() *fakeMatches {
	return &fakeMatches{matches: make(map[primitive.ObjectID]*models.Match)}
}

func (f *fakeMatches) Insert(_ context.Context, m models.Match) (models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = primitive.NewObjectID()
	m.Status = models.MatchUpcoming
	cp := m
	f.matches[m.ID] = &cp
	return m, nil
}

func (f *fakeMatches) GetByID(_ context.Context, id primitive.ObjectID) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return nil, matchstore.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMatches) FindConflict(_ context.Context, h1, h2 primitive.ObjectID, t time.Time, window time.Duration, excludeID *primitive.ObjectID) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.matches {
		if excludeID != nil && m.ID == *excludeID {
			continue
		}
		samePair := (m.House1ID == h1 && m.House2ID == h2) || (m.House1ID == h2 && m.House2ID == h1)
		if !samePair {
			continue
		}
		d := m.MatchTime.Sub(t)
		if d < 0 {
			d = -d
		}
		if d <= window {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMatches) UpdateScores(_ context.Context, id primitive.ObjectID, score1, score2 int) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return nil, matchstore.ErrNotFound
	}
	if m.Status == models.MatchFinished {
		return nil, matchstore.ErrAlreadyFinished
	}
	m.Score1, m.Score2 = score1, score2
	m.WinnerID = lifecycle.Winner(score1, score2, m.House1ID, m.House2ID)
	cp := *m
	return &cp, nil
}

func (f *fakeMatches) UpdateDetails(_ context.Context, id primitive.ObjectID, d matchstore.Details) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return nil, matchstore.ErrNotFound
	}
	if m.Status == models.MatchFinished {
		return nil, matchstore.ErrAlreadyFinished
	}
	if d.MatchTime != nil {
		m.MatchTime = *d.MatchTime
	}
	if d.Sport != nil {
		m.Sport = *d.Sport
	}
	if d.Description != nil {
		m.Description = *d.Description
	}
	if d.Venue != nil {
		m.Venue = *d.Venue
	}
	if d.Points != nil {
		m.Points = *d.Points
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMatches) Start(_ context.Context, id primitive.ObjectID) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return nil, matchstore.ErrNotFound
	}
	if m.Status != models.MatchUpcoming {
		return nil, matchstore.ErrNotUpcoming
	}
	m.Status = models.MatchLive
	cp := *m
	return &cp, nil
}

func (f *fakeMatches) Finish(_ context.Context, id primitive.ObjectID, score1, score2 *int) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return nil, matchstore.ErrNotFound
	}
	if m.Status == models.MatchFinished {
		return nil, matchstore.ErrAlreadyFinished
	}
	if score1 != nil {
		m.Score1 = *score1
	}
	if score2 != nil {
		m.Score2 = *score2
	}
	m.Status = models.MatchFinished
	m.WinnerID = lifecycle.Winner(m.Score1, m.Score2, m.House1ID, m.House2ID)
	if m.FinishedAt == nil {
		now := time.Now().UTC()
		m.FinishedAt = &now
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMatches) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.matches[id]; !ok {
		return matchstore.ErrNotFound
	}
	delete(f.matches, id)
	return nil
}

// fakeHouses is an in-memory HouseStore that counts score increments.
type fakeHouses struct {
	mu     sync.Mutex
	houses map[primitive.ObjectID]*models.House
	incs   map[primitive.ObjectID]int
}

func newFakeHouses(hs ...*models.House) *fakeHouses {
	f := &fakeHouses{
		houses: make(map[primitive.ObjectID]*models.House),
		incs:   make(map[primitive.ObjectID]int),
	}
	for _, h := range hs {
		f.houses[h.ID] = h
	}
	return f
}

func (f *fakeHouses) GetByID(_ context.Context, id primitive.ObjectID) (*models.House, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.houses[id]
	if !ok {
		return nil, housestore.ErrNotFound
	}
	cp := *h
	return &cp, nil
}

func (f *fakeHouses) IncrementScore(_ context.Context, id primitive.ObjectID, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.houses[id]
	if !ok {
		return housestore.ErrNotFound
	}
	h.TotalScore += delta
	f.incs[id]++
	return nil
}

// recordingPublisher captures published events in order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ev events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Name
	}
	return out
}

func newHouse(name string) *models.House {
	return &models.House{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Color:    "#FF0000",
		IsActive: true,
	}
}

type fixture struct {
	engine  *lifecycle.Engine
	matches *fakeMatches
	houses  *fakeHouses
	pub     *recordingPublisher
	h1, h2  *models.House
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	h1, h2 := newHouse("Gryphon"), newHouse("Phoenix")
	fm := newFakeMatches()
	fh := newFakeHouses(h1, h2)
	pub := &recordingPublisher{}
	return &fixture{
		engine:  lifecycle.New(fm, fh, pub, zap.NewNop()),
		matches: fm,
		houses:  fh,
		pub:     pub,
		h1:      h1,
		h2:      h2,
	}
}

func (fx *fixture) schedule(t *testing.T, at time.Time) *models.Match {
	t.Helper()
	m, err := fx.engine.CreateMatch(context.Background(), lifecycle.CreateInput{
		House1ID:    fx.h1.ID,
		House2ID:    fx.h2.ID,
		MatchTime:   at,
		Sport:       "Football",
		Points:      0, // default
		CreatedByID: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("CreateMatch failed: %v", err)
	}
	return m
}

func TestCreateMatch_Defaults(t *testing.T) {
	fx := newFixture(t)
	m := fx.schedule(t, time.Now().Add(24*time.Hour))

	if m.Status != models.MatchUpcoming {
		t.Errorf("status: got %q, want %q", m.Status, models.MatchUpcoming)
	}
	if m.Points != models.DefaultMatchPoints {
		t.Errorf("points: got %d, want %d", m.Points, models.DefaultMatchPoints)
	}
	if m.Score1 != 0 || m.Score2 != 0 {
		t.Errorf("scores should start at 0-0, got %d-%d", m.Score1, m.Score2)
	}
	if got := fx.pub.names(); len(got) != 0 {
		t.Errorf("scheduling should not publish events, got %v", got)
	}
}

func TestCreateMatch_Rejections(t *testing.T) {
	fx := newFixture(t)
	future := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name string
		in   lifecycle.CreateInput
	}{
		{"same house", lifecycle.CreateInput{House1ID: fx.h1.ID, House2ID: fx.h1.ID, MatchTime: future, Sport: "Football"}},
		{"past time", lifecycle.CreateInput{House1ID: fx.h1.ID, House2ID: fx.h2.ID, MatchTime: time.Now().Add(-time.Hour), Sport: "Football"}},
		{"bad sport", lifecycle.CreateInput{House1ID: fx.h1.ID, House2ID: fx.h2.ID, MatchTime: future, Sport: "Quidditch"}},
		{"unknown house", lifecycle.CreateInput{House1ID: fx.h1.ID, House2ID: primitive.NewObjectID(), MatchTime: future, Sport: "Football"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := fx.engine.CreateMatch(context.Background(), tt.in); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestCreateMatch_ConflictWindow(t *testing.T) {
	fx := newFixture(t)
	at := time.Now().Add(24 * time.Hour)
	fx.schedule(t, at)

	// Same pair 90 minutes later, opposite house order: inside the window.
	_, err := fx.engine.CreateMatch(context.Background(), lifecycle.CreateInput{
		House1ID:    fx.h2.ID,
		House2ID:    fx.h1.ID,
		MatchTime:   at.Add(90 * time.Minute),
		Sport:       "Basketball",
		CreatedByID: primitive.NewObjectID(),
	})
	if apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("expected validation error, got %v", err)
	}

	// Three hours later is clear of the window.
	if _, err := fx.engine.CreateMatch(context.Background(), lifecycle.CreateInput{
		House1ID:    fx.h1.ID,
		House2ID:    fx.h2.ID,
		MatchTime:   at.Add(3 * time.Hour),
		Sport:       "Basketball",
		CreatedByID: primitive.NewObjectID(),
	}); err != nil {
		t.Fatalf("match outside the window should schedule: %v", err)
	}
}

func TestUpdateScores_DerivesWinner(t *testing.T) {
	fx := newFixture(t)
	m := fx.schedule(t, time.Now().Add(time.Hour))

	got, err := fx.engine.UpdateScores(context.Background(), m.ID, 2, 1)
	if err != nil {
		t.Fatalf("UpdateScores failed: %v", err)
	}
	if got.WinnerID == nil || *got.WinnerID != fx.h1.ID {
		t.Errorf("winner should be house1, got %v", got.WinnerID)
	}

	// Equalize: winner reverts to nil.
	got, err = fx.engine.UpdateScores(context.Background(), m.ID, 2, 2)
	if err != nil {
		t.Fatalf("UpdateScores failed: %v", err)
	}
	if got.WinnerID != nil {
		t.Errorf("tie should have no winner, got %v", got.WinnerID)
	}

	if names := fx.pub.names(); len(names) != 2 || names[0] != events.MatchUpdate {
		t.Errorf("expected two match-update events, got %v", names)
	}
}

func TestUpdate_DetailEditPublishesEvent(t *testing.T) {
	fx := newFixture(t)
	m := fx.schedule(t, time.Now().Add(time.Hour))

	venue := "Main Field"
	got, err := fx.engine.Update(context.Background(), m.ID, lifecycle.UpdateInput{Venue: &venue})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Venue != venue {
		t.Errorf("venue: got %q, want %q", got.Venue, venue)
	}

	if names := fx.pub.names(); len(names) != 1 || names[0] != events.MatchUpdate {
		t.Errorf("detail edit should publish one match-update, got %v", names)
	}
}

func TestUpdate_PartialScoreKeepsOtherSide(t *testing.T) {
	fx := newFixture(t)
	m := fx.schedule(t, time.Now().Add(time.Hour))

	if _, err := fx.engine.UpdateScores(context.Background(), m.ID, 2, 1); err != nil {
		t.Fatalf("UpdateScores failed: %v", err)
	}

	s2 := 3
	got, err := fx.engine.Update(context.Background(), m.ID, lifecycle.UpdateInput{Score2: &s2})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Score1 != 2 || got.Score2 != 3 {
		t.Errorf("scores: got %d-%d, want 2-3", got.Score1, got.Score2)
	}
	if got.WinnerID == nil || *got.WinnerID != fx.h2.ID {
		t.Errorf("winner should flip to house2, got %v", got.WinnerID)
	}
}

func TestStartMatch(t *testing.T) {
	fx := newFixture(t)
	m := fx.schedule(t, time.Now().Add(time.Hour))

	got, err := fx.engine.StartMatch(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("StartMatch failed: %v", err)
	}
	if got.Status != models.MatchLive {
		t.Errorf("status: got %q, want %q", got.Status, models.MatchLive)
	}

	// Starting twice fails.
	if _, err := fx.engine.StartMatch(context.Background(), m.ID); apperr.KindOf(err) != apperr.State {
		t.Errorf("second start should be a state error, got %v", err)
	}

	if names := fx.pub.names(); len(names) != 1 || names[0] != events.MatchStarted {
		t.Errorf("expected one match-started event, got %v", names)
	}
}

func TestFinishMatch_AwardsPointsOnce(t *testing.T) {
	fx := newFixture(t)
	m := fx.schedule(t, time.Now().Add(time.Hour))

	s1, s2 := 3, 1
	got, err := fx.engine.FinishMatch(context.Background(), m.ID, &s1, &s2)
	if err != nil {
		t.Fatalf("FinishMatch failed: %v", err)
	}
	if got.Status != models.MatchFinished {
		t.Errorf("status: got %q, want %q", got.Status, models.MatchFinished)
	}
	if got.WinnerID == nil || *got.WinnerID != fx.h1.ID {
		t.Fatalf("winner should be house1, got %v", got.WinnerID)
	}
	if got.FinishedAt == nil {
		t.Error("finished_at should be stamped")
	}

	if score := fx.houses.houses[fx.h1.ID].TotalScore; score != models.DefaultMatchPoints {
		t.Errorf("house1 total: got %d, want %d", score, models.DefaultMatchPoints)
	}

	// Finishing again must not double-award.
	if _, err := fx.engine.FinishMatch(context.Background(), m.ID, &s1, &s2); apperr.KindOf(err) != apperr.State {
		t.Errorf("second finish should be a state error, got %v", err)
	}
	if n := fx.houses.incs[fx.h1.ID]; n != 1 {
		t.Errorf("award count: got %d, want 1", n)
	}

	if names := fx.pub.names(); len(names) != 1 || names[0] != events.MatchFinished {
		t.Errorf("expected one match-finished event, got %v", names)
	}
}

func TestFinishMatch_DrawAwardsNothing(t *testing.T) {
	fx := newFixture(t)
	m := fx.schedule(t, time.Now().Add(time.Hour))

	s := 2
	got, err := fx.engine.FinishMatch(context.Background(), m.ID, &s, &s)
	if err != nil {
		t.Fatalf("FinishMatch failed: %v", err)
	}
	if got.WinnerID != nil {
		t.Errorf("draw should have no winner, got %v", got.WinnerID)
	}
	if fx.houses.houses[fx.h1.ID].TotalScore != 0 || fx.houses.houses[fx.h2.ID].TotalScore != 0 {
		t.Error("draw must not award points")
	}
}

func TestFinishedMatchIsImmutable(t *testing.T) {
	fx := newFixture(t)
	m := fx.schedule(t, time.Now().Add(time.Hour))

	s1, s2 := 1, 0
	if _, err := fx.engine.FinishMatch(context.Background(), m.ID, &s1, &s2); err != nil {
		t.Fatalf("FinishMatch failed: %v", err)
	}

	if _, err := fx.engine.UpdateScores(context.Background(), m.ID, 5, 5); apperr.KindOf(err) != apperr.State {
		t.Errorf("score edit after finish should be a state error, got %v", err)
	}

	venue := "Main Field"
	if _, err := fx.engine.Update(context.Background(), m.ID, lifecycle.UpdateInput{Venue: &venue}); apperr.KindOf(err) != apperr.State {
		t.Errorf("detail edit after finish should be a state error, got %v", err)
	}
}

func TestUpdate_StatusFinishedRoutesThroughFinish(t *testing.T) {
	fx := newFixture(t)
	m := fx.schedule(t, time.Now().Add(time.Hour))

	status := models.MatchFinished
	s1, s2 := 4, 2
	got, err := fx.engine.Update(context.Background(), m.ID, lifecycle.UpdateInput{
		Status: &status,
		Score1: &s1,
		Score2: &s2,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Status != models.MatchFinished {
		t.Errorf("status: got %q, want %q", got.Status, models.MatchFinished)
	}
	if fx.houses.incs[fx.h1.ID] != 1 {
		t.Error("generic status update must run the same one-shot award path")
	}
}

func TestUpdate_NoBackwardTransition(t *testing.T) {
	fx := newFixture(t)
	m := fx.schedule(t, time.Now().Add(time.Hour))

	if _, err := fx.engine.StartMatch(context.Background(), m.ID); err != nil {
		t.Fatalf("StartMatch failed: %v", err)
	}

	status := models.MatchUpcoming
	if _, err := fx.engine.Update(context.Background(), m.ID, lifecycle.UpdateInput{Status: &status}); apperr.KindOf(err) != apperr.State {
		t.Errorf("backward transition should be a state error, got %v", err)
	}
}

func TestConcurrentFinish_SingleAward(t *testing.T) {
	fx := newFixture(t)
	m := fx.schedule(t, time.Now().Add(time.Hour))

	s1, s2 := 2, 0
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fx.engine.FinishMatch(context.Background(), m.ID, &s1, &s2)
		}()
	}
	wg.Wait()

	if n := fx.houses.incs[fx.h1.ID]; n != 1 {
		t.Errorf("award count under contention: got %d, want 1", n)
	}
	if score := fx.houses.houses[fx.h1.ID].TotalScore; score != models.DefaultMatchPoints {
		t.Errorf("house1 total: got %d, want %d", score, models.DefaultMatchPoints)
	}
}

func TestDeleteMatch_NoEvent(t *testing.T) {
	fx := newFixture(t)
	m := fx.schedule(t, time.Now().Add(time.Hour))

	if err := fx.engine.DeleteMatch(context.Background(), m.ID); err != nil {
		t.Fatalf("DeleteMatch failed: %v", err)
	}
	if got := fx.pub.names(); len(got) != 0 {
		t.Errorf("deletion should not publish events, got %v", got)
	}
	if err := fx.engine.DeleteMatch(context.Background(), m.ID); apperr.KindOf(err) != apperr.NotFound {
		t.Errorf("second delete should be not-found, got %v", err)
	}
}
