package matches_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	matchesfeature "github.com/campusgames/meethub/internal/app/features/matches"
	"github.com/campusgames/meethub/internal/app/lifecycle"
	housestore "github.com/campusgames/meethub/internal/app/store/houses"
	matchstore "github.com/campusgames/meethub/internal/app/store/matches"
	"github.com/campusgames/meethub/internal/domain/models"
	"github.com/campusgames/meethub/internal/testutil"
	"go.uber.org/zap"
)

func TestHandleUpdateScores_PartialBody(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	f := testutil.NewFixtures(t, db)

	alpha := f.CreateHouse(ctx, "Alpha")
	beta := f.CreateHouse(ctx, "Beta")
	matches := matchstore.New(db)
	m := f.CreateMatch(ctx, alpha.ID, beta.ID, time.Now().Add(time.Hour))

	if _, err := matches.UpdateScores(ctx, m.ID, 1, 4); err != nil {
		t.Fatalf("seed scores: %v", err)
	}

	engine := lifecycle.New(matches, housestore.New(db), nil, zap.NewNop())
	h := matchesfeature.NewHandler(engine, matches, zap.NewNop())

	// Only score1 in the body: score2 keeps its stored value.
	req := httptest.NewRequest(http.MethodPatch, "/"+m.ID.Hex(), strings.NewReader(`{"score1":5}`))
	req = testutil.WithChiURLParam(req, "id", m.ID.Hex())
	w := httptest.NewRecorder()
	h.HandleUpdateScores(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var got models.Match
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Score1 != 5 || got.Score2 != 4 {
		t.Errorf("scores = %d-%d, want 5-4", got.Score1, got.Score2)
	}
	if got.WinnerID == nil || *got.WinnerID != alpha.ID {
		t.Errorf("winner = %v, want house1", got.WinnerID)
	}

	// An empty body is still rejected.
	req = httptest.NewRequest(http.MethodPatch, "/"+m.ID.Hex(), strings.NewReader(`{}`))
	req = testutil.WithChiURLParam(req, "id", m.ID.Hex())
	w = httptest.NewRecorder()
	h.HandleUpdateScores(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("empty body: status = %d, want 400", w.Code)
	}
}
