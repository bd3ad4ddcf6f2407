package matches_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	matchesfeature "github.com/campusgames/meethub/internal/app/features/matches"
	"github.com/campusgames/meethub/internal/app/system/auth"
	"github.com/campusgames/meethub/internal/testutil"
)

// The write routes are guarded by role middleware, so the guards can be
// exercised without a database: rejected requests never reach a handler.
func TestRoutes_WriteGuards(t *testing.T) {
	r := matchesfeature.Routes(&matchesfeature.Handler{})

	cases := []struct {
		name     string
		method   string
		path     string
		identity *auth.Identity
		want     int
	}{
		{"anonymous create", http.MethodPost, "/", nil, http.StatusUnauthorized},
		{"student create", http.MethodPost, "/", testutil.StudentIdentity(), http.StatusForbidden},
		{"student start", http.MethodPatch, "/000000000000000000000001/start", testutil.StudentIdentity(), http.StatusForbidden},
		{"anonymous finish", http.MethodPatch, "/000000000000000000000001/finish", nil, http.StatusUnauthorized},
		{"uploader delete", http.MethodDelete, "/000000000000000000000001", testutil.UploaderIdentity(), http.StatusForbidden},
		{"student delete", http.MethodDelete, "/000000000000000000000001", testutil.StudentIdentity(), http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
			if tc.identity != nil {
				req = testutil.AsUser(req, tc.identity)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Errorf("%s %s: status = %d, want %d", tc.method, tc.path, w.Code, tc.want)
			}
		})
	}
}

func TestScoreRoutes_Guards(t *testing.T) {
	r := matchesfeature.ScoreRoutes(&matchesfeature.Handler{})

	req := httptest.NewRequest(http.MethodPatch, "/000000000000000000000001", strings.NewReader("{}"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous score patch: status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodPatch, "/000000000000000000000001", strings.NewReader("{}"))
	req = testutil.AsUser(req, testutil.StudentIdentity())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("student score patch: status = %d, want 403", w.Code)
	}
}
