package announcements_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	announcementsfeature "github.com/campusgames/meethub/internal/app/features/announcements"
	"github.com/campusgames/meethub/internal/testutil"
)

func TestRoutes_PostingGuards(t *testing.T) {
	r := announcementsfeature.Routes(&announcementsfeature.Handler{})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous post: status = %d, want 401", w.Code)
	}

	// Students may read announcements but never post them.
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
	req = testutil.AsUser(req, testutil.StudentIdentity())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("student post: status = %d, want 403", w.Code)
	}

	// Edit and delete require a signed-in user before ownership checks run.
	req = httptest.NewRequest(http.MethodPut, "/000000000000000000000001", strings.NewReader("{}"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous edit: status = %d, want 401", w.Code)
	}

	// The visibility toggle is admin-only.
	req = httptest.NewRequest(http.MethodPatch, "/000000000000000000000001/toggle", nil)
	req = testutil.AsUser(req, testutil.UploaderIdentity())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("uploader toggle: status = %d, want 403", w.Code)
	}
}
