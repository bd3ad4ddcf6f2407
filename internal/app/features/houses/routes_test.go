package houses_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	housesfeature "github.com/campusgames/meethub/internal/app/features/houses"
	"github.com/campusgames/meethub/internal/app/system/auth"
	"github.com/campusgames/meethub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRoutes_MutationGuards(t *testing.T) {
	r := housesfeature.Routes(&housesfeature.Handler{})
	captain := testutil.CaptainIdentity(primitive.NewObjectID())

	cases := []struct {
		name     string
		method   string
		path     string
		identity *auth.Identity
		want     int
	}{
		{"anonymous create", http.MethodPost, "/", nil, http.StatusUnauthorized},
		{"captain create", http.MethodPost, "/", captain, http.StatusForbidden},
		{"uploader update", http.MethodPut, "/000000000000000000000001", testutil.UploaderIdentity(), http.StatusForbidden},
		{"captain delete", http.MethodDelete, "/000000000000000000000001", captain, http.StatusForbidden},
		{"student score override", http.MethodPatch, "/000000000000000000000001/score", testutil.StudentIdentity(), http.StatusForbidden},
		{"anonymous score override", http.MethodPatch, "/000000000000000000000001/score", nil, http.StatusUnauthorized},
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
