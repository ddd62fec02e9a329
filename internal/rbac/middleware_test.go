package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/courtvision/courtvision/internal/gate"
)

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	user := &gate.Principal{ID: "1"}
	cases := []struct {
		name  string
		state *gate.State
		want  int
	}{
		{"no state", nil, http.StatusServiceUnavailable},
		{"anonymous", &gate.State{Loaded: true}, http.StatusUnauthorized},
		{"member", &gate.State{Loaded: true, User: user, Role: gate.MemberRole}, http.StatusForbidden},
		{"no role", &gate.State{Loaded: true, User: user}, http.StatusForbidden},
		{"admin", &gate.State{Loaded: true, User: user, Role: gate.AdminRole}, http.StatusNoContent},
	}
	handler := Middleware{}.Require(gate.Policy{RequiredRole: gate.AdminRole})(ok)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/data/b2b_rankings", nil)
			if tc.state != nil {
				req = req.WithContext(gate.ContextWithState(req.Context(), *tc.state))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireSignedIn(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Middleware{}.Require(gate.Policy{})(ok)

	req := httptest.NewRequest(http.MethodGet, "/data/team_rankings", nil)
	req = req.WithContext(gate.ContextWithState(req.Context(), gate.State{Loaded: true, User: &gate.Principal{ID: "3"}}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
