// Package rbac enforces page access policies on the server for endpoints that
// answer with JSON or files rather than a rendered gate.
package rbac

import (
	"log/slog"
	"net/http"

	"github.com/courtvision/courtvision/internal/gate"
	"github.com/courtvision/courtvision/internal/platform/httpx"
)

// Middleware wires role checks for HTTP handlers. The identity state must
// already be in the request context.
type Middleware struct {
	Logger *slog.Logger
}

// Require enforces policy. An unresolved identity yields 503, a missing user
// 401 and a wrong role 403.
func (m Middleware) Require(policy gate.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch gate.Evaluate(gate.StateFromContext(r.Context()), policy) {
			case gate.DecisionContent:
				next.ServeHTTP(w, r)
			case gate.DecisionSignIn:
				httpx.RespondError(w, httpx.ErrUnauthorized)
			case gate.DecisionDenied:
				m.log().Warn("rbac denied", slog.String("path", r.URL.Path), slog.String("required_role", policy.RequiredRole))
				httpx.RespondError(w, httpx.ErrForbidden)
			default:
				httpx.RespondError(w, httpx.ErrUnavailable)
			}
		})
	}
}

func (m Middleware) log() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}
