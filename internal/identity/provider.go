package identity

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/courtvision/courtvision/internal/gate"
	"github.com/courtvision/courtvision/internal/shared"
)

// Provider resolves the signed-in user and role for a session. The role is
// read on every call and never cached.
type Provider struct {
	repo    Repository
	timeout time.Duration
	logger  *slog.Logger
}

// NewProvider constructs a Provider. A zero timeout defaults to two seconds.
func NewProvider(repo Repository, timeout time.Duration, logger *slog.Logger) *Provider {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{repo: repo, timeout: timeout, logger: logger.With(slog.String("component", "identity"))}
}

// Resolve returns the identity for sess. Lookup failures leave the state
// unloaded so pages render their loading view instead of a wrong decision.
func (p *Provider) Resolve(ctx context.Context, sess *shared.Session) gate.State {
	if sess == nil || sess.User() == "" {
		return gate.State{Loaded: true}
	}
	id, err := strconv.ParseInt(sess.User(), 10, 64)
	if err != nil {
		p.logger.Warn("session carries malformed user id", slog.String("user_id", sess.User()))
		return gate.State{Loaded: true}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	user, err := p.repo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return gate.State{Loaded: true}
	}
	if err != nil {
		p.logger.Error("resolve user", slog.Int64("user_id", id), slog.Any("error", err))
		return gate.State{}
	}
	if !user.IsActive {
		return gate.State{Loaded: true}
	}

	st := gate.State{Loaded: true, User: user.Principal()}
	membership, err := p.repo.PrimaryMembership(ctx, id)
	switch {
	case errors.Is(err, shared.ErrNotFound):
	case err != nil:
		p.logger.Error("resolve membership", slog.Int64("user_id", id), slog.Any("error", err))
		return gate.State{}
	default:
		st.Role = membership.Role
	}
	return st
}

// Middleware stores the resolved identity in the request context. It must run
// after the session middleware.
func (p *Provider) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := p.Resolve(r.Context(), shared.SessionFromContext(r.Context()))
		next.ServeHTTP(w, r.WithContext(gate.ContextWithState(r.Context(), st)))
	})
}
