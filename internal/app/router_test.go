package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtvision/courtvision/internal/dashboard"
	"github.com/courtvision/courtvision/internal/fetch"
	"github.com/courtvision/courtvision/internal/gate"
	"github.com/courtvision/courtvision/internal/identity"
	"github.com/courtvision/courtvision/internal/nba"
	"github.com/courtvision/courtvision/internal/observability"
	"github.com/courtvision/courtvision/internal/shared"
	"github.com/courtvision/courtvision/internal/view"
	"github.com/courtvision/courtvision/jobs"
	_ "github.com/courtvision/courtvision/testing"
)

type memberRepo struct{}

func (memberRepo) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	return nil, shared.ErrNotFound
}

func (memberRepo) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	if id != 7 {
		return nil, shared.ErrNotFound
	}
	return &identity.User{ID: 7, Email: "coach@example.com", DisplayName: "Coach", IsActive: true}, nil
}

func (memberRepo) PrimaryMembership(ctx context.Context, userID int64) (*identity.Membership, error) {
	return &identity.Membership{UserID: userID, Organization: "courtvision", Role: gate.MemberRole}, nil
}

func (memberRepo) CreateUser(ctx context.Context, user identity.User, m *identity.Membership) (int64, error) {
	return 0, shared.ErrConflict
}

func (memberRepo) SetMembership(ctx context.Context, m identity.Membership) error {
	return nil
}

type fixedSource struct{}

func (fixedSource) B2BRankings(ctx context.Context, rng nba.DateRange) ([]nba.B2BRanking, error) {
	return nil, nil
}

func (fixedSource) TeamRankings(ctx context.Context, rng nba.DateRange) ([]nba.TeamRanking, error) {
	return []nba.TeamRanking{{TeamName: "Celtics", GamesPlayed: 15, Wins: 12, Losses: 3, WinPercentage: 0.8}}, nil
}

func (fixedSource) RestRankings(ctx context.Context, rng nba.DateRange) ([]nba.RestRanking, error) {
	return nil, nil
}

func (fixedSource) PlayerStints(ctx context.Context, rng nba.DateRange) ([]nba.PlayerStint, error) {
	return nil, nil
}

type testServer struct {
	handler  http.Handler
	sessions *shared.SessionManager
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	templates, err := view.NewEngine()
	require.NoError(t, err)

	sessions := shared.NewSessionManager(client, "courtvision_session", time.Hour, false)
	csrf := shared.NewCSRFManager("test-secret")
	provider := identity.NewProvider(memberRepo{}, time.Second, logger)
	authHandler := identity.NewHandler(logger, identity.NewService(memberRepo{}), templates, sessions, csrf)
	dash, err := dashboard.NewHandler(logger, fixedSource{}, templates, csrf, fetch.NewRedisSequencer(client, time.Minute))
	require.NoError(t, err)

	handler := NewRouter(RouterParams{
		Logger:           logger,
		Config:           &Config{AppEnv: "test", AppRequestTimeout: 5 * time.Second},
		SessionManager:   sessions,
		CSRFManager:      csrf,
		IdentityProvider: provider,
		AuthHandler:      authHandler,
		DashboardHandler: dash,
		JobHandler:       jobs.NewHandler(nil, logger),
		Metrics:          observability.NewMetrics(),
	})
	return testServer{handler: handler, sessions: sessions}
}

// signedInCookie stores a session for user 7 and returns its cookie.
func (s testServer) signedInCookie(t *testing.T) *http.Cookie {
	t.Helper()
	ctx := context.Background()
	sess, err := s.sessions.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.SetUser("7")
	rr := httptest.NewRecorder()
	require.NoError(t, s.sessions.Commit(ctx, rr, sess))
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func (s testServer) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthzAndStatic(t *testing.T) {
	srv := newTestServer(t)

	rr := srv.get("/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = srv.get("/static/css/app.css", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "public, max-age=3600", rr.Header().Get("Cache-Control"))

	rr = srv.get("/jobs/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"queue":"default"`)
}

func TestAnonymousPageAsksForSignIn(t *testing.T) {
	srv := newTestServer(t)

	rr := srv.get("/rankings", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), gate.SignInMessage)
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rr.Header().Get("Set-Cookie"))
}

func TestMemberSeesRankingsButNotAdminPages(t *testing.T) {
	srv := newTestServer(t)
	cookie := srv.signedInCookie(t)

	rr := srv.get("/rankings", cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<td>Celtics</td>")
	assert.Contains(t, rr.Body.String(), "coach@example.com")

	rr = srv.get("/b2b-rankings", cookie)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), gate.DeniedTitle)

	rr = srv.get("/data/player_stints?start_date=2024-01-01&end_date=2024-01-31", cookie)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestPostWithoutCSRFTokenIsRejected(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/sign-out", nil)
	req.AddCookie(srv.signedInCookie(t))
	rr := httptest.NewRecorder()
	srv.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequestsAreCountedPerRoute(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	templates, err := view.NewEngine()
	require.NoError(t, err)
	csrf := shared.NewCSRFManager("test-secret")
	dash, err := dashboard.NewHandler(nil, fixedSource{}, templates, csrf, fetch.NewMemorySequencer())
	require.NoError(t, err)
	metrics := observability.NewMetrics()

	handler := NewRouter(RouterParams{
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		SessionManager:   shared.NewSessionManager(client, "courtvision_session", time.Hour, false),
		CSRFManager:      csrf,
		DashboardHandler: dash,
		Metrics:          metrics,
	})
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `courtvision_http_requests_total{code="200",route="/"} 1`)
}
