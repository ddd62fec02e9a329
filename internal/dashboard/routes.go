package dashboard

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/courtvision/courtvision/internal/shared"
)

// MountRoutes registers the landing page, dashboard pages, exports and JSON
// data endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/", h.handleLanding)
	r.Get(RankingsPage.Path, h.handleRankings)
	r.Get(B2BPage.Path, h.handleB2B)
	r.Get(RestPage.Path, h.handleRest)
	r.Get(StintsPage.Path, h.handleStints)

	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.With(h.rbac.Require(RankingsPage.Policy)).Get(RankingsPage.Path+"/export.csv", h.exportRankings)
		gr.With(h.rbac.Require(B2BPage.Policy)).Get(B2BPage.Path+"/export.csv", h.exportB2B)
		gr.With(h.rbac.Require(RestPage.Policy)).Get(RestPage.Path+"/export.csv", h.exportRest)
		gr.With(h.rbac.Require(StintsPage.Policy)).Get(StintsPage.Path+"/export.csv", h.exportStints)
	})

	r.Route("/data", func(dr chi.Router) {
		dr.With(h.rbac.Require(B2BPage.Policy)).Get("/b2b_rankings", h.dataB2B)
		dr.With(h.rbac.Require(RankingsPage.Policy)).Get("/team_rankings", h.dataRankings)
		dr.With(h.rbac.Require(RestPage.Policy)).Get("/rest_rankings", h.dataRest)
		dr.With(h.rbac.Require(StintsPage.Policy)).Get("/player_stints", h.dataStints)
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if user := strings.TrimSpace(sess.User()); user != "" {
			return "user:" + user, nil
		}
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
