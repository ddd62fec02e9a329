// Package dashboard serves the NBA analytics pages, their CSV exports and the
// JSON data endpoints.
package dashboard

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/courtvision/courtvision/internal/fetch"
	"github.com/courtvision/courtvision/internal/gate"
	"github.com/courtvision/courtvision/internal/nav"
	"github.com/courtvision/courtvision/internal/nba"
	"github.com/courtvision/courtvision/internal/rbac"
	"github.com/courtvision/courtvision/internal/shared"
	"github.com/courtvision/courtvision/internal/statsapi"
	"github.com/courtvision/courtvision/internal/view"
)

// Handler coordinates HTTP requests for the dashboard pages.
type Handler struct {
	logger    *slog.Logger
	source    statsapi.Source
	templates *view.Engine
	csrf      *shared.CSRFManager
	seq       fetch.Sequencer
	rbac      rbac.Middleware
	landing   Landing
	csvPool   sync.Pool
}

// NewHandler constructs the dashboard handler. seq may be nil, in which case
// stale responses are never detected.
func NewHandler(logger *slog.Logger, source statsapi.Source, templates *view.Engine, csrf *shared.CSRFManager, seq fetch.Sequencer) (*Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	landing, err := LoadLanding()
	if err != nil {
		return nil, err
	}
	h := &Handler{
		logger:    logger.With(slog.String("component", "dashboard")),
		source:    source,
		templates: templates,
		csrf:      csrf,
		seq:       seq,
		rbac:      rbac.Middleware{Logger: logger},
		landing:   landing,
	}
	h.csvPool.New = func() any { return new(bytes.Buffer) }
	return h, nil
}

func (h *Handler) handleRankings(w http.ResponseWriter, r *http.Request) {
	servePage(h, w, r, RankingsPage, h.source.TeamRankings, presentRankings)
}

func (h *Handler) handleB2B(w http.ResponseWriter, r *http.Request) {
	servePage(h, w, r, B2BPage, h.source.B2BRankings, presentB2B)
}

func (h *Handler) handleRest(w http.ResponseWriter, r *http.Request) {
	servePage(h, w, r, RestPage, h.loadRest, presentRest)
}

func (h *Handler) handleStints(w http.ResponseWriter, r *http.Request) {
	servePage(h, w, r, StintsPage, h.source.PlayerStints, presentStints)
}

// loadRest keeps only the longest rest span per team.
func (h *Handler) loadRest(ctx context.Context, rng nba.DateRange) ([]nba.RestRanking, error) {
	records, err := h.source.RestRankings(ctx, rng)
	if err != nil {
		return nil, err
	}
	return nba.DedupeRestRankings(records), nil
}

type loader[T any] func(ctx context.Context, rng nba.DateRange) ([]T, error)

func servePage[T any](h *Handler, w http.ResponseWriter, r *http.Request, page Page, load loader[T], present func(*PageView, []T) error) {
	if d := gate.Evaluate(gate.StateFromContext(r.Context()), page.Policy); d != gate.DecisionContent {
		h.renderGate(w, r, page.Title, d)
		return
	}

	fragment := r.URL.Query().Get("fragment") == "1"
	pv := &PageView{Page: page, Status: fetch.StatusIdle.String()}

	rng, submitted, err := page.rangeFrom(r)
	switch {
	case err != nil:
		pv.Start, pv.End = r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date")
		pv.Status = fetch.StatusError.String()
		pv.Error = rangeMessage(err)
	case !submitted && !page.AutoFetch:
		pv.Start, pv.End = page.inputValues(rng)
	default:
		pv.Start, pv.End = page.inputValues(rng)
		st := fetch.Run(r.Context(), h.seq, fetchScope(r, page), func(ctx context.Context) ([]T, error) {
			return load(ctx, rng)
		})
		if st.SequenceErr != nil {
			h.logger.Warn("fetch sequencer", slog.String("page", page.Key), slog.Any("error", st.SequenceErr))
		}
		if st.Stale && fragment {
			w.WriteHeader(http.StatusConflict)
			return
		}
		if st.Error != "" {
			h.logger.Warn("page fetch failed", slog.String("page", page.Key), slog.String("error", st.Error))
		}
		applyState(pv, st, present)
		if pv.Status == fetch.StatusData.String() {
			pv.ExportURL = page.exportURL(rng)
		}
	}

	name := page.Template
	if fragment {
		name = page.Body
	}
	h.render(w, r, http.StatusOK, name, page.Title, pv)
}

// fetchScope keys the generation counter by session and page so concurrent
// tabs of different users never supersede each other.
func fetchScope(r *http.Request, page Page) string {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return ""
	}
	return sess.ID + ":" + page.Key
}

func (h *Handler) renderGate(w http.ResponseWriter, r *http.Request, title string, d gate.Decision) {
	status := http.StatusOK
	switch d {
	case gate.DecisionSignIn:
		status = http.StatusUnauthorized
	case gate.DecisionDenied:
		status = http.StatusForbidden
	}
	h.render(w, r, status, "pages/gate.html", title, newGateView(d, r.URL.Path))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	sess := shared.SessionFromContext(r.Context())
	var (
		csrfToken string
		flash     *shared.FlashMessage
	)
	if sess != nil {
		csrfToken, _ = h.csrf.EnsureToken(r.Context(), sess)
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Nav:         nav.Build(gate.StateFromContext(r.Context()), r.URL.Path),
		Data:        data,
	}
	if gv, ok := data.(GateView); ok {
		viewData.Refresh = gv.Refresh
	}
	if err := h.templates.RenderStatus(w, status, name, viewData); err != nil {
		h.logger.Error("render", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// ServePageForTest exposes the page handlers for tests.
func (h *Handler) ServePageForTest(w http.ResponseWriter, r *http.Request, key string) {
	switch key {
	case RankingsPage.Key:
		h.handleRankings(w, r)
	case B2BPage.Key:
		h.handleB2B(w, r)
	case RestPage.Key:
		h.handleRest(w, r)
	case StintsPage.Key:
		h.handleStints(w, r)
	default:
		h.handleLanding(w, r)
	}
}
