package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/courtvision/courtvision/internal/platform/httpx"
)

// The JSON endpoints mirror the upstream envelopes after post-processing.

func (h *Handler) dataB2B(w http.ResponseWriter, r *http.Request) {
	serveData(h, w, r, B2BPage, "rankings", h.source.B2BRankings)
}

func (h *Handler) dataRankings(w http.ResponseWriter, r *http.Request) {
	serveData(h, w, r, RankingsPage, "rankings", h.source.TeamRankings)
}

func (h *Handler) dataRest(w http.ResponseWriter, r *http.Request) {
	serveData(h, w, r, RestPage, "rankings", h.loadRest)
}

func (h *Handler) dataStints(w http.ResponseWriter, r *http.Request) {
	serveData(h, w, r, StintsPage, "stints", h.source.PlayerStints)
}

func serveData[T any](h *Handler, w http.ResponseWriter, r *http.Request, page Page, field string, load loader[T]) {
	rng, err := requestRange(r, page)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	records, err := load(r.Context(), rng)
	if err != nil {
		h.logger.Warn("data fetch failed", slog.String("page", page.Key), slog.Any("error", err))
		httpx.RespondError(w, upstreamError(err))
		return
	}
	if records == nil {
		records = []T{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{field: records})
}
