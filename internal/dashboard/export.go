package dashboard

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/courtvision/courtvision/internal/nba"
	"github.com/courtvision/courtvision/internal/platform/httpx"
)

var (
	rankingsHeader = []string{"Team Name", "Total Games Played", "Wins", "Losses", "Win Percentage", "Total Games Played Rank", "Home Games Played", "Away Games Played", "Home Games Played Rank", "Away Games Played Rank"}
	b2bHeader      = []string{"Team Name", "Total B2B", "Home-Home B2B", "Away-Away B2B", "Total B2B Rank", "Home-Home B2B Rank", "Away-Away B2B Rank"}
	restHeader     = []string{"Team Name", "Rest Days", "First Game Date", "Second Game Date", "Rest Rank"}
	stintsHeader   = []string{"Game Date", "Team Name", "Opponent Name", "Player Name", "Period", "Stint Number", "Start Time", "End Time"}
)

func rankingsRow(r nba.TeamRanking) []string {
	return []string{
		r.TeamName,
		strconv.Itoa(r.GamesPlayed),
		strconv.Itoa(r.Wins),
		strconv.Itoa(r.Losses),
		strconv.FormatFloat(r.WinPercentage, 'f', -1, 64),
		strconv.Itoa(r.TotalGamesRank),
		strconv.Itoa(r.HomeGames),
		strconv.Itoa(r.AwayGames),
		strconv.Itoa(r.HomeGamesRank),
		strconv.Itoa(r.AwayGamesRank),
	}
}

func b2bRow(r nba.B2BRanking) []string {
	return []string{
		r.TeamName,
		strconv.Itoa(r.TotalB2B),
		strconv.Itoa(r.HomeHomeB2B),
		strconv.Itoa(r.AwayAwayB2B),
		rank(r.TotalB2BRank),
		rank(r.HomeHomeB2BRank),
		rank(r.AwayAwayB2BRank),
	}
}

func restRow(r nba.RestRanking) []string {
	return []string{r.TeamName, strconv.Itoa(r.DaysOfRest), r.FirstGameDate.String(), r.SecondGameDate.String(), rank(r.RestRank)}
}

func stintsRow(s nba.PlayerStint) []string {
	return []string{
		s.GameDate.String(),
		s.TeamName,
		s.OpponentName,
		s.PlayerName,
		strconv.Itoa(s.Period),
		strconv.Itoa(s.StintNumber),
		s.StintStartTime.String(),
		s.StintEndTime.String(),
	}
}

func rank(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

// WriteCSV writes header and one row per record.
func WriteCSV[T any](w io.Writer, header []string, records []T, row func(T) []string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, rec := range records {
		if err := writer.Write(row(rec)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func (h *Handler) exportRankings(w http.ResponseWriter, r *http.Request) {
	serveCSV(h, w, r, RankingsPage, h.source.TeamRankings, rankingsHeader, rankingsRow)
}

func (h *Handler) exportB2B(w http.ResponseWriter, r *http.Request) {
	serveCSV(h, w, r, B2BPage, h.source.B2BRankings, b2bHeader, b2bRow)
}

func (h *Handler) exportRest(w http.ResponseWriter, r *http.Request) {
	serveCSV(h, w, r, RestPage, h.loadRest, restHeader, restRow)
}

func (h *Handler) exportStints(w http.ResponseWriter, r *http.Request) {
	serveCSV(h, w, r, StintsPage, h.source.PlayerStints, stintsHeader, stintsRow)
}

func serveCSV[T any](h *Handler, w http.ResponseWriter, r *http.Request, page Page, load loader[T], header []string, row func(T) []string) {
	rng, err := requestRange(r, page)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	records, err := load(r.Context(), rng)
	if err != nil {
		h.logger.Warn("export fetch failed", slog.String("page", page.Key), slog.Any("error", err))
		httpx.RespondError(w, upstreamError(err))
		return
	}

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()
	if err := WriteCSV(buf, header, records, row); err != nil {
		h.logger.Error("write csv", slog.String("page", page.Key), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	start, end := rng.Format(nba.DateLayout)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_%s_%s.csv"`, page.Key, start, end))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// requestRange resolves the date window for exports and JSON endpoints.
// Pages without a default window require both dates.
func requestRange(r *http.Request, page Page) (nba.DateRange, error) {
	rng, submitted, err := page.rangeFrom(r)
	if err != nil {
		return nba.DateRange{}, fmt.Errorf("%w: %s", httpx.ErrValidation, rangeMessage(err))
	}
	if !submitted && !page.AutoFetch {
		return nba.DateRange{}, fmt.Errorf("%w: start_date and end_date are required", httpx.ErrValidation)
	}
	return rng, nil
}

func upstreamError(err error) error {
	return fmt.Errorf("%w: %s", httpx.ErrUpstream, err.Error())
}
