package dashboard

import (
	"errors"
	"html/template"
	"net/url"

	"github.com/courtvision/courtvision/internal/dashboard/svg"
	"github.com/courtvision/courtvision/internal/fetch"
	"github.com/courtvision/courtvision/internal/gate"
	"github.com/courtvision/courtvision/internal/nba"
)

// EmptyMessage is shown for a successful fetch with no records.
const EmptyMessage = "No data available for the selected dates."

// B2BAxes are the fixed radar axes, in dataset value order.
var B2BAxes = []string{"Total B2B", "Home-Home B2B", "Away-Away B2B"}

// PageView is the template model shared by the dashboard pages. Only the
// record slice matching the page is set.
type PageView struct {
	Page      Page
	Start     string
	End       string
	Status    string
	Error     string
	Empty     string
	Token     int64
	ExportURL string
	Chart     template.HTML

	Rankings []nba.TeamRanking
	B2B      []nba.B2BRanking
	Rest     []nba.RestRanking
	Stints   []nba.PlayerStint
}

// GateView is the template model for non-content gate decisions.
type GateView struct {
	Decision  string
	Title     string
	Message   string
	SignInURL   string
	SignInLabel string
	Refresh     int
}

func newGateView(d gate.Decision, next string) GateView {
	gv := GateView{
		Decision:    d.String(),
		SignInURL:   "/auth/sign-in?next=" + url.QueryEscape(next),
		SignInLabel: gate.SignInButtonLabel,
	}
	switch d {
	case gate.DecisionSignIn:
		gv.Title = gate.SignInMessage
	case gate.DecisionDenied:
		gv.Title = gate.DeniedTitle
		gv.Message = gate.DeniedMessage
	default:
		gv.Title = gate.LoadingMessage
		gv.Refresh = 2
	}
	return gv
}

// B2BDatasets maps each team to one radar dataset of
// [total_b2b, home_home_b2b, away_away_b2b].
func B2BDatasets(records []nba.B2BRanking) []svg.Dataset {
	out := make([]svg.Dataset, 0, len(records))
	for _, rec := range records {
		out = append(out, svg.Dataset{
			Label:  rec.TeamName,
			Values: []float64{float64(rec.TotalB2B), float64(rec.HomeHomeB2B), float64(rec.AwayAwayB2B)},
			Color:  svg.ColorFor(rec.TeamName),
		})
	}
	return out
}

func presentRankings(pv *PageView, records []nba.TeamRanking) error {
	pv.Rankings = records
	return nil
}

func presentB2B(pv *PageView, records []nba.B2BRanking) error {
	pv.B2B = records
	chart, err := svg.Radar(0, B2BAxes, B2BDatasets(records), svg.RadarOpts{
		Title:       "Most Back-to-Back (B2B) Games",
		Description: "Total, home-home and away-away back-to-back games per team",
	})
	if err != nil {
		return err
	}
	pv.Chart = chart
	return nil
}

func presentRest(pv *PageView, records []nba.RestRanking) error {
	pv.Rest = records
	values := make([]float64, len(records))
	labels := make([]string, len(records))
	for i, rec := range records {
		values[i] = float64(rec.DaysOfRest)
		labels[i] = rec.TeamName
	}
	chart, err := svg.Bars(0, 0, values, labels, svg.BarOpts{
		Title:       "Longest Rest Span",
		Description: "Longest stretch without a game per team",
		SeriesLabel: "Rest Days",
	})
	if err != nil {
		return err
	}
	pv.Chart = chart
	return nil
}

func presentStints(pv *PageView, records []nba.PlayerStint) error {
	pv.Stints = records
	return nil
}

// applyState copies the fetch outcome into pv, presenting records only when
// there is data to show.
func applyState[T any](pv *PageView, st *fetch.State[T], present func(*PageView, []T) error) {
	pv.Token = st.Token
	pv.Status = st.Status().String()
	pv.Error = st.Error
	switch st.Status() {
	case fetch.StatusEmpty:
		pv.Empty = EmptyMessage
	case fetch.StatusData:
		if err := present(pv, st.Records); err != nil {
			pv.Status = fetch.StatusError.String()
			pv.Error = err.Error()
		}
	}
}

func rangeMessage(err error) string {
	switch {
	case errors.Is(err, nba.ErrInvalidRange):
		return "End date must not be before start date"
	default:
		return "Enter a valid start and end date"
	}
}
