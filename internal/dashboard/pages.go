package dashboard

import (
	"net/http"
	"net/url"

	"github.com/courtvision/courtvision/internal/gate"
	"github.com/courtvision/courtvision/internal/nba"
)

// Page describes one dashboard page: where it lives, who may see it and how
// its date form behaves.
type Page struct {
	Key         string
	Path        string
	Title       string
	Heading     string
	Button      string
	Policy      gate.Policy
	InputType   string
	InputLayout string
	// AutoFetch pages fetch on first load with their default range and
	// re-fetch when the form changes. Other pages wait for a submit.
	AutoFetch bool
	Defaults  func() nba.DateRange
	Template  string
	Body      string
}

var (
	RankingsPage = Page{
		Key:         "rankings",
		Path:        "/rankings",
		Title:       "Games Played Rankings",
		Heading:     "Team Rankings - Games Played",
		Button:      "Fetch Rankings",
		Policy:      gate.Policy{},
		InputType:   "datetime-local",
		InputLayout: nba.InputDateTimeLayout,
		AutoFetch:   true,
		Defaults:    nba.MonthRange,
		Template:    "pages/rankings.html",
		Body:        "rankings/body",
	}
	B2BPage = Page{
		Key:         "b2b",
		Path:        "/b2b-rankings",
		Title:       "B2B Rankings",
		Heading:     "Most Back-to-Back (B2B) Games - Radar Chart",
		Button:      "Fetch B2B Rankings",
		Policy:      gate.Policy{RequiredRole: gate.AdminRole},
		InputType:   "date",
		InputLayout: nba.DateLayout,
		AutoFetch:   true,
		Defaults:    nba.SeasonRange,
		Template:    "pages/b2b.html",
		Body:        "b2b/body",
	}
	RestPage = Page{
		Key:         "rest",
		Path:        "/rest-rankings",
		Title:       "Rest Rankings",
		Heading:     "Longest Rest Span (No Games) by Team",
		Button:      "Fetch Data",
		Policy:      gate.Policy{},
		InputType:   "date",
		InputLayout: nba.DateLayout,
		AutoFetch:   true,
		Defaults:    nba.SeasonRange,
		Template:    "pages/rest.html",
		Body:        "rest/body",
	}
	StintsPage = Page{
		Key:         "stints",
		Path:        "/player-stints",
		Title:       "Player Stint Metrics",
		Heading:     "Player Stints Data",
		Button:      "Fetch Stints Data",
		Policy:      gate.Policy{RequiredRole: gate.AdminRole},
		InputType:   "date",
		InputLayout: nba.DateLayout,
		AutoFetch:   false,
		Defaults:    func() nba.DateRange { return nba.DateRange{} },
		Template:    "pages/stints.html",
		Body:        "stints/body",
	}
)

// Pages lists every dashboard page in navbar order.
func Pages() []Page {
	return []Page{RankingsPage, B2BPage, RestPage, StintsPage}
}

// rangeFrom reads start_date/end_date from the query. submitted is false when
// both are absent, in which case the page defaults apply.
func (p Page) rangeFrom(r *http.Request) (rng nba.DateRange, submitted bool, err error) {
	q := r.URL.Query()
	start, end := q.Get("start_date"), q.Get("end_date")
	if start == "" && end == "" {
		return p.Defaults(), false, nil
	}
	rng, err = nba.ParseRange(start, end)
	if err != nil {
		return nba.DateRange{}, true, err
	}
	return rng, true, rng.Validate()
}

// inputValues formats rng for the page's HTML inputs.
func (p Page) inputValues(rng nba.DateRange) (string, string) {
	var start, end string
	if !rng.Start.IsZero() {
		start = rng.Start.Format(p.InputLayout)
	}
	if !rng.End.IsZero() {
		end = rng.End.Format(p.InputLayout)
	}
	return start, end
}

func (p Page) exportURL(rng nba.DateRange) string {
	start, end := p.inputValues(rng)
	q := url.Values{}
	q.Set("start_date", start)
	q.Set("end_date", end)
	return p.Path + "/export.csv?" + q.Encode()
}
