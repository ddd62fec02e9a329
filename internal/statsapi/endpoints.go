package statsapi

import (
	"net/url"

	"github.com/courtvision/courtvision/internal/nba"
)

// Endpoint describes one analytics API route. Layout is the date format the
// backend validates for start_date and end_date.
type Endpoint struct {
	Name   string
	Path   string
	Field  string
	Layout string
}

// Known endpoints. Date formats are declared here and nowhere else.
var (
	B2BRankingsEndpoint  = Endpoint{Name: "b2b_rankings", Path: "/api/b2b_rankings", Field: "rankings", Layout: nba.DateLayout}
	PlayerStintsEndpoint = Endpoint{Name: "player_stints", Path: "/api/player_stints", Field: "stints", Layout: nba.DateLayout}
	TeamRankingsEndpoint = Endpoint{Name: "team_rankings", Path: "/api/team_rankings_range", Field: "rankings", Layout: nba.DateTimeLayout}
	RestRankingsEndpoint = Endpoint{Name: "rest_rankings", Path: "/api/rest_rankings", Field: "rankings", Layout: nba.DateLayout}
)

// Query encodes the range as start_date/end_date using the endpoint layout.
func (e Endpoint) Query(rng nba.DateRange) string {
	start, end := rng.Format(e.Layout)
	return "start_date=" + url.QueryEscape(start) + "&end_date=" + url.QueryEscape(end)
}
