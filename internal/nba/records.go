package nba

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// B2BRanking counts back-to-back games for a team.
type B2BRanking struct {
	TeamName        string `json:"team_name"`
	TotalB2B        int    `json:"total_b2b"`
	HomeHomeB2B     int    `json:"home_home_b2b"`
	AwayAwayB2B     int    `json:"away_away_b2b"`
	TotalB2BRank    int    `json:"total_b2b_rank,omitempty"`
	HomeHomeB2BRank int    `json:"home_home_b2b_rank,omitempty"`
	AwayAwayB2BRank int    `json:"away_away_b2b_rank,omitempty"`
}

// TeamRanking summarises games played within a window.
type TeamRanking struct {
	TeamName       string  `json:"team_name"`
	GamesPlayed    int     `json:"games_played"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	WinPercentage  float64 `json:"win_percentage"`
	TotalGamesRank int     `json:"total_games_rank"`
	HomeGames      int     `json:"home_games"`
	AwayGames      int     `json:"away_games"`
	HomeGamesRank  int     `json:"home_games_rank"`
	AwayGamesRank  int     `json:"away_games_rank"`
}

// RestRanking is one rest span between consecutive games of a team.
type RestRanking struct {
	TeamName       string `json:"teamname"`
	DaysOfRest     int    `json:"days_of_rest"`
	FirstGameDate  Text   `json:"first_game_date,omitempty"`
	SecondGameDate Text   `json:"second_game_date,omitempty"`
	RestRank       int    `json:"rest_rank,omitempty"`
}

// PlayerStint is a continuous on-court period for a player.
type PlayerStint struct {
	GameDate       Text   `json:"game_date"`
	TeamName       string `json:"team_name"`
	OpponentName   string `json:"opponent_name"`
	PlayerName     string `json:"player_name"`
	Period         int    `json:"period"`
	StintNumber    int    `json:"stint_number"`
	StintStartTime Text   `json:"stint_start_time"`
	StintEndTime   Text   `json:"stint_end_time"`
}

// Text decodes JSON strings, numbers and null into display text.
// The analytics API is not consistent about dates and clock values.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if f, err := n.Float64(); err == nil {
		*t = Text(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	*t = Text(n.String())
	return nil
}

// String returns the raw text.
func (t Text) String() string {
	return string(t)
}
