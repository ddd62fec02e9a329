package nba

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupeRestRankingsKeepsMaximum(t *testing.T) {
	got := DedupeRestRankings([]RestRanking{
		{TeamName: "Celtics", DaysOfRest: 3},
		{TeamName: "Lakers", DaysOfRest: 2},
		{TeamName: "Celtics", DaysOfRest: 7},
		{TeamName: "Lakers", DaysOfRest: 1},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "Celtics", got[0].TeamName)
	assert.Equal(t, 7, got[0].DaysOfRest)
	assert.Equal(t, "Lakers", got[1].TeamName)
	assert.Equal(t, 2, got[1].DaysOfRest)
}

func TestDedupeRestRankingsTieKeepsFirstSeen(t *testing.T) {
	got := DedupeRestRankings([]RestRanking{
		{TeamName: "Heat", DaysOfRest: 4, RestRank: 1},
		{TeamName: "Heat", DaysOfRest: 4, RestRank: 2},
	})
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].RestRank)
}

func TestDedupeRestRankingsEmpty(t *testing.T) {
	got := DedupeRestRankings(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDedupeRestRankingsOneRecordPerTeam(t *testing.T) {
	input := []RestRanking{
		{TeamName: "Knicks", DaysOfRest: 2},
		{TeamName: "Nets", DaysOfRest: 5},
		{TeamName: "Knicks", DaysOfRest: 9},
		{TeamName: "Nets", DaysOfRest: 3},
		{TeamName: "Knicks", DaysOfRest: 6},
	}
	maxByTeam := map[string]int{}
	for _, rec := range input {
		if rec.DaysOfRest > maxByTeam[rec.TeamName] {
			maxByTeam[rec.TeamName] = rec.DaysOfRest
		}
	}
	got := DedupeRestRankings(input)
	seen := map[string]bool{}
	for _, rec := range got {
		assert.False(t, seen[rec.TeamName], "duplicate team %s", rec.TeamName)
		seen[rec.TeamName] = true
		assert.Equal(t, maxByTeam[rec.TeamName], rec.DaysOfRest)
	}
	assert.Len(t, got, len(maxByTeam))
}
