package nba

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateLayouts(t *testing.T) {
	cases := map[string]time.Time{
		"2024-01-01":          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"2024-01-31T23:59":    time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC),
		"2024-01-31 23:59:10": time.Date(2024, 1, 31, 23, 59, 10, 0, time.UTC),
		"2024-02-01T08:30:05": time.Date(2024, 2, 1, 8, 30, 5, 0, time.UTC),
	}
	for raw, want := range cases {
		got, err := ParseDate(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), raw)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("01/02/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDateRangeValidate(t *testing.T) {
	rng, err := ParseRange("2024-12-31", "2024-01-01")
	require.NoError(t, err)
	assert.ErrorIs(t, rng.Validate(), ErrInvalidRange)

	empty, err := ParseRange("", "")
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
	assert.ErrorIs(t, empty.Validate(), ErrInvalidDate)

	assert.NoError(t, SeasonRange().Validate())
}

func TestTextDecodesNumbersAndStrings(t *testing.T) {
	var stint PlayerStint
	payload := `{"game_date":"2024-01-05","stint_start_time":720.5,"stint_end_time":null,"period":2}`
	require.NoError(t, json.Unmarshal([]byte(payload), &stint))
	assert.Equal(t, "2024-01-05", stint.GameDate.String())
	assert.Equal(t, "720.5", stint.StintStartTime.String())
	assert.Equal(t, "", stint.StintEndTime.String())
	assert.Equal(t, 2, stint.Period)
}
