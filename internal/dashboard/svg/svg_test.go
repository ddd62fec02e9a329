package svg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarsSingleSeries(t *testing.T) {
	html, err := Bars(640, 320, []float64{7, 3}, []string{"Celtics", "Knicks"}, BarOpts{
		Title:       "Longest Rest",
		SeriesLabel: "Rest Days",
	})
	require.NoError(t, err)
	out := string(html)
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Equal(t, 2, strings.Count(out, "<rect"))
	assert.Contains(t, out, "Rest Days")
	assert.Contains(t, out, `fill="`+ColorFor("Celtics")+`"`)
	assert.Contains(t, out, "Celtics: 7")
}

func TestBarsValidation(t *testing.T) {
	_, err := Bars(0, 0, nil, nil, BarOpts{})
	assert.Error(t, err)
	_, err = Bars(0, 0, []float64{1}, []string{"a", "b"}, BarOpts{})
	assert.Error(t, err)
	_, err = Bars(0, 0, []float64{-1}, []string{"a"}, BarOpts{})
	assert.Error(t, err)
	_, err = Bars(10, 10, []float64{1}, []string{"a"}, BarOpts{})
	assert.Error(t, err)
}

func TestBarsEscapesLabels(t *testing.T) {
	html, err := Bars(0, 0, []float64{1}, []string{"<script>"}, BarOpts{})
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<script>")
}

func TestRadar(t *testing.T) {
	axes := []string{"Total B2B", "Home-Home B2B", "Away-Away B2B"}
	html, err := Radar(0, axes, []Dataset{{Label: "Lakers", Values: []float64{10, 4, 6}}}, RadarOpts{Title: "B2B"})
	require.NoError(t, err)
	out := string(html)
	for _, axis := range axes {
		assert.Contains(t, out, axis)
	}
	assert.Contains(t, out, `data-label="Lakers"`)
	assert.Contains(t, out, ColorFor("Lakers"))
	// Five grid rings plus one dataset.
	assert.Equal(t, DefaultTicks+1, strings.Count(out, "<polygon"))
}

func TestRadarValidation(t *testing.T) {
	_, err := Radar(0, []string{"a", "b"}, []Dataset{{Values: []float64{1, 2}}}, RadarOpts{})
	assert.Error(t, err)
	_, err = Radar(0, []string{"a", "b", "c"}, nil, RadarOpts{})
	assert.Error(t, err)
	_, err = Radar(0, []string{"a", "b", "c"}, []Dataset{{Label: "x", Values: []float64{1}}}, RadarOpts{})
	assert.Error(t, err)
}

func TestColorForIsStable(t *testing.T) {
	assert.Equal(t, ColorFor("Lakers"), ColorFor("Lakers"))
	assert.Equal(t, ColorFor("Lakers"), ColorFor(" lakers "))
	assert.Contains(t, Palette, ColorFor("Celtics"))

	seen := map[string]bool{}
	for _, team := range []string{"Lakers", "Celtics", "Knicks", "Bulls", "Heat", "Suns", "Nets", "Jazz"} {
		seen[ColorFor(team)] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestNiceMax(t *testing.T) {
	assert.Equal(t, 10.0, niceMax(10, 5))
	assert.Equal(t, 15.0, niceMax(11, 5))
	assert.Equal(t, 5.0, niceMax(0, 5))
}
