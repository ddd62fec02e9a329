package view

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtvision/courtvision/internal/gate"
	"github.com/courtvision/courtvision/internal/nav"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err, "templates should parse without error")
	for _, name := range []string{
		"pages/landing.html",
		"pages/signin.html",
		"pages/rankings.html",
		"pages/b2b.html",
		"pages/rest.html",
		"pages/stints.html",
		"pages/gate.html",
		"rankings/body",
		"b2b/body",
		"rest/body",
		"stints/body",
	} {
		assert.True(t, engine.Has(name), name)
	}
}

func TestRenderNavbar(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	st := gate.State{Loaded: true, User: &gate.Principal{ID: "1", Email: "fan@example.com", Name: "Fan"}, Role: gate.MemberRole}
	rec := httptest.NewRecorder()
	err = engine.Render(rec, "pages/gate.html", TemplateData{
		Title:       "Restricted",
		CurrentPath: "/rankings",
		Nav:         nav.Build(st, "/rankings"),
		Data:        map[string]any{"Decision": "denied", "Title": gate.DeniedTitle, "Message": gate.DeniedMessage},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Games Played Rankings")
	assert.Contains(t, body, "fan@example.com")
	assert.Contains(t, body, "Restricted Access")
}

func TestRenderUnknownTemplateWritesNothing(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	assert.Error(t, engine.Render(rec, "pages/missing.html", TemplateData{}))
	assert.Empty(t, rec.Body.String())
}
