package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtvision/courtvision/internal/gate"
)

func TestBuildSignedOut(t *testing.T) {
	bar := Build(gate.State{Loaded: true}, "/")
	assert.Equal(t, "Analytics", bar.Brand)
	assert.Empty(t, bar.Links)
	assert.Nil(t, bar.User)
	assert.False(t, bar.Loading)
	assert.Equal(t, "Sign In", bar.SignInLabel)

	assert.True(t, Build(gate.State{}, "/").Loading)
}

func TestBuildSignedIn(t *testing.T) {
	st := gate.State{
		Loaded: true,
		User:   &gate.Principal{ID: "1", Email: "coach@example.com", Name: "Coach"},
		Role:   gate.AdminRole,
	}
	bar := Build(st, "/rest-rankings/export.csv")
	require.Len(t, bar.Links, 4)
	assert.Equal(t, "Games Played Rankings", bar.Links[0].Label)
	assert.False(t, bar.Links[0].Active)
	assert.True(t, bar.Links[2].Active)
	require.NotNil(t, bar.User)
	assert.Equal(t, "Admin", bar.User.Role)
	assert.True(t, bar.User.IsAdmin)

	// Building must not mutate the shared route table.
	assert.False(t, Routes[2].Active)
}

func TestBuildMemberRole(t *testing.T) {
	st := gate.State{Loaded: true, User: &gate.Principal{ID: "2"}, Role: gate.MemberRole}
	bar := Build(st, "/rankings")
	assert.True(t, bar.Links[0].Active)
	assert.False(t, bar.Links[1].Active)
	assert.Equal(t, "Member", bar.User.Role)
	assert.False(t, bar.User.IsAdmin)
}
