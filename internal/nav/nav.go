// Package nav builds the navigation bar shown on every page.
package nav

import (
	"strings"

	"github.com/courtvision/courtvision/internal/gate"
)

// Brand is the navbar title.
const Brand = "Analytics"

// Link is one navbar entry.
type Link struct {
	Label  string
	Href   string
	Active bool
}

// UserMenu is rendered for signed-in users.
type UserMenu struct {
	Name    string
	Email   string
	Role    string
	IsAdmin bool
}

// Bar is the navbar view model.
type Bar struct {
	Brand       string
	Links       []Link
	User        *UserMenu
	SignedIn    bool
	Loading     bool
	SignInLabel string
}

// Routes lists the dashboard pages in navbar order.
var Routes = []Link{
	{Label: "Games Played Rankings", Href: "/rankings"},
	{Label: "B2B Rankings", Href: "/b2b-rankings"},
	{Label: "Rest Rankings", Href: "/rest-rankings"},
	{Label: "Player Stint Metrics", Href: "/player-stints"},
}

// Build returns the navbar for the given identity and request path. Links
// and the user menu appear only for signed-in users.
func Build(st gate.State, currentPath string) Bar {
	bar := Bar{Brand: Brand, Loading: !st.Loaded, SignInLabel: gate.SignInButtonLabel}
	if !st.SignedIn() {
		return bar
	}
	bar.SignedIn = true
	bar.Links = make([]Link, len(Routes))
	for i, link := range Routes {
		link.Active = isActive(link.Href, currentPath)
		bar.Links[i] = link
	}
	bar.User = &UserMenu{
		Name:    st.User.Name,
		Email:   st.User.Email,
		Role:    roleLabel(st.Role),
		IsAdmin: st.IsAdmin(),
	}
	return bar
}

func isActive(href, current string) bool {
	return current == href || strings.HasPrefix(current, href+"/")
}

func roleLabel(role string) string {
	switch role {
	case gate.AdminRole:
		return "Admin"
	case gate.MemberRole:
		return "Member"
	case "":
		return "No organization"
	default:
		return strings.TrimPrefix(role, "org:")
	}
}
