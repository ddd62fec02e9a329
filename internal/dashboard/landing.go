package dashboard

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/courtvision/courtvision/internal/gate"
	"github.com/courtvision/courtvision/web"
)

// Landing is the rendered landing page copy.
type Landing struct {
	Intro template.HTML
	Cards []template.HTML
}

// LandingView is the landing template model.
type LandingView struct {
	Landing
	SignedIn      bool
	SignInMessage string
	SignInURL     string
	SignInLabel   string
}

// Raw HTML in the Markdown source is escaped because WithUnsafe is not set.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithXHTML(),
	),
)

// LoadLanding renders content/landing.md. Text before the first level-two
// heading becomes the intro and each "## " section becomes a card.
func LoadLanding() (Landing, error) {
	src, err := web.Content.ReadFile("content/landing.md")
	if err != nil {
		return Landing{}, fmt.Errorf("dashboard: read landing: %w", err)
	}
	return RenderLanding(string(src))
}

// RenderLanding converts landing Markdown into intro and card fragments.
func RenderLanding(src string) (Landing, error) {
	var out Landing
	sections := splitSections(src)
	for i, section := range sections {
		html, err := renderMarkdown(section)
		if err != nil {
			return Landing{}, err
		}
		if i == 0 && !strings.HasPrefix(strings.TrimSpace(section), "## ") {
			out.Intro = html
			continue
		}
		out.Cards = append(out.Cards, html)
	}
	return out, nil
}

func splitSections(src string) []string {
	var (
		sections []string
		current  strings.Builder
	)
	for _, line := range strings.SplitAfter(src, "\n") {
		if strings.HasPrefix(line, "## ") && strings.TrimSpace(current.String()) != "" {
			sections = append(sections, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if strings.TrimSpace(current.String()) != "" {
		sections = append(sections, current.String())
	}
	return sections
}

func renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("dashboard: render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func (h *Handler) handleLanding(w http.ResponseWriter, r *http.Request) {
	st := gate.StateFromContext(r.Context())
	if gate.Evaluate(st, gate.Policy{Public: true}) == gate.DecisionLoading {
		h.renderGate(w, r, "Analytics", gate.DecisionLoading)
		return
	}
	lv := LandingView{
		SignedIn:      st.SignedIn(),
		SignInMessage: gate.SignInMessage,
		SignInURL:     "/auth/sign-in",
		SignInLabel:   gate.SignInButtonLabel,
	}
	if lv.SignedIn {
		lv.Landing = h.landing
	}
	h.render(w, r, http.StatusOK, "pages/landing.html", "Analytics", lv)
}
