// Package view renders the embedded HTML templates.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/courtvision/courtvision/internal/nav"
	"github.com/courtvision/courtvision/internal/shared"
	"github.com/courtvision/courtvision/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	Nav         nav.Bar
	// Refresh, when positive, makes the page reload itself after that many seconds.
	Refresh int
	Data    any
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	printer := message.NewPrinter(language.English)
	funcMap := template.FuncMap{
		"formatNumber": func(v int) string {
			return printer.Sprintf("%d", v)
		},
		"formatRatio": func(v float64) string {
			return strconv.FormatFloat(v, 'f', 3, 64)
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates,
		"templates/layouts/*.html",
		"templates/partials/*.html",
		"templates/pages/*.html",
	)
	if err != nil {
		return nil, fmt.Errorf("view: parse templates: %w", err)
	}
	return &Engine{templates: tpl}, nil
}

// Render executes the named template with a 200 status.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	return e.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus executes the named template into a buffer and writes it with
// status. Nothing is written when execution fails.
func (e *Engine) RenderStatus(w http.ResponseWriter, status int, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Has reports whether a template with name was parsed.
func (e *Engine) Has(name string) bool {
	return e != nil && e.templates.Lookup(name) != nil
}
