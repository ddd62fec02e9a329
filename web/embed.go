// Package web embeds the templates, static assets and Markdown content served
// by the dashboard.
package web

import "embed"

// Templates embeds HTML templates.
//
//go:embed templates/**/*.html
var Templates embed.FS

// Static embeds static assets.
//
//go:embed static/**/*
var Static embed.FS

// Content embeds Markdown page copy.
//
//go:embed content/*.md
var Content embed.FS
