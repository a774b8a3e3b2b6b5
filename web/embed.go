// Package web embeds the HTML templates and static assets.
package web

import "embed"

// Templates holds the HTML templates.
//
//go:embed templates
var Templates embed.FS

// Static holds the static assets (stylesheets, placeholder images).
//
//go:embed static
var Static embed.FS
