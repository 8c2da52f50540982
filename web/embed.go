// Package web holds the embedded templates, stylesheet and default content.
package web

import "embed"

// Templates holds the HTML page templates.
//
//go:embed templates/*.html
var Templates embed.FS

// Static holds assets served under /static.
//
//go:embed static
var Static embed.FS

// DefaultContent is the lesson and quiz document used when no other source is configured.
//
//go:embed content/finpath.yaml
var DefaultContent []byte
