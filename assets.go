// Package todobyoa provides embedded assets for production builds.
package todobyoa

import "embed"

// TemplateFS holds the server-rendered pages (the delegated login form and its retry page).
//
//go:embed frontend/templates/*.html
var TemplateFS embed.FS
