package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
)

// Page template names.
const (
	PageMCPLogin       = "mcp_login"
	PageMCPLoginFailed = "mcp_login_failed"
)

// PageRenderer renders the server-side HTML pages.
type PageRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// NewPageRenderer parses every *.html template in fsys.
func NewPageRenderer(fsys fs.FS, logger *slog.Logger) (*PageRenderer, error) {
	if fsys == nil {
		return nil, errors.New("template filesystem is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	t, err := template.New("root").ParseFS(fsys, "*.html")
	if err != nil {
		logger.Error("template parsing failed", slog.Any("error", err))
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	for _, name := range []string{PageMCPLogin, PageMCPLoginFailed} {
		if t.Lookup(name) == nil {
			return nil, fmt.Errorf("template %q not defined", name)
		}
	}
	return &PageRenderer{t: t, logger: logger}, nil
}

// Render executes the named template into a buffer first, so a template error never leaves a
// half-written page behind.
func (p *PageRenderer) Render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := p.t.ExecuteTemplate(&buf, name, data); err != nil {
		p.logger.Error("template execution failed", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		return
	}
}
