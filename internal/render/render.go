// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the storefront and
// the shop owner's panel. It supports full-page and HTMX partial rendering,
// automatically detecting the request type via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/session"
)

//go:embed templates/shop/*.html templates/admin/*.html
var templateFS embed.FS

// layouts are the template directories; each has its own base.html.
var layouts = []string{"shop", "admin"}

// PageData holds all data passed to templates.
type PageData struct {
	Title     string              // Page title for <title> tag
	Section   string              // Active nav section (e.g., "pedidos", "produtos")
	Session   *session.Data       // Current browser session
	CSRFToken string              // CSRF token for forms and HTMX headers
	Shop      models.ShopSettings // Logo, colors and banners for the layout
	Data      map[string]any      // Page-specific data
	Flashes   []Flash             // One-time notification messages
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error"
	Message string
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// New creates a Renderer by parsing every page template paired with its
// layout's base.html. Templates are registered as "<layout>/<page>", for
// example "shop/catalog". When devMode is true pages load the unminified
// HTMX build.
func New(devMode bool) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"activeClass": func(current, target string) string {
				if current == target {
					return "nav-link active"
				}
				return "nav-link"
			},
			"isDev": func() bool {
				return devMode
			},
			// money formats a price the way the shop shows it: "R$ 6.50".
			"money": func(d decimal.Decimal) string {
				return "R$ " + d.StringFixed(2)
			},
			"add": func(a, b int) int { return a + b },
			"sub": func(a, b int) int { return a - b },
		},
	}

	for _, layout := range layouts {
		pages, err := fs.Glob(templateFS, "templates/"+layout+"/*.html")
		if err != nil {
			return nil, fmt.Errorf("glob %s templates: %w", layout, err)
		}
		base := "templates/" + layout + "/base.html"

		for _, page := range pages {
			name := path.Base(page)
			if name == "base.html" {
				continue
			}
			tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(templateFS, base, page)
			if err != nil {
				return nil, fmt.Errorf("parse template %s/%s: %w", layout, name, err)
			}
			r.templates[layout+"/"+strings.TrimSuffix(name, ".html")] = tmpl
		}
	}

	return r, nil
}

// Page renders a full page or an HTMX partial, depending on the request
// headers. For HTMX requests, only the "content" block is sent. For full
// page loads, the entire base layout is rendered.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	block := "base.html"
	if isHTMX(r) {
		block = "content"
	}
	rn.Partial(w, r, name, block, data)
}

// Partial renders a single named block of a page template, such as the
// order list the panel polls for.
func (rn *Renderer) Partial(w http.ResponseWriter, r *http.Request, name, block string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	// Inject CSRF token from context (set by CSRF middleware).
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())

	// Inject session from context.
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	// Render into a buffer so a failing template still yields a clean 500.
	var buf bytes.Buffer
	if err := executeTemplate(&buf, tmpl, block, data); err != nil {
		slog.Error("template render failed", "template", name, "block", block, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// Fragment renders a block to HTML without a request. The storefront uses
// it to build the product grid that the fragment cache keeps.
func (rn *Renderer) Fragment(name, block string, data *PageData) (template.HTML, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return "", fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := executeTemplate(&buf, tmpl, block, data); err != nil {
		return "", fmt.Errorf("render %s/%s: %w", name, block, err)
	}
	return template.HTML(buf.String()), nil
}

// executeTemplate wraps template execution with error handling.
func executeTemplate(w io.Writer, tmpl *template.Template, name string, data any) error {
	return tmpl.ExecuteTemplate(w, name, data)
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// IsHTMX reports whether r came from HTMX.
func IsHTMX(r *http.Request) bool {
	return isHTMX(r)
}
