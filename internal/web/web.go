// Package web holds the embedded HTML templates and the renderer the
// handlers draw pages with.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"smpeduli/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded page templates by name.
type Renderer struct {
	t *template.Template
}

// NewRenderer parses every embedded template once, at startup.
func NewRenderer() (*Renderer, error) {
	t, err := template.New("smpeduli").Funcs(template.FuncMap{
		"rupiah": domain.FormatRupiah,
		// inline preview images arrive as data: URIs, which the default
		// URL filter would reject
		"datauri": func(s string) template.URL { return template.URL(s) },
		"progress": func(c domain.Campaign) int {
			p := int(c.Progress())
			if p > 100 {
				p = 100
			}
			return p
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}
	return &Renderer{t: t}, nil
}

// Render writes the named page with the given data.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	return r.t.ExecuteTemplate(w, name, data)
}
