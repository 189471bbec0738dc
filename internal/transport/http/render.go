package http

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = []string{"upload.html", "result.html", "view.html", "creations.html"}

// Renderer echo.Renderer поверх html/template, по шаблону на страницу
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"safeURL": safeURL,
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		t, err := template.New(page).Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.templates[page] = t
	}

	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return t.ExecuteTemplate(w, name, data)
}

// safeURL пропускает встроенные изображения и аудио, остальное экранирует html/template
func safeURL(ref string) interface{} {
	if strings.HasPrefix(ref, "data:image/") || strings.HasPrefix(ref, "data:audio/") {
		return template.URL(ref)
	}
	return ref
}
