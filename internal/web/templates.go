package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/campuscare/internal/auth"
	"github.com/erazemk/campuscare/internal/model"
	webembed "github.com/erazemk/campuscare/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"kindName": func(k model.Kind) string {
			switch k {
			case model.KindLost:
				return "Lost"
			case model.KindFound:
				return "Found"
			default:
				return string(k)
			}
		},
		"date": func(t time.Time) string {
			return t.Local().Format("Jan 2, 2006 15:04")
		},
		"uploadURL": func(name string) string {
			return "/uploads/" + name
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"home.html",
		"report.html",
		"listings.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title        string
	User         *auth.Claims
	Flashes      []Flash
	RequireLogin bool
}

// FormData carries submitted values and per-field errors back to a form.
type FormData struct {
	Values map[string]string
	Errors map[string]string
}

// Value returns the submitted value of field.
func (f *FormData) Value(field string) string {
	if f == nil {
		return ""
	}
	return f.Values[field]
}

// Error returns the validation message for field.
func (f *FormData) Error(field string) string {
	if f == nil {
		return ""
	}
	return f.Errors[field]
}
