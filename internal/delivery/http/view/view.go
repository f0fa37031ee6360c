package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/sirupsen/logrus"
)

//go:embed templates
var templateFS embed.FS

const (
	layoutFile   = "templates/layout.html"
	partialsFile = "templates/partials.html"
	pagesDir     = "templates/pages"
)

// Renderer executes the embedded page and fragment templates. Each page is parsed
// into its own set with the layout and partials so every page can define "content".
type Renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
	log       *logrus.Logger
}

func NewRenderer(log *logrus.Logger) (*Renderer, error) {
	funcs := template.FuncMap{
		"join":     strings.Join,
		"contains": contains,
	}

	fragments, err := template.New("partials").Funcs(funcs).ParseFS(templateFS, partialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse partials: %w", err)
	}

	files, err := fs.Glob(templateFS, pagesDir+"/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		tmpl, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, layoutFile, partialsFile, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages, fragments: fragments, log: log}, nil
}

// Page renders a full page inside the layout.
func (r *Renderer) Page(w http.ResponseWriter, status int, name string, data interface{}) {
	tmpl, ok := r.pages[name]
	if !ok {
		r.log.Errorf("Unknown page template %q", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	r.execute(w, status, tmpl, "layout", data)
}

// Fragment renders one named partial, for htmx swaps.
func (r *Renderer) Fragment(w http.ResponseWriter, status int, name string, data interface{}) {
	r.execute(w, status, r.fragments, name, data)
}

func (r *Renderer) execute(w http.ResponseWriter, status int, tmpl *template.Template, name string, data interface{}) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		r.log.Errorf("Failed to render template %s: %+v", name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
