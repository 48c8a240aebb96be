package render

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"
	"time"
)

var funcs = template.FuncMap{
	// date formats a nullable due date for display and form values.
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"datetime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
}

type Renderer struct {
	templates *template.Template
}

func New(fsys fs.FS) (*Renderer, error) {
	t, err := template.New("").Funcs(funcs).ParseFS(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

// HTML renders the named template. The page is buffered first so a
// template failure becomes a clean 500 instead of a torn response.
func (r *Renderer) HTML(w http.ResponseWriter, code int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	buf.WriteTo(w)
}

type errorData struct {
	Code    int
	Message string
}

func (r *Renderer) Error(w http.ResponseWriter, code int, message string) {
	r.HTML(w, code, "error.html", errorData{Code: code, Message: message})
}
