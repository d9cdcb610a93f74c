package server

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/codekitchen-community/pages/internal/content"
	"github.com/codekitchen-community/pages/internal/pagestate"
	"github.com/codekitchen-community/pages/internal/site"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	pages, err := s.gen.Pages()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(pages) == 0 {
		http.Error(w, "No pages found. Please create a page folder with content.json", http.StatusNotFound)
		return
	}
	http.Redirect(w, r, "/"+pages[0], http.StatusFound)
}

type pageLink struct {
	Name  string
	Title string
	URL   string
}

func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := s.gen.Pages()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(pages) == 0 {
		http.Error(w, "No pages found", http.StatusNotFound)
		return
	}

	links := make([]pageLink, 0, len(pages))
	for _, name := range pages {
		title := name
		if data, err := content.LoadData(filepath.Join(s.gen.Root, name), name); err == nil {
			title = content.Title(name, data)
		}
		links = append(links, pageLink{Name: name, Title: title, URL: "/" + name})
	}

	var buf bytes.Buffer
	if err := pageListTemplate.Execute(&buf, links); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "page")
	session := s.session(w, r)

	opts := site.RenderOptions{
		Prerender:   s.gen.Prerender,
		Locale:      requestLocale(r),
		Preferences: s.preferences(session),
		RuntimeBase: RuntimePath,
	}
	if s.db != nil {
		opts.PreferencesURL = PreferencesPath
	}
	if v := r.URL.Query().Get("lang"); v != "" {
		lang, ok := pagestate.ParseLanguage(v)
		if !ok {
			http.Error(w, fmt.Sprintf("unsupported language %q", v), http.StatusBadRequest)
			return
		}
		opts.Language = lang
	}
	if v := r.URL.Query().Get("theme"); v != "" {
		theme, ok := pagestate.ParseTheme(v)
		if !ok {
			http.Error(w, fmt.Sprintf("unsupported theme %q", v), http.StatusBadRequest)
			return
		}
		opts.Theme = theme
	}

	out, err := s.gen.Render(name, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.hub != nil {
		out = injectReloadScript(out)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(out)
}

// writeError maps load and render failures to status codes: anything missing
// is 404, a broken content document is 400, the rest is 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		missing *content.MissingFileError
		invalid *content.InvalidContentError
		tmplErr *site.TemplateError
	)
	switch {
	case errors.Is(err, content.ErrPageNotFound):
		http.Error(w, "Page not found", http.StatusNotFound)
	case errors.As(err, &missing):
		http.Error(w, "Missing file: "+missing.Error(), http.StatusNotFound)
	case errors.As(err, &tmplErr) && errors.Is(err, os.ErrNotExist):
		http.Error(w, "Missing template: "+tmplErr.Template, http.StatusNotFound)
	case errors.As(err, &invalid):
		http.Error(w, "Invalid content: "+invalid.Error(), http.StatusBadRequest)
	default:
		s.logger.Error("page request failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Error loading page: "+err.Error(), http.StatusInternalServerError)
	}
}

var pageListTemplate = template.Must(template.New("pages").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Available Pages</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .page-list { list-style: none; padding: 0; }
        .page-item { margin: 15px 0; padding: 15px; border: 1px solid #ddd; border-radius: 6px; }
        .page-item a { text-decoration: none; color: #0969da; font-weight: 600; }
        .page-item a:hover { text-decoration: underline; }
        .page-name { font-size: 12px; color: #666; margin-top: 5px; }
    </style>
</head>
<body>
    <h1>Available Pages</h1>
    <ul class="page-list">
    {{- range . }}
        <li class="page-item">
            <a href="{{ .URL }}">{{ .Title }}</a>
            <div class="page-name">/{{ .Name }}</div>
        </li>
    {{- end }}
    </ul>
    <p><small>Add new pages with <code>pages new &lt;name&gt;</code>.</small></p>
</body>
</html>
`))
