// Package site renders page folders into HTML through the shared base
// template and the page's own templates.
package site

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/yuin/goldmark"

	"github.com/codekitchen-community/pages/internal/browser"
	"github.com/codekitchen-community/pages/internal/config"
	"github.com/codekitchen-community/pages/internal/content"
	"github.com/codekitchen-community/pages/internal/pagestate"
	"github.com/codekitchen-community/pages/internal/progress"
)

// ErrNoPages is returned by GenerateAll when the root holds no page folders.
var ErrNoPages = errors.New("no page folders found; each page needs a folder with content.json")

// pageEntry is the template a page folder may provide to replace the base
// template entirely.
const pageEntry = "index.html"

// TemplateError reports a template that is missing or fails to parse or
// execute.
type TemplateError struct {
	Template string
	Err      error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %s: %v", e.Template, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// Generator renders pages found under a root directory.
type Generator struct {
	Root         string
	TemplatesDir string
	BaseTemplate string
	OutputFile   string
	Exclude      []string
	Prerender    bool
	// Locale and DefaultTheme seed prerendering when nothing is saved.
	Locale       string
	DefaultTheme pagestate.Theme
	Namespace    string
	// Runtime is the browser build of the page state controller. Pages get
	// its script tags only when it is available.
	Runtime *browser.Bundle

	logger      *slog.Logger
	md          goldmark.Markdown
	runtimeWarn sync.Once
}

// New creates a Generator from the project configuration.
func New(cfg *config.Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	theme, _ := pagestate.ParseTheme(cfg.Preferences.DefaultTheme)
	return &Generator{
		Root:         cfg.Root,
		TemplatesDir: cfg.TemplatesPath(),
		BaseTemplate: cfg.BaseTemplate,
		OutputFile:   cfg.OutputFile,
		Exclude:      cfg.Exclude,
		Prerender:    cfg.Prerender,
		Locale:       cfg.Preferences.DefaultLanguage,
		DefaultTheme: theme,
		Namespace:    cfg.Preferences.Namespace,
		Runtime:      browser.Open(cfg.RuntimeDir),
		logger:       logger,
		md:           newMarkdown(),
	}
}

// Pages lists the page folders under the root.
func (g *Generator) Pages() ([]string, error) {
	return content.FindPages(g.Root, g.Exclude)
}

// DefaultOptions returns the render options used for static output.
func (g *Generator) DefaultOptions() RenderOptions {
	return RenderOptions{
		Prerender:   g.Prerender,
		Locale:      g.Locale,
		Preferences: pagestate.NewPreferences(nil, g.Namespace, g.logger),
	}
}

// Render loads page name and renders it to HTML.
func (g *Generator) Render(name string, opts RenderOptions) ([]byte, error) {
	page, err := content.Load(g.Root, name)
	if err != nil {
		return nil, err
	}
	return g.RenderPage(page, opts)
}

// RenderPage renders an already loaded page.
func (g *Generator) RenderPage(page *content.Page, opts RenderOptions) ([]byte, error) {
	tmpl, entry, err := g.templates(page.Name, newAnchors())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, entry, templateData(page)); err != nil {
		return nil, &TemplateError{Template: entry, Err: err}
	}

	out := buf.Bytes()
	if g.runtimeAvailable() {
		out = browser.Inject(out, browser.Tags{
			Base:           opts.RuntimeBase,
			Namespace:      g.Namespace,
			PreferencesURL: opts.PreferencesURL,
		}.HTML())
	}
	if !opts.Prerender {
		return out, nil
	}
	return prerender(out, opts, g.DefaultTheme, g.logger)
}

// runtimeAvailable reports whether pages can boot the controller, warning
// once when they cannot.
func (g *Generator) runtimeAvailable() bool {
	if g.Runtime != nil && g.Runtime.Available() {
		return true
	}
	g.runtimeWarn.Do(func() {
		g.logger.Warn("browser runtime not built; page controls will not respond to clicks",
			"hint", "go generate ./internal/browser or set runtime_dir")
	})
	return false
}

// Generate renders page name and writes it into the page folder, next to
// the browser runtime files it loads. It returns the page's path.
func (g *Generator) Generate(name string) (string, error) {
	out, err := g.Render(name, g.DefaultOptions())
	if err != nil {
		return "", err
	}
	dir := filepath.Join(g.Root, name)
	path := filepath.Join(dir, g.OutputFile)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if g.runtimeAvailable() {
		if _, err := g.Runtime.WriteTo(dir); err != nil {
			return "", fmt.Errorf("writing browser runtime for %s: %w", name, err)
		}
	}
	g.logger.Debug("generated page", "page", name, "path", path, "bytes", len(out))
	return path, nil
}

// PageResult is the outcome of generating one page.
type PageResult struct {
	Page string
	Path string
	Err  error
}

// Summary describes a GenerateAll run.
type Summary struct {
	Results []PageResult
}

// Total returns the number of pages attempted.
func (s *Summary) Total() int { return len(s.Results) }

// Succeeded returns the number of pages written.
func (s *Summary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

// OK reports whether every page was written.
func (s *Summary) OK() bool { return s.Succeeded() == s.Total() }

// GenerateAll writes every discovered page. A failing page is recorded in the
// summary and does not stop the others.
func (g *Generator) GenerateAll(reporter progress.Reporter) (*Summary, error) {
	pages, err := g.Pages()
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	if reporter != nil {
		reporter.Start(len(pages))
	}
	summary := &Summary{}
	for i, name := range pages {
		path, err := g.Generate(name)
		if err != nil {
			g.logger.Warn("page generation failed", "page", name, "error", err)
		}
		summary.Results = append(summary.Results, PageResult{Page: name, Path: path, Err: err})
		if reporter != nil {
			reporter.Page(i+1, name, path, err)
		}
	}
	if reporter != nil {
		reporter.Finish()
	}
	return summary, nil
}

// templates parses the base template, shared partials and the page's own
// templates into one set. The entry is the page's index.html when present,
// otherwise the base template. ids scopes heading ids to one render.
func (g *Generator) templates(name string, ids *anchors) (*template.Template, string, error) {
	basePath := filepath.Join(g.TemplatesDir, g.BaseTemplate)
	src, err := os.ReadFile(basePath)
	if err != nil {
		return nil, "", &TemplateError{Template: g.BaseTemplate, Err: err}
	}

	tmpl, err := template.New(g.BaseTemplate).Funcs(funcMap(g.md, ids)).Parse(string(src))
	if err != nil {
		return nil, "", &TemplateError{Template: g.BaseTemplate, Err: err}
	}

	entry := g.BaseTemplate
	for _, pattern := range []string{
		filepath.Join(g.TemplatesDir, "partials", "*.html"),
		filepath.Join(g.TemplatesDir, name, "*.html"),
	} {
		files, err := filepath.Glob(pattern)
		if err != nil {
			return nil, "", fmt.Errorf("listing templates: %w", err)
		}
		if len(files) == 0 {
			continue
		}
		if tmpl, err = tmpl.ParseFiles(files...); err != nil {
			return nil, "", &TemplateError{Template: filepath.Dir(pattern), Err: err}
		}
	}
	if tmpl.Lookup(pageEntry) != nil {
		entry = pageEntry
	}
	return tmpl, entry, nil
}

// templateData is the page's content document plus page_name, page_title,
// css_content and js_content.
func templateData(page *content.Page) map[string]any {
	data := maps.Clone(page.Data)
	if data == nil {
		data = make(map[string]any)
	}
	data["page_name"] = page.Name
	data["page_title"] = page.Title()
	data["css_content"] = template.CSS(page.CSS)
	data["js_content"] = template.JS(page.JS)
	return data
}
