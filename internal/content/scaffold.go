package content

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed skeleton
var skeleton embed.FS

// ErrPageExists is returned by Scaffold when the page folder already exists.
var ErrPageExists = errors.New("page already exists")

// ScaffoldOptions customises the files written for a new page.
type ScaffoldOptions struct {
	Title        string
	ContactEmail string
	HomeURL      string
}

// TitleCase capitalises each word of s.
func TitleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// Scaffold creates a new page folder under root with a starter content.json,
// style.css and script.js, plus templates/<name>/content.html. The shared base
// template is written too when templatesDir does not have one yet. It returns
// the created paths relative to root.
func Scaffold(root, templatesDir, baseTemplate, name string, opts ScaffoldOptions) ([]string, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("invalid page name %q", name)
	}
	dir := filepath.Join(root, name)
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrPageExists, name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating page folder: %w", err)
	}

	title := opts.Title
	if title == "" {
		title = TitleCase(name)
	}
	var doc bytes.Buffer
	enc := json.NewEncoder(&doc)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(starterContent(title, opts)); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", ContentFile, err)
	}

	var created []string
	write := func(path string, data []byte) error {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		created = append(created, rel)
		return nil
	}

	if err := write(filepath.Join(dir, ContentFile), doc.Bytes()); err != nil {
		return created, fmt.Errorf("writing %s: %w", ContentFile, err)
	}
	for _, asset := range []string{StyleFile, ScriptFile} {
		if err := copySkeleton(asset, filepath.Join(dir, asset), write); err != nil {
			return created, err
		}
	}
	if err := copySkeleton("content.html", filepath.Join(templatesDir, name, "content.html"), write); err != nil {
		return created, err
	}

	basePath := filepath.Join(templatesDir, baseTemplate)
	if _, err := os.Stat(basePath); errors.Is(err, os.ErrNotExist) {
		if err := copySkeleton("base.html", basePath, write); err != nil {
			return created, err
		}
	}
	return created, nil
}

func copySkeleton(name, dst string, write func(string, []byte) error) error {
	data, err := skeleton.ReadFile("skeleton/" + name)
	if err != nil {
		return fmt.Errorf("reading skeleton %s: %w", name, err)
	}
	if err := write(dst, data); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}

func starterContent(title string, opts ScaffoldOptions) map[string]any {
	email := opts.ContactEmail
	if email == "" {
		email = "contact@example.com"
	}
	home := opts.HomeURL
	if home == "" {
		home = "https://example.com"
	}
	return map[string]any{
		"site": map[string]any{
			"title":         title,
			"logo_url":      "https://example.com/logo.png",
			"home_url":      home,
			"contact_email": email,
		},
		"readme": map[string]any{
			"en": map[string]any{
				"title": title,
				"sections": []any{
					map[string]any{
						"type":    "highlight_box",
						"content": fmt.Sprintf("Welcome to <strong>%s</strong> page.", title),
					},
				},
			},
		},
		"ui_text": map[string]any{
			"en": map[string]any{
				"theme_toggle":    "🌙",
				"language_switch": "中文",
				"readme_tab":      "README",
				"conduct_tab":     "Code of Conduct",
			},
		},
	}
}
