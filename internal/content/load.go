package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	StyleFile  = "style.css"
	ScriptFile = "script.js"
)

// ErrPageNotFound is returned when a page folder or its content.json is missing.
var ErrPageNotFound = errors.New("page not found")

// MissingFileError reports a page asset that does not exist.
type MissingFileError struct {
	Page string
	File string
	Err  error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s not found in %s", e.File, e.Page)
}

func (e *MissingFileError) Unwrap() error { return e.Err }

// InvalidContentError reports a content.json that cannot be decoded or fails
// validation.
type InvalidContentError struct {
	Page   string
	Err    error
	Issues []ValidationIssue
}

func (e *InvalidContentError) Error() string {
	return fmt.Sprintf("invalid %s in %s: %v", ContentFile, e.Page, e.Err)
}

func (e *InvalidContentError) Unwrap() error { return e.Err }

// Page is one loaded page folder.
type Page struct {
	Name string
	Dir  string
	Data map[string]any
	CSS  string
	JS   string
}

// Title returns site.title from the page data, or the page name.
func (p *Page) Title() string {
	return Title(p.Name, p.Data)
}

// Title returns site.title from data, or name when it is absent.
func Title(name string, data map[string]any) string {
	if site, ok := data["site"].(map[string]any); ok {
		if title, ok := site["title"].(string); ok && title != "" {
			return title
		}
	}
	return name
}

// Exists reports whether root/name is a page folder.
func Exists(root, name string) bool {
	if !ValidName(name) {
		return false
	}
	info, err := os.Stat(filepath.Join(root, name, ContentFile))
	return err == nil && !info.IsDir()
}

// Load reads and validates the page called name under root.
func Load(root, name string) (*Page, error) {
	if !Exists(root, name) {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, name)
	}
	dir := filepath.Join(root, name)

	data, err := LoadData(dir, name)
	if err != nil {
		return nil, err
	}
	css, err := readAsset(dir, name, StyleFile)
	if err != nil {
		return nil, err
	}
	js, err := readAsset(dir, name, ScriptFile)
	if err != nil {
		return nil, err
	}

	return &Page{Name: name, Dir: dir, Data: data, CSS: css, JS: js}, nil
}

// LoadData decodes and validates the content.json in dir.
func LoadData(dir, name string) (map[string]any, error) {
	raw, err := os.ReadFile(filepath.Join(dir, ContentFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MissingFileError{Page: name, File: ContentFile, Err: err}
		}
		return nil, fmt.Errorf("reading %s: %w", ContentFile, err)
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &InvalidContentError{Page: name, Err: err}
	}
	if issues, err := Validate(data); err != nil {
		return nil, &InvalidContentError{Page: name, Err: err, Issues: issues}
	}
	return data, nil
}

func readAsset(dir, name, file string) (string, error) {
	b, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &MissingFileError{Page: name, File: file, Err: err}
		}
		return "", fmt.Errorf("reading %s: %w", file, err)
	}
	return string(b), nil
}
