// Package browser ships the page state controller to the browser: the
// pagestate.wasm build of cmd/pagestate-wasm, Go's wasm_exec.js support
// script and a small loader that boots the controller.
//
// The wasm build and wasm_exec.js are produced by go generate into dist/ and
// embedded. A runtime directory given in the config takes their place.
package browser

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

//go:generate sh -c "GOOS=js GOARCH=wasm go build -trimpath -ldflags=-s -o dist/pagestate.wasm ../../cmd/pagestate-wasm"
//go:generate sh -c "cp \"$(go env GOROOT)/lib/wasm/wasm_exec.js\" dist/wasm_exec.js"

const (
	WASMFile   = "pagestate.wasm"
	ExecFile   = "wasm_exec.js"
	LoaderFile = "pagestate.js"
)

// Files lists the runtime files in load order.
var Files = []string{ExecFile, LoaderFile, WASMFile}

// ErrNotBuilt is returned for runtime files that have not been generated.
var ErrNotBuilt = errors.New("browser runtime not built; run go generate ./internal/browser")

//go:embed loader.js
var loader []byte

//go:embed dist
var dist embed.FS

// Bundle serves the runtime files from a file system.
type Bundle struct {
	fsys fs.FS
}

// New returns a bundle reading pagestate.wasm and wasm_exec.js from fsys.
func New(fsys fs.FS) *Bundle {
	return &Bundle{fsys: fsys}
}

// Embedded returns the bundle compiled into the binary.
func Embedded() *Bundle {
	sub, err := fs.Sub(dist, "dist")
	if err != nil {
		panic(err)
	}
	return New(sub)
}

// Open returns a bundle over dir, or the embedded one when dir is empty.
func Open(dir string) *Bundle {
	if dir == "" {
		return Embedded()
	}
	return New(os.DirFS(dir))
}

// ReadFile returns one of Files.
func (b *Bundle) ReadFile(name string) ([]byte, error) {
	switch name {
	case LoaderFile:
		return loader, nil
	case WASMFile, ExecFile:
		data, err := fs.ReadFile(b.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotBuilt)
		}
		return data, err
	}
	return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
}

// Available reports whether the wasm build and its support script exist.
func (b *Bundle) Available() bool {
	for _, name := range []string{WASMFile, ExecFile} {
		if _, err := fs.Stat(b.fsys, name); err != nil {
			return false
		}
	}
	return true
}

// WriteTo copies the runtime files into dir and returns the written paths.
func (b *Bundle) WriteTo(dir string) ([]string, error) {
	var written []string
	for _, name := range Files {
		data, err := b.ReadFile(name)
		if err != nil {
			return written, err
		}
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", p, err)
		}
		written = append(written, p)
	}
	return written, nil
}

// ServeHTTP serves the runtime file named by the last path element.
func (b *Bundle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Base(r.URL.Path)
	data, err := b.ReadFile(name)
	if err != nil {
		http.Error(w, "Runtime file not found: "+name, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType(name))
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(data))
}

func contentType(name string) string {
	if strings.HasSuffix(name, ".wasm") {
		return "application/wasm"
	}
	return "text/javascript; charset=utf-8"
}

// Tags describes the script tags that boot the controller on a page.
type Tags struct {
	// Base prefixes the runtime file URLs: "" for files next to the page,
	// "/_runtime/" on the preview server.
	Base      string
	Namespace string
	// PreferencesURL, when set, receives every preference change.
	PreferencesURL string
}

// HTML renders the tags.
func (t Tags) HTML() string {
	attr := func(s string) string { return html.EscapeString(s) }
	var b strings.Builder
	fmt.Fprintf(&b, "<script src=\"%s\"></script>\n", attr(t.Base+ExecFile))
	fmt.Fprintf(&b, "<script src=\"%s\" data-wasm=\"%s\" data-namespace=\"%s\"",
		attr(t.Base+LoaderFile), attr(t.Base+WASMFile), attr(t.Namespace))
	if t.PreferencesURL != "" {
		fmt.Fprintf(&b, " data-preferences=\"%s\"", attr(t.PreferencesURL))
	}
	b.WriteString("></script>\n")
	return b.String()
}

// Inject places snippet before the closing body tag, or at the end when
// there is none.
func Inject(page []byte, snippet string) []byte {
	i := bytes.LastIndex(page, []byte("</body>"))
	if i < 0 {
		return append(page, snippet...)
	}
	out := make([]byte, 0, len(page)+len(snippet))
	out = append(out, page[:i]...)
	out = append(out, snippet...)
	return append(out, page[i:]...)
}
