package browser

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func builtBundle() *Bundle {
	return New(fstest.MapFS{
		WASMFile: {Data: []byte("\x00asm-test")},
		ExecFile: {Data: []byte("// go support")},
	})
}

func TestReadFile(t *testing.T) {
	b := builtBundle()
	if !b.Available() {
		t.Fatal("bundle with both files should be available")
	}
	data, err := b.ReadFile(LoaderFile)
	if err != nil || !strings.Contains(string(data), "new Go()") {
		t.Errorf("loader = %q, %v", data, err)
	}
	if data, err := b.ReadFile(WASMFile); err != nil || string(data) != "\x00asm-test" {
		t.Errorf("wasm = %q, %v", data, err)
	}
	if _, err := b.ReadFile("secrets.txt"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("unknown file err = %v", err)
	}
}

func TestUnbuiltBundle(t *testing.T) {
	b := New(fstest.MapFS{"README.md": {Data: []byte("x")}})
	if b.Available() {
		t.Error("bundle without wasm should not be available")
	}
	if _, err := b.ReadFile(WASMFile); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("err = %v, want ErrNotBuilt", err)
	}
	// The loader is always present.
	if _, err := b.ReadFile(LoaderFile); err != nil {
		t.Errorf("loader err = %v", err)
	}
}

func TestWriteTo(t *testing.T) {
	dir := t.TempDir()
	paths, err := builtBundle().WriteTo(dir)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if len(paths) != len(Files) {
		t.Fatalf("paths = %v", paths)
	}
	for _, name := range Files {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestServeHTTP(t *testing.T) {
	b := builtBundle()
	tests := []struct {
		path   string
		status int
		ctype  string
	}{
		{"/_runtime/pagestate.wasm", http.StatusOK, "application/wasm"},
		{"/_runtime/wasm_exec.js", http.StatusOK, "text/javascript; charset=utf-8"},
		{"/_runtime/pagestate.js", http.StatusOK, "text/javascript; charset=utf-8"},
		{"/_runtime/other.js", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		b.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))
		if w.Code != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.path, w.Code, tt.status)
			continue
		}
		if tt.ctype != "" && w.Header().Get("Content-Type") != tt.ctype {
			t.Errorf("%s: content type = %q", tt.path, w.Header().Get("Content-Type"))
		}
	}
}

func TestTagsHTML(t *testing.T) {
	got := Tags{Base: "/_runtime/", Namespace: "community", PreferencesURL: "/api/preferences"}.HTML()
	for _, want := range []string{
		`<script src="/_runtime/wasm_exec.js"></script>`,
		`src="/_runtime/pagestate.js"`,
		`data-wasm="/_runtime/pagestate.wasm"`,
		`data-namespace="community"`,
		`data-preferences="/api/preferences"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("tags missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, ExecFile) > strings.Index(got, LoaderFile) {
		t.Error("wasm_exec.js must load before the loader")
	}

	static := Tags{Namespace: `a"b`}.HTML()
	if strings.Contains(static, "data-preferences") || !strings.Contains(static, `data-namespace="a&#34;b"`) {
		t.Errorf("static tags = %s", static)
	}
}

func TestInject(t *testing.T) {
	out := string(Inject([]byte("<html><body><p>x</p></body></html>"), "<script></script>"))
	if out != "<html><body><p>x</p><script></script></body></html>" {
		t.Errorf("inject = %q", out)
	}
	if out := string(Inject([]byte("<p>x</p>"), "<s>")); out != "<p>x</p><s>" {
		t.Errorf("fragment inject = %q", out)
	}
}
