package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/codekitchen-community/pages/internal/browser"
)

func testRuntime() *browser.Bundle {
	return browser.New(fstest.MapFS{
		browser.WASMFile: {Data: []byte("\x00asm")},
		browser.ExecFile: {Data: []byte("// go support")},
	})
}

func TestGenerateShipsBrowserRuntime(t *testing.T) {
	cfg := newProject(t)
	g := New(cfg, quietLogger)
	g.Runtime = testRuntime()

	path, err := g.Generate("community")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	page := string(out)
	for _, want := range []string{
		`<script src="wasm_exec.js"></script>`,
		`src="pagestate.js"`,
		`data-wasm="pagestate.wasm"`,
		`data-namespace="community"`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("generated page missing %q", want)
		}
	}
	if strings.Contains(page, "data-preferences") {
		t.Error("static pages have no preference endpoint")
	}
	if strings.Index(page, "wasm_exec.js") < strings.Index(page, `id="conduct-content"`) {
		t.Error("runtime scripts should follow the page content")
	}
	for _, name := range browser.Files {
		if _, err := os.Stat(filepath.Join(cfg.Root, "community", name)); err != nil {
			t.Errorf("%s not written next to the page: %v", name, err)
		}
	}
}

func TestRenderRuntimeTagsForServer(t *testing.T) {
	cfg := newProject(t)
	g := New(cfg, quietLogger)
	g.Runtime = testRuntime()

	out, err := g.Render("community", RenderOptions{
		Prerender:      true,
		RuntimeBase:    "/_runtime/",
		PreferencesURL: "/api/preferences",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{
		`src="/_runtime/wasm_exec.js"`,
		`data-wasm="/_runtime/pagestate.wasm"`,
		`data-preferences="/api/preferences"`,
	} {
		if !strings.Contains(string(out), want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
}

func TestRenderWithoutBuiltRuntime(t *testing.T) {
	cfg := newProject(t)
	g := New(cfg, quietLogger)
	g.Runtime = browser.New(fstest.MapFS{})

	path, err := g.Generate("community")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "pagestate.js") {
		t.Error("no runtime tags without a built runtime")
	}
	if _, err := os.Stat(filepath.Join(cfg.Root, "community", browser.WASMFile)); !os.IsNotExist(err) {
		t.Error("nothing should be copied without a built runtime")
	}
}
