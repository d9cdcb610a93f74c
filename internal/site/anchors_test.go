package site

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/codekitchen-community/pages/internal/content"
	"github.com/codekitchen-community/pages/internal/htmldom"
	"github.com/codekitchen-community/pages/internal/pagestate"
)

// Both tabs carry the same English heading and each Chinese variant has a
// heading with no ASCII letters.
const repeatedHeadings = `{
  "site": {"title": "Code Kitchen"},
  "readme": {
    "en": {"sections": [{"type": "markdown", "content": "## Setup\n\nInstall it."}]},
    "zh": {"sections": [{"type": "markdown", "content": "## 介绍\n\n你好"}]}
  },
  "conduct": {
    "en": {"sections": [{"type": "markdown", "content": "## Setup\n\nBe kind."}]},
    "zh": {"sections": [{"type": "markdown", "content": "## 准则\n\n友善"}]}
  }
}`

var idAttr = regexp.MustCompile(`\sid="([^"]+)"`)

func TestAnchorsUnique(t *testing.T) {
	a := newAnchors()
	tests := []struct {
		prefix, text, want string
	}{
		{"readme-english", "Setup", "readme-english-setup"},
		{"readme-english", "Setup", "readme-english-setup-1"},
		{"conduct-english", "Setup", "conduct-english-setup"},
		{"readme-chinese", "介绍", "readme-chinese-介绍"},
		{"readme-chinese", "!!", "readme-chinese-heading"},
		{"readme-chinese", "", "readme-chinese-heading-1"},
		{"", "Setup", "setup"},
	}
	for _, tt := range tests {
		if got := a.id(tt.prefix, tt.text); got != tt.want {
			t.Errorf("id(%q, %q) = %q, want %q", tt.prefix, tt.text, got, tt.want)
		}
	}
}

func TestRenderHeadingIDsUniqueAcrossTabs(t *testing.T) {
	cfg := newProject(t)
	if err := os.WriteFile(filepath.Join(cfg.Root, "community", content.ContentFile), []byte(repeatedHeadings), 0o644); err != nil {
		t.Fatal(err)
	}
	g := New(cfg, quietLogger)

	out, err := g.Render("community", RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	seen := make(map[string]int)
	for _, m := range idAttr.FindAllStringSubmatch(string(out), -1) {
		seen[m[1]]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("id %q appears %d times", id, n)
		}
	}
	for _, want := range []string{
		"readme-english-setup",
		"conduct-english-setup",
		"readme-chinese-介绍",
		"conduct-chinese-准则",
	} {
		if seen[want] != 1 {
			t.Errorf("missing heading id %q in %v", want, seen)
		}
	}
}

func TestOutlineJumpStaysInActiveTab(t *testing.T) {
	cfg := newProject(t)
	if err := os.WriteFile(filepath.Join(cfg.Root, "community", content.ContentFile), []byte(repeatedHeadings), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := New(cfg, quietLogger).Render("community", RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	doc, err := htmldom.ParseBytes(out)
	if err != nil {
		t.Fatal(err)
	}

	ctrl, err := pagestate.New(pagestate.Options{
		Renderer:  doc,
		Scheduler: pagestate.ImmediateScheduler{},
		Locale:    pagestate.StaticLocale("en"),
		Logger:    quietLogger,
	})
	if err != nil {
		t.Fatal(err)
	}
	ctrl.Sync()

	for _, tt := range []struct {
		lang   pagestate.Language
		label  string
		prefix string
	}{
		{pagestate.English, "Setup", "conduct-english-"},
		{pagestate.Chinese, "准则", "conduct-chinese-"},
	} {
		if ctrl.State().Language != tt.lang {
			ctrl.ToggleLanguage()
		}
		if err := ctrl.SelectTab(pagestate.Conduct); err != nil {
			t.Fatal(err)
		}
		ctrl.ToggleOutline()
		entries := ctrl.Outline()
		if len(entries) != 1 || entries[0].Label != tt.label {
			t.Fatalf("%s outline = %+v", tt.lang, entries)
		}
		if err := ctrl.JumpTo(0); err != nil {
			t.Fatalf("JumpTo: %v", err)
		}
		target := doc.Scrolled[len(doc.Scrolled)-1]
		if !strings.HasPrefix(target, tt.prefix) {
			t.Errorf("%s jump scrolled to %q, want an id under %s", tt.lang, target, tt.prefix)
		}
	}
}
