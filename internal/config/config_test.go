package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.OutputFile != "body.html" {
		t.Errorf("expected default output_file %q, got %q", "body.html", cfg.OutputFile)
	}
	if cfg.Preferences.Namespace != "community" {
		t.Errorf("expected default namespace %q, got %q", "community", cfg.Preferences.Namespace)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Preferences.DefaultLanguage != "" {
		t.Errorf("expected language detection by default, got %q", cfg.Preferences.DefaultLanguage)
	}

	if len(cfg.Exclude) > 0 {
		cfg.Exclude[0] = "mutated"
		if DefaultExcludes[0] == "mutated" {
			t.Error("DefaultConfig shares its exclude slice with DefaultExcludes")
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.pages.yml")

	original := DefaultConfig()
	original.Root = "site"
	original.TemplatesDir = "layouts"
	original.Exclude = []string{"drafts", "archive/**"}
	original.Preferences.Namespace = "kitchen"
	original.Preferences.DefaultLanguage = "en"
	original.Server.Port = 9001
	original.Server.LiveReload = false

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if loaded.Root != original.Root {
		t.Errorf("root: got %q, want %q", loaded.Root, original.Root)
	}
	if loaded.TemplatesDir != original.TemplatesDir {
		t.Errorf("templates_dir: got %q, want %q", loaded.TemplatesDir, original.TemplatesDir)
	}
	if loaded.Preferences.Namespace != original.Preferences.Namespace {
		t.Errorf("namespace: got %q, want %q", loaded.Preferences.Namespace, original.Preferences.Namespace)
	}
	if loaded.Preferences.DefaultLanguage != "en" {
		t.Errorf("default_language: got %q, want en", loaded.Preferences.DefaultLanguage)
	}
	if loaded.Server.Port != 9001 {
		t.Errorf("port: got %d, want 9001", loaded.Server.Port)
	}
	if loaded.Server.LiveReload {
		t.Error("live_reload: got true, want false")
	}
	if len(loaded.Exclude) != len(original.Exclude) {
		t.Fatalf("exclude length: got %d, want %d", len(loaded.Exclude), len(original.Exclude))
	}
	for i, v := range loaded.Exclude {
		if v != original.Exclude[i] {
			t.Errorf("exclude[%d]: got %q, want %q", i, v, original.Exclude[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.BaseTemplate != "base.html" {
		t.Errorf("expected default base template, got %q", cfg.BaseTemplate)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("PAGES_OUTPUT_FILE", "index.html")
	t.Setenv("PAGES_SERVER__PORT", "8123")
	t.Setenv("PAGES_PREFERENCES__DEFAULT_THEME", "dark")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.OutputFile != "index.html" {
		t.Errorf("env override failed: got %q, want %q", loaded.OutputFile, "index.html")
	}
	if loaded.Server.Port != 8123 {
		t.Errorf("nested env override failed: got %d, want 8123", loaded.Server.Port)
	}
	if loaded.Preferences.DefaultTheme != "dark" {
		t.Errorf("nested env override failed: got %q, want dark", loaded.Preferences.DefaultTheme)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty root", func(c *Config) { c.Root = "" }, true},
		{"empty templates", func(c *Config) { c.TemplatesDir = "" }, true},
		{"nested output", func(c *Config) { c.OutputFile = "out/body.html" }, true},
		{"empty namespace", func(c *Config) { c.Preferences.Namespace = "" }, true},
		{"bad language", func(c *Config) { c.Preferences.DefaultLanguage = "fr" }, true},
		{"pinned language", func(c *Config) { c.Preferences.DefaultLanguage = "zh" }, false},
		{"bad theme", func(c *Config) { c.Preferences.DefaultTheme = "sepia" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"keep preferences forever", func(c *Config) { c.Server.PreferenceDays = 0 }, false},
		{"negative preference days", func(c *Config) { c.Server.PreferenceDays = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Root = "site"
	if got := cfg.TemplatesPath(); got != filepath.Join("site", "templates") {
		t.Errorf("TemplatesPath() = %q", got)
	}
	if got := cfg.PreferencesDB(); got != filepath.Join("site", ".pages", "preferences.db") {
		t.Errorf("PreferencesDB() = %q", got)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"drafts/**", []string{"drafts/**"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
