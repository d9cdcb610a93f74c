package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/codekitchen-community/pages/internal/pagestate"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = ".pages.yml"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PAGES_*). Nested keys use a double
// underscore: PAGES_SERVER__PORT -> server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("PAGES_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "PAGES_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	// Lists replace the defaults rather than merging into them.
	if k.Exists("exclude") {
		cfg.Exclude = k.Strings("exclude")
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("root is required")
	}
	if c.TemplatesDir == "" {
		return fmt.Errorf("templates_dir is required")
	}
	if c.BaseTemplate == "" {
		return fmt.Errorf("base_template is required")
	}
	if c.OutputFile == "" || filepath.Base(c.OutputFile) != c.OutputFile {
		return fmt.Errorf("invalid output_file %q: must be a plain file name", c.OutputFile)
	}
	if c.Preferences.Namespace == "" {
		return fmt.Errorf("preferences.namespace is required")
	}
	if l := c.Preferences.DefaultLanguage; l != "" {
		if _, ok := pagestate.ParseLanguage(l); !ok {
			return fmt.Errorf("invalid preferences.default_language %q: must be en or zh", l)
		}
	}
	if _, ok := pagestate.ParseTheme(c.Preferences.DefaultTheme); !ok {
		return fmt.Errorf("invalid preferences.default_theme %q: must be light or dark", c.Preferences.DefaultTheme)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.PreferenceDays < 0 {
		return fmt.Errorf("server.preference_days must not be negative")
	}
	return nil
}

// TemplatesPath resolves the templates directory against the root.
func (c *Config) TemplatesPath() string {
	if filepath.IsAbs(c.TemplatesDir) {
		return c.TemplatesDir
	}
	return filepath.Join(c.Root, c.TemplatesDir)
}

// PreferencesDB is the path of the dev server's preference database.
func (c *Config) PreferencesDB() string {
	dir := c.Server.DataDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(c.Root, dir)
	}
	return filepath.Join(dir, "preferences.db")
}
