package config

import "slices"

// DefaultExcludes are directory patterns never treated as pages.
var DefaultExcludes = []string{
	".*",
	"templates",
	"node_modules",
	"vendor",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Root:         ".",
		TemplatesDir: "templates",
		BaseTemplate: "base.html",
		OutputFile:   "body.html",
		Exclude:      slices.Clone(DefaultExcludes),
		Prerender:    true,
		Preferences: PreferencesConfig{
			Namespace:    "community",
			DefaultTheme: "light",
		},
		Server: ServerConfig{
			Host:           "127.0.0.1",
			Port:           8000,
			LiveReload:     true,
			DataDir:        ".pages",
			PreferenceDays: 180,
		},
	}
}
