package cmd

import (
	"fmt"
	"log/slog"

	"github.com/codekitchen-community/pages/internal/config"
	"github.com/codekitchen-community/pages/internal/pagestate"
	"github.com/codekitchen-community/pages/internal/site"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `pages init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newGenerator builds the page generator for CLI use. Without a configured
// default language, pages follow the shell's locale ($LC_ALL, $LC_MESSAGES,
// $LANG).
func newGenerator(cfg *config.Config) *site.Generator {
	gen := site.New(cfg, slog.Default())
	if gen.Locale == "" {
		gen.Locale = pagestate.EnvLocale()
	}
	return gen
}
