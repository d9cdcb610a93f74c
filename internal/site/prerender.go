package site

import (
	"fmt"
	"log/slog"

	"github.com/codekitchen-community/pages/internal/htmldom"
	"github.com/codekitchen-community/pages/internal/pagestate"
)

// RenderOptions selects the page state baked into rendered markup.
type RenderOptions struct {
	// Prerender applies the page state to the markup before it is returned.
	Prerender bool
	// Language and Theme force a state. Empty values fall back to the saved
	// preferences, then the locale or the default theme.
	Language pagestate.Language
	Theme    pagestate.Theme
	Locale   string
	// Preferences is read for saved choices; forced values are written back.
	Preferences *pagestate.Preferences
	// RuntimeBase prefixes the browser runtime URLs; empty means the files
	// sit next to the page.
	RuntimeBase string
	// PreferencesURL is where the browser controller reports changes.
	PreferencesURL string
}

// prerender runs a controller over the rendered document so the static HTML
// shows the resolved language, theme and labels without any script.
func prerender(out []byte, opts RenderOptions, defaultTheme pagestate.Theme, logger *slog.Logger) ([]byte, error) {
	doc, err := htmldom.ParseBytes(out)
	if err != nil {
		return nil, fmt.Errorf("prerender: %w", err)
	}

	prefs := opts.Preferences
	if prefs == nil {
		prefs = pagestate.NewPreferences(nil, "", logger)
	}
	if opts.Language != "" {
		prefs.Save(pagestate.PrefLanguage, string(opts.Language))
	}
	if opts.Theme != "" {
		prefs.Save(pagestate.PrefTheme, string(opts.Theme))
	}

	ctrl, err := pagestate.New(pagestate.Options{
		Renderer:     doc,
		Scheduler:    pagestate.ImmediateScheduler{},
		Preferences:  prefs,
		Locale:       pagestate.StaticLocale(opts.Locale),
		DefaultTheme: defaultTheme,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("prerender: %w", err)
	}
	defer ctrl.Close()

	ctrl.Sync()
	// Storage may have refused the forced values.
	if opts.Language != "" && ctrl.State().Language != opts.Language {
		ctrl.ToggleLanguage()
	}
	if opts.Theme != "" && ctrl.State().Theme != opts.Theme {
		ctrl.ToggleTheme()
	}
	return doc.Bytes()
}
