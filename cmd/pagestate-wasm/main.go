//go:build js && wasm

// Command pagestate-wasm runs the page state controller in the browser. The
// generated page loads it through internal/browser's loader, which passes
// PAGES_NAMESPACE and PAGES_PREFERENCES_URL in the environment. It wires the
// page chrome to the controller and exposes window.pageState for page scripts.
package main

import (
	"log/slog"
	"os"
	"strconv"

	"syscall/js"

	"github.com/codekitchen-community/pages/internal/jsdom"
	"github.com/codekitchen-community/pages/internal/pagestate"
)

const (
	themeToggleID    = "theme-toggle"
	languageToggleID = "language-toggle"
	outlineToggleID  = "outline-toggle"

	defaultNamespace = "community"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	doc := js.Global().Get("document")

	namespace := os.Getenv("PAGES_NAMESPACE")
	if namespace == "" {
		namespace = defaultNamespace
	}
	var store pagestate.KV = jsdom.LocalStorage{}
	if endpoint := os.Getenv("PAGES_PREFERENCES_URL"); endpoint != "" {
		store = jsdom.SyncedStorage{Local: store, Endpoint: endpoint, Namespace: namespace}
	}

	ctrl, err := pagestate.New(pagestate.Options{
		Renderer:    jsdom.NewRenderer(),
		Scheduler:   jsdom.Scheduler{},
		Preferences: pagestate.NewPreferences(store, namespace, logger),
		Locale:      jsdom.NavigatorLanguage,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("starting page state", "error", err)
		return
	}
	ctrl.Sync()

	on := func(id string, fn func(event js.Value)) {
		el := doc.Call("getElementById", id)
		if el.IsNull() {
			return
		}
		el.Call("addEventListener", "click", js.FuncOf(func(this js.Value, args []js.Value) any {
			fn(args[0])
			return nil
		}))
	}

	for _, tab := range ctrl.Tabs() {
		on(pagestate.TabID(tab), func(js.Value) {
			if err := ctrl.SelectTab(tab); err != nil {
				logger.Warn("selecting tab", "tab", tab, "error", err)
			}
		})
	}
	on(themeToggleID, func(js.Value) { ctrl.ToggleTheme() })
	on(languageToggleID, func(js.Value) { ctrl.ToggleLanguage() })
	on(outlineToggleID, func(event js.Value) {
		// Keep the opening click away from the outside-click listener.
		event.Call("stopPropagation")
		ctrl.ToggleOutline()
	})
	on(pagestate.OutlineContent, func(event js.Value) {
		item := event.Get("target").Call("closest", "[data-index]")
		if item.IsNull() {
			return
		}
		event.Call("preventDefault")
		i, err := strconv.Atoi(item.Call("getAttribute", "data-index").String())
		if err != nil {
			return
		}
		if err := ctrl.JumpTo(i); err != nil {
			logger.Debug("outline entry not scrollable", "index", i, "error", err)
		}
	})

	js.Global().Set("pageState", js.ValueOf(map[string]any{
		"selectTab": js.FuncOf(func(this js.Value, args []js.Value) any {
			if len(args) == 0 {
				return false
			}
			return ctrl.SelectTab(pagestate.Tab(args[0].String())) == nil
		}),
		"toggleTheme":    js.FuncOf(func(js.Value, []js.Value) any { ctrl.ToggleTheme(); return nil }),
		"toggleLanguage": js.FuncOf(func(js.Value, []js.Value) any { ctrl.ToggleLanguage(); return nil }),
		"toggleOutline":  js.FuncOf(func(js.Value, []js.Value) any { ctrl.ToggleOutline(); return nil }),
		"state": js.FuncOf(func(js.Value, []js.Value) any {
			st := ctrl.State()
			return map[string]any{
				"language":    string(st.Language),
				"theme":       string(st.Theme),
				"tab":         string(st.Tab),
				"outlineOpen": st.OutlineOpen,
			}
		}),
	}))

	select {}
}
