//go:build js && wasm

package jsdom

import (
	"strings"

	"syscall/js"

	"github.com/codekitchen-community/pages/internal/pagestate"
)

// SyncedStorage is a pagestate.KV that keeps values in Local and reports
// every write to the preview server's preference endpoint, so the next
// server render starts from the same state.
type SyncedStorage struct {
	Local     pagestate.KV
	Endpoint  string // e.g. /api/preferences
	Namespace string // stripped from keys before they are sent
}

func (s SyncedStorage) Get(key string) (string, bool, error) {
	return s.Local.Get(key)
}

func (s SyncedStorage) Set(key, value string) error {
	if err := s.Local.Set(key, value); err != nil {
		return err
	}
	name := key
	if s.Namespace != "" {
		name = strings.TrimPrefix(key, s.Namespace+"_")
	}
	body, err := jsonString(map[string]any{"value": value})
	if err != nil {
		return err
	}
	// The request runs in the background; the local write already happened.
	promise := js.Global().Call("fetch", strings.TrimSuffix(s.Endpoint, "/")+"/"+name, map[string]any{
		"method":      "PUT",
		"credentials": "same-origin",
		"headers":     map[string]any{"Content-Type": "application/json"},
		"body":        body,
	})
	promise.Call("catch", ignoreRejection)
	return nil
}

var ignoreRejection = js.FuncOf(func(js.Value, []js.Value) any { return nil })

func jsonString(v map[string]any) (s string, err error) {
	err = catch(func() {
		s = js.Global().Get("JSON").Call("stringify", v).String()
	})
	return s, err
}

var _ pagestate.KV = SyncedStorage{}
