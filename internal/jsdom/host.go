//go:build js && wasm

package jsdom

import (
	"fmt"
	"time"

	"syscall/js"

	"github.com/codekitchen-community/pages/internal/pagestate"
)

// Scheduler queues work on the browser event loop with setTimeout.
type Scheduler struct{}

func (Scheduler) Defer(fn func()) {
	Scheduler{}.After(0, fn)
}

func (Scheduler) After(d time.Duration, fn func()) func() {
	var cb js.Func
	done := false
	cb = js.FuncOf(func(this js.Value, args []js.Value) any {
		done = true
		cb.Release()
		fn()
		return nil
	})
	id := js.Global().Call("setTimeout", cb, d.Milliseconds())
	return func() {
		if done {
			return
		}
		done = true
		js.Global().Call("clearTimeout", id)
		cb.Release()
	}
}

// LocalStorage is a pagestate.KV over window.localStorage. Browsers throw
// when storage is disabled; those exceptions come back as errors.
type LocalStorage struct{}

func (LocalStorage) Get(key string) (value string, ok bool, err error) {
	err = catch(func() {
		v := js.Global().Get("localStorage").Call("getItem", key)
		if v.IsNull() || v.IsUndefined() {
			return
		}
		value, ok = v.String(), true
	})
	return value, ok, err
}

func (LocalStorage) Set(key, value string) error {
	return catch(func() {
		js.Global().Get("localStorage").Call("setItem", key, value)
	})
}

// NavigatorLanguage reports navigator.language.
func NavigatorLanguage() string {
	nav := js.Global().Get("navigator")
	if nav.IsUndefined() {
		return ""
	}
	if lang := nav.Get("language"); lang.Type() == js.TypeString {
		return lang.String()
	}
	return ""
}

func catch(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = fmt.Errorf("localStorage: %s", jsErr.Error())
				return
			}
			err = fmt.Errorf("localStorage: %v", r)
		}
	}()
	fn()
	return nil
}

var (
	_ pagestate.Scheduler = Scheduler{}
	_ pagestate.KV        = LocalStorage{}
)
