//go:build js && wasm

// Package jsdom implements the pagestate host interfaces over the browser
// through syscall/js.
package jsdom

import (
	"fmt"
	"strconv"
	"strings"

	"syscall/js"

	"github.com/codekitchen-community/pages/internal/pagestate"
)

// ActiveClass marks visible regions and active indicators.
const ActiveClass = "active"

// Renderer drives the live document.
type Renderer struct {
	doc js.Value
}

// NewRenderer returns a renderer for the global document.
func NewRenderer() *Renderer {
	return &Renderer{doc: js.Global().Get("document")}
}

func (r *Renderer) element(id string) (js.Value, error) {
	if id == pagestate.RootElement {
		return r.doc.Get("documentElement"), nil
	}
	el := r.doc.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return js.Value{}, fmt.Errorf("%w: #%s", pagestate.ErrNoElement, id)
	}
	return el, nil
}

func (r *Renderer) toggle(id string, on bool) error {
	el, err := r.element(id)
	if err != nil {
		return err
	}
	el.Get("classList").Call("toggle", ActiveClass, on)
	return nil
}

func (r *Renderer) SetVisible(id string, visible bool) error { return r.toggle(id, visible) }

func (r *Renderer) SetActive(id string, active bool) error { return r.toggle(id, active) }

func (r *Renderer) SetText(id, text string) error {
	el, err := r.element(id)
	if err != nil {
		return err
	}
	el.Set("textContent", text)
	return nil
}

func (r *Renderer) SetAttribute(id, name, value string) error {
	el, err := r.element(id)
	if err != nil {
		return err
	}
	el.Call("setAttribute", name, value)
	return nil
}

func (r *Renderer) ScrollTo(anchorID string) error {
	el, err := r.element(anchorID)
	if err != nil {
		return err
	}
	el.Call("scrollIntoView", map[string]any{"behavior": "smooth", "block": "start"})
	return nil
}

func (r *Renderer) Headings(id string) ([]pagestate.Heading, error) {
	el, err := r.element(id)
	if err != nil {
		return nil, err
	}
	nodes := el.Call("querySelectorAll", "h1, h2, h3")
	out := make([]pagestate.Heading, 0, nodes.Length())
	for i := 0; i < nodes.Length(); i++ {
		h := nodes.Index(i)
		level, _ := strconv.Atoi(strings.TrimPrefix(strings.ToLower(h.Get("tagName").String()), "h"))
		heading := pagestate.Heading{
			Level: level,
			Text:  h.Get("textContent").String(),
			ID:    h.Get("id").String(),
		}
		if a := h.Call("querySelector", `a[href*="#"]`); !a.IsNull() {
			heading.AnchorHref = a.Call("getAttribute", "href").String()
		}
		out = append(out, heading)
	}
	return out, nil
}

// RenderOutline fills the outline slot. Entries carry data-index so a single
// delegated click handler can map them back to the controller.
func (r *Renderer) RenderOutline(entries []pagestate.OutlineEntry) error {
	slot, err := r.element(pagestate.OutlineContent)
	if err != nil {
		return err
	}
	slot.Set("innerHTML", "")
	for i, e := range entries {
		class := "outline-item outline-h" + strconv.Itoa(e.Level)
		var item js.Value
		if e.Scrollable() {
			item = r.doc.Call("createElement", "a")
			item.Call("setAttribute", "href", "#"+e.AnchorID)
		} else {
			item = r.doc.Call("createElement", "span")
			class += " inert"
		}
		item.Call("setAttribute", "class", class)
		item.Call("setAttribute", "data-index", strconv.Itoa(i))
		item.Set("textContent", e.Label)
		slot.Call("appendChild", item)
	}
	return nil
}

func (r *Renderer) OnOutsideClick(id string, fn func()) (func(), error) {
	panel, err := r.element(id)
	if err != nil {
		return nil, err
	}
	listener := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		if !panel.Call("contains", args[0].Get("target")).Bool() {
			fn()
		}
		return nil
	})
	r.doc.Call("addEventListener", "click", listener)

	detached := false
	return func() {
		if detached {
			return
		}
		detached = true
		r.doc.Call("removeEventListener", "click", listener)
		listener.Release()
	}, nil
}

var _ pagestate.Renderer = (*Renderer)(nil)
