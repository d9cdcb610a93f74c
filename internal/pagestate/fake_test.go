package pagestate

import (
	"errors"
	"sort"
)

// fakeDOM is an in-memory Renderer keyed by element id.
type fakeDOM struct {
	missing  map[string]bool
	visible  map[string]bool
	active   map[string]bool
	text     map[string]string
	attrs    map[string]map[string]string
	headings map[string][]Heading
	outline  []OutlineEntry
	scrolled []string

	nextListener int
	listeners    map[int]func()
}

func newFakeDOM() *fakeDOM {
	return &fakeDOM{
		missing:   map[string]bool{},
		visible:   map[string]bool{},
		active:    map[string]bool{},
		text:      map[string]string{},
		attrs:     map[string]map[string]string{},
		headings:  map[string][]Heading{},
		listeners: map[int]func(){},
	}
}

func (f *fakeDOM) SetVisible(id string, v bool) error {
	if f.missing[id] {
		return ErrNoElement
	}
	f.visible[id] = v
	return nil
}

func (f *fakeDOM) SetActive(id string, v bool) error {
	if f.missing[id] {
		return ErrNoElement
	}
	f.active[id] = v
	return nil
}

func (f *fakeDOM) SetText(id, text string) error {
	if f.missing[id] {
		return ErrNoElement
	}
	f.text[id] = text
	return nil
}

func (f *fakeDOM) SetAttribute(id, name, value string) error {
	if f.missing[id] {
		return ErrNoElement
	}
	if f.attrs[id] == nil {
		f.attrs[id] = map[string]string{}
	}
	f.attrs[id][name] = value
	return nil
}

func (f *fakeDOM) ScrollTo(id string) error {
	f.scrolled = append(f.scrolled, id)
	return nil
}

func (f *fakeDOM) Headings(id string) ([]Heading, error) {
	if f.missing[id] {
		return nil, ErrNoElement
	}
	return f.headings[id], nil
}

func (f *fakeDOM) RenderOutline(entries []OutlineEntry) error {
	if f.missing[OutlineContent] {
		return ErrNoElement
	}
	f.outline = entries
	return nil
}

func (f *fakeDOM) OnOutsideClick(id string, fn func()) (func(), error) {
	if f.missing[id] {
		return nil, ErrNoElement
	}
	n := f.nextListener
	f.nextListener++
	f.listeners[n] = fn
	return func() { delete(f.listeners, n) }, nil
}

func (f *fakeDOM) clickOutside() {
	keys := make([]int, 0, len(f.listeners))
	for k := range f.listeners {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		if fn, ok := f.listeners[k]; ok {
			fn()
		}
	}
}

// visibleRegions returns the content regions currently shown.
func (f *fakeDOM) visibleRegions(tabs []Tab) []Tab {
	var out []Tab
	for _, t := range tabs {
		if f.visible[RegionID(t)] {
			out = append(out, t)
		}
	}
	return out
}

// failingKV simulates storage that is disabled by the host.
type failingKV struct{}

var errStorageDisabled = errors.New("storage disabled")

func (failingKV) Get(string) (string, bool, error) { return "", false, errStorageDisabled }
func (failingKV) Set(string, string) error         { return errStorageDisabled }
