// Package htmldom implements pagestate.Renderer over a parsed HTML document so
// page state can be applied to generated markup without a browser.
package htmldom

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/codekitchen-community/pages/internal/pagestate"
)

// ActiveClass is the class that marks visible regions and active indicators.
const ActiveClass = "active"

// Document is a mutable HTML tree indexed by element id.
type Document struct {
	root *html.Node
	byID map[string]*html.Node

	// Scrolled records ScrollTo targets in call order.
	Scrolled []string

	nextListener int
	listeners    map[int]func()
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	d := &Document{root: root, listeners: make(map[int]func())}
	d.reindex()
	return d, nil
}

// ParseBytes is Parse over a byte slice.
func ParseBytes(b []byte) (*Document, error) {
	return Parse(bytes.NewReader(b))
}

// Render serialises the document.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// Bytes serialises the document into memory.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return nil, fmt.Errorf("rendering html: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *Document) reindex() {
	d.byID = make(map[string]*html.Node)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id := attr(n, "id"); id != "" {
				if _, dup := d.byID[id]; !dup {
					d.byID[id] = n
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
}

func (d *Document) element(id string) (*html.Node, error) {
	if id == pagestate.RootElement {
		if n := findAtom(d.root, atom.Html); n != nil {
			return n, nil
		}
		return nil, fmt.Errorf("%w: <html>", pagestate.ErrNoElement)
	}
	n, ok := d.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: #%s", pagestate.ErrNoElement, id)
	}
	return n, nil
}

// Has reports whether an element with id exists.
func (d *Document) Has(id string) bool {
	_, err := d.element(id)
	return err == nil
}

// Text returns the text content of the element, or "" if it is missing.
func (d *Document) Text(id string) string {
	n, err := d.element(id)
	if err != nil {
		return ""
	}
	return textContent(n)
}

// Attr returns an attribute of the element, or "" if either is missing.
func (d *Document) Attr(id, name string) string {
	n, err := d.element(id)
	if err != nil {
		return ""
	}
	return attr(n, name)
}

// HasClass reports whether the element carries class.
func (d *Document) HasClass(id, class string) bool {
	n, err := d.element(id)
	if err != nil {
		return false
	}
	return slices.Contains(strings.Fields(attr(n, "class")), class)
}

func (d *Document) SetVisible(id string, visible bool) error {
	return d.toggleClass(id, ActiveClass, visible)
}

func (d *Document) SetActive(id string, active bool) error {
	return d.toggleClass(id, ActiveClass, active)
}

func (d *Document) toggleClass(id, class string, on bool) error {
	n, err := d.element(id)
	if err != nil {
		return err
	}
	classes := strings.Fields(attr(n, "class"))
	has := slices.Contains(classes, class)
	switch {
	case on && !has:
		classes = append(classes, class)
	case !on && has:
		classes = slices.DeleteFunc(classes, func(c string) bool { return c == class })
	default:
		return nil
	}
	setAttr(n, "class", strings.Join(classes, " "))
	return nil
}

func (d *Document) SetText(id, text string) error {
	n, err := d.element(id)
	if err != nil {
		return err
	}
	removeChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	d.reindex()
	return nil
}

func (d *Document) SetAttribute(id, name, value string) error {
	n, err := d.element(id)
	if err != nil {
		return err
	}
	setAttr(n, name, value)
	return nil
}

// ScrollTo records the target; there is no viewport to move.
func (d *Document) ScrollTo(anchorID string) error {
	if _, err := d.element(anchorID); err != nil {
		return err
	}
	d.Scrolled = append(d.Scrolled, anchorID)
	return nil
}

func (d *Document) Headings(id string) ([]pagestate.Heading, error) {
	n, err := d.element(id)
	if err != nil {
		return nil, err
	}
	var out []pagestate.Heading
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.DataAtom); level > 0 {
				out = append(out, pagestate.Heading{
					Level:      level,
					Text:       textContent(n),
					ID:         attr(n, "id"),
					AnchorHref: anchorHref(n),
				})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out, nil
}

// RenderOutline fills the outline content slot with one link per entry.
// Entries without an anchor are rendered as inert spans.
func (d *Document) RenderOutline(entries []pagestate.OutlineEntry) error {
	slot, err := d.element(pagestate.OutlineContent)
	if err != nil {
		return err
	}
	removeChildren(slot)
	for i, e := range entries {
		class := "outline-item outline-h" + strconv.Itoa(e.Level)
		item := &html.Node{Type: html.ElementNode, Data: "span", DataAtom: atom.Span}
		if e.Scrollable() {
			item = &html.Node{Type: html.ElementNode, Data: "a", DataAtom: atom.A}
			item.Attr = append(item.Attr, html.Attribute{Key: "href", Val: "#" + e.AnchorID})
		} else {
			class += " inert"
		}
		item.Attr = append(item.Attr,
			html.Attribute{Key: "class", Val: class},
			html.Attribute{Key: "data-index", Val: strconv.Itoa(i)},
		)
		item.AppendChild(&html.Node{Type: html.TextNode, Data: e.Label})
		slot.AppendChild(item)
	}
	d.reindex()
	return nil
}

// OnOutsideClick registers fn; ClickOutside fires it.
func (d *Document) OnOutsideClick(id string, fn func()) (func(), error) {
	if _, err := d.element(id); err != nil {
		return nil, err
	}
	n := d.nextListener
	d.nextListener++
	d.listeners[n] = fn
	return func() { delete(d.listeners, n) }, nil
}

// Listeners returns the number of attached outside-click listeners.
func (d *Document) Listeners() int { return len(d.listeners) }

// ClickOutside dispatches a click that landed outside every watched element.
func (d *Document) ClickOutside() {
	var fns []func()
	for _, k := range slices.Sorted(maps.Keys(d.listeners)) {
		fns = append(fns, d.listeners[k])
	}
	for _, fn := range fns {
		fn()
	}
}

var _ pagestate.Renderer = (*Document)(nil)
