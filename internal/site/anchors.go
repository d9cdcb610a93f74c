package site

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

// anchors hands out element ids that are unique across one rendered page.
// Template headings and markdown headings draw from the same set, so an
// outline entry never points at a same-named heading in another region.
type anchors struct {
	used map[string]bool
}

func newAnchors() *anchors {
	return &anchors{used: make(map[string]bool)}
}

// id returns prefix-slug(text), numbered -1, -2, ... once taken. Text that
// slugs to nothing becomes "heading".
func (a *anchors) id(prefix, text string) string {
	base := slug(text)
	if base == "" {
		base = "heading"
	}
	if prefix != "" {
		base = prefix + "-" + base
	}
	id := base
	for n := 1; a.used[id]; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	a.used[id] = true
	return id
}

// markdownIDs feeds goldmark's auto heading ids from a page's anchors.
type markdownIDs struct {
	anchors *anchors
	prefix  string
}

func (m markdownIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	return []byte(m.anchors.id(m.prefix, string(value)))
}

func (m markdownIDs) Put(value []byte) {
	m.anchors.used[string(value)] = true
}

var _ parser.IDs = markdownIDs{}
