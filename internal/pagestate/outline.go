package pagestate

import (
	"strings"
	"unicode/utf8"
)

// OutlineEntry is one line of the outline panel.
type OutlineEntry struct {
	Level    int
	Label    string
	AnchorID string
	Target   Heading
}

// Scrollable reports whether the entry has an anchor to scroll to.
func (e OutlineEntry) Scrollable() bool { return e.AnchorID != "" }

// outlineMarkers are permalink glyphs some renderers prepend to heading text.
const outlineMarkers = "#§¶"

// BuildOutline snapshots the headings of the visible variant of tab.
func BuildOutline(r Renderer, tab Tab, lang Language) ([]OutlineEntry, error) {
	headings, err := r.Headings(VariantID(tab, lang))
	if err != nil {
		return nil, err
	}
	entries := make([]OutlineEntry, 0, len(headings))
	for _, h := range headings {
		if h.Level < 1 || h.Level > 3 {
			continue
		}
		entries = append(entries, OutlineEntry{
			Level:    h.Level,
			Label:    OutlineLabel(h.Text),
			AnchorID: anchorFor(h),
			Target:   h,
		})
	}
	return entries, nil
}

// OutlineLabel trims whitespace and strips one leading marker glyph.
func OutlineLabel(text string) string {
	s := strings.TrimSpace(text)
	if r, size := utf8.DecodeRuneInString(s); size > 0 && strings.ContainsRune(outlineMarkers, r) {
		s = s[size:]
	}
	return strings.TrimSpace(s)
}

func anchorFor(h Heading) string {
	if h.ID != "" {
		return h.ID
	}
	if i := strings.IndexByte(h.AnchorHref, '#'); i >= 0 {
		return h.AnchorHref[i+1:]
	}
	return ""
}
