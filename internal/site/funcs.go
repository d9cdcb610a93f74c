package site

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/codekitchen-community/pages/internal/content"
)

// fallbackLanguage is used by lang and label when a block lacks the
// requested language.
const fallbackLanguage = "en"

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// funcMap returns the helpers available to page templates. Heading ids from
// anchor and markdown are unique within ids.
func funcMap(md goldmark.Markdown, ids *anchors) template.FuncMap {
	return template.FuncMap{
		// markdown renders src. An optional prefix scopes its heading ids,
		// e.g. {{ markdown .content "readme-english" }}.
		"markdown": func(src string, prefix ...string) (template.HTML, error) {
			ctx := parser.NewContext(parser.WithIDs(markdownIDs{anchors: ids, prefix: strings.Join(prefix, "-")}))
			var buf bytes.Buffer
			if err := md.Convert([]byte(src), &buf, parser.WithContext(ctx)); err != nil {
				return "", fmt.Errorf("converting markdown: %w", err)
			}
			return template.HTML(buf.String()), nil
		},
		"anchor": ids.id,
		"safe":   func(s string) template.HTML { return template.HTML(s) },
		"title":  content.TitleCase,
		"slug":   slug,
		"lang":   lang,
		"label":  label,
		"list":   func(items ...any) []any { return items },
		"dict":   dict,
	}
}

// lang picks the code entry of a language-keyed block, falling back to
// English. It returns nil when neither exists.
func lang(block any, code string) map[string]any {
	m, ok := block.(map[string]any)
	if !ok {
		return nil
	}
	if v, ok := m[code].(map[string]any); ok {
		return v
	}
	if v, ok := m[fallbackLanguage].(map[string]any); ok {
		return v
	}
	return nil
}

// label looks up key in the ui_text block for code, or returns def.
func label(ui any, code, key, def string) string {
	if s, ok := lang(ui, code)[key].(string); ok && s != "" {
		return s
	}
	return def
}

func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[k] = pairs[i+1]
	}
	return m, nil
}

// slug lowercases s and joins its letter and digit runs with dashes.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
