package pagestate

import "strings"

// Language selects which of the two parallel content variants is visible.
type Language string

const (
	English Language = "en"
	Chinese Language = "zh"
)

// Theme is the page colour scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Tab names a content section of the page.
type Tab string

const (
	Readme  Tab = "readme"
	Conduct Tab = "conduct"
)

// DefaultTabs is the tab set rendered by the stock page template.
var DefaultTabs = []Tab{Readme, Conduct}

// ParseLanguage returns the Language named by s. The second result is false
// for anything other than "en" or "zh".
func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case English:
		return English, true
	case Chinese:
		return Chinese, true
	}
	return "", false
}

// ParseTheme returns the Theme named by s.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	}
	return "", false
}

// Other returns the opposite language.
func (l Language) Other() Language {
	if l == English {
		return Chinese
	}
	return English
}

// Other returns the opposite theme.
func (t Theme) Other() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Icon is the glyph shown on the theme toggle. It advertises the theme the
// toggle switches to.
func (t Theme) Icon() string {
	if t == Dark {
		return "☀️"
	}
	return "🌙"
}

// State is a snapshot of a controller.
type State struct {
	Language    Language
	Theme       Theme
	Tab         Tab
	OutlineOpen bool
}
