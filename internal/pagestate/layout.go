package pagestate

// Element ids shared with the page templates.
const (
	RootElement     = ":root"
	OutlinePanelID  = "outline-panel"
	OutlineTitleID  = "outline-title"
	OutlineContent  = "outline-content"
	ThemeIconID     = "theme-icon"
	LanguageLabelID = "language-label"
	NavBlogID       = "nav-blog"
	NavBackID       = "nav-back"

	ThemeAttribute = "data-theme"
	LangAttribute  = "lang"
)

// RegionID is the id of the content container for tab.
func RegionID(t Tab) string { return string(t) + "-content" }

// TabID is the id of the indicator (button) for tab.
func TabID(t Tab) string { return string(t) + "-tab" }

// TabLabelID is the id of the text node inside a tab indicator.
func TabLabelID(t Tab) string { return string(t) + "-tab-label" }

// VariantID is the id of the language variant of tab's content.
func VariantID(t Tab, l Language) string {
	if l == English {
		return string(t) + "-english"
	}
	return string(t) + "-chinese"
}

// Labels holds the localised chrome strings for one language.
type Labels struct {
	Tabs           map[Tab]string
	Blog           string
	Back           string
	Outline        string
	LanguageSwitch string
	HTMLLang       string
}

var labels = map[Language]Labels{
	English: {
		Tabs:           map[Tab]string{Readme: "README", Conduct: "Code of Conduct"},
		Blog:           "Blog",
		Back:           "Back to Community",
		Outline:        "Outline",
		LanguageSwitch: "中文",
		HTMLLang:       "en",
	},
	Chinese: {
		Tabs:           map[Tab]string{Readme: "说明文档", Conduct: "行为准则"},
		Blog:           "博客",
		Back:           "返回社区",
		Outline:        "大纲",
		LanguageSwitch: "English",
		HTMLLang:       "zh-CN",
	},
}

// LabelsFor returns the chrome strings for l.
func LabelsFor(l Language) Labels {
	return labels[l]
}

// TabLabel returns the label of t in l, falling back to the tab name for tabs
// without a translation.
func (lb Labels) TabLabel(t Tab) string {
	if s, ok := lb.Tabs[t]; ok {
		return s
	}
	return string(t)
}
