package pagestate

import (
	"os"
	"strings"
)

// LocaleSource supplies the ambient preferred-locale string, e.g. a browser's
// navigator.language or the first tag of an Accept-Language header. It may
// return "".
type LocaleSource func() string

// DetectLanguage maps a locale string to a supported language. Matching is a
// case-insensitive prefix match on "en" and "zh"; everything else, including
// the empty string, resolves to Chinese.
func DetectLanguage(locale string) Language {
	l := strings.ToLower(strings.TrimSpace(locale))
	switch {
	case strings.HasPrefix(l, "en"):
		return English
	case strings.HasPrefix(l, "zh"):
		return Chinese
	default:
		return Chinese
	}
}

// StaticLocale returns a LocaleSource that always reports locale.
func StaticLocale(locale string) LocaleSource {
	return func() string { return locale }
}

// EnvLocale reads the POSIX locale variables in their usual precedence.
func EnvLocale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
