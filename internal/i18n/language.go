package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is one of the supported UI languages. The string value doubles as
// the locale file name and the persisted settings value.
type Language string

const (
	English Language = "en"
	Spanish Language = "es"
	French  Language = "fr"
)

var supported = []Language{English, Spanish, French}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Spanish,
	language.French,
})

// Languages returns the supported languages in display order.
func Languages() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

func (l Language) Valid() bool {
	for _, s := range supported {
		if l == s {
			return true
		}
	}
	return false
}

func (l Language) String() string { return string(l) }

// ParseLanguage maps a BCP 47 tag or POSIX locale ("es-MX", "fr_FR.UTF-8")
// onto a supported language. ok is false when nothing matches.
func ParseLanguage(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "_", "-")
	if s == "" {
		return "", false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "", false
	}
	return supported[idx], true
}

// DisplayName is the language's own name for itself.
func (l Language) DisplayName() string {
	switch l {
	case English:
		return "English"
	case Spanish:
		return "Español"
	case French:
		return "Français"
	default:
		return string(l)
	}
}
