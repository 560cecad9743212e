package core

import "strings"

// Language is one of the closed set of languages the site is published in.
type Language string

const (
	LangEN Language = "en"
	LangES Language = "es"
	LangIT Language = "it"
)

// Languages returns the supported languages in a stable order.
func Languages() []Language {
	return []Language{LangEN, LangES, LangIT}
}

// ParseLanguage validates a language tag from a URL or query parameter.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LangEN:
		return LangEN, nil
	case LangES:
		return LangES, nil
	case LangIT:
		return LangIT, nil
	default:
		return "", ErrInvalidLanguage
	}
}
