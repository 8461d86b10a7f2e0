package dictionary

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
)

var ErrUsage = errors.New("input language and word not specified; usage: <input lang> [output lang] <word>")

var (
	english = language.MustParseBase("en")
	german  = language.MustParseBase("de")
	russian = language.MustParseBase("ru")
)

// ResolveLanguages splits command arguments of the form
// <input lang> [output lang] <word...> into the language pair and the term.
// The output language is only consumed when it is en, de or ru; otherwise
// it is chosen from the input language.
func ResolveLanguages(args []string) (from string, to string, term string, err error) {
	if len(args) < 2 {
		return "", "", "", ErrUsage
	}

	from = normaliseCode(args[0])
	rest := args[1:]
	if code, ok := outputLanguage(rest[0]); ok {
		to = code
		rest = rest[1:]
	} else {
		to = defaultOutputLanguage(from)
	}

	term = strings.TrimSpace(strings.Join(rest, " "))
	if term == "" {
		return "", "", "", ErrUsage
	}
	return from, to, term, nil
}

// IsSupportedLanguage reports whether code is one of en, de or ru.
func IsSupportedLanguage(code string) bool {
	_, ok := outputLanguage(code)
	return ok
}

func outputLanguage(code string) (string, bool) {
	if code != strings.ToLower(code) {
		return "", false
	}
	switch base, ok := parseBase(code); {
	case !ok:
		return "", false
	case base == english, base == german, base == russian:
		return base.String(), true
	}
	return "", false
}

func defaultOutputLanguage(from string) string {
	base, _ := parseBase(from)
	switch base {
	case english, russian:
		return german.String()
	case german:
		return russian.String()
	default:
		return russian.String()
	}
}

func normaliseCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func parseBase(code string) (language.Base, bool) {
	if len(code) != 2 {
		return language.Base{}, false
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return language.Base{}, false
	}
	return base, true
}
