package dictionary

import "strings"

// StripTags removes every <...> span from text. Tags do not nest and an
// unterminated tag swallows the rest of the input.
func StripTags(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	insideTag := false
	for _, r := range text {
		switch {
		case r == '<':
			insideTag = true
		case r == '>':
			insideTag = false
		case !insideTag:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
