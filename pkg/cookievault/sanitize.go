package cookievault

import (
	"regexp"
	"strings"
	"unicode"
)

var dataURIPrefix = regexp.MustCompile(`^data:[^;,]*;base64,`)

// Sanitize turns an externally supplied Base64 string into canonical form:
// leading data URI prefixes, all whitespace, zero-width characters
// (U+200B..U+200D) and byte order marks (U+FEFF) are removed.
// Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(raw string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || isZeroWidth(r) {
			return -1
		}
		return r
	}, raw)
	for dataURIPrefix.MatchString(s) {
		s = dataURIPrefix.ReplaceAllLiteralString(s, "")
	}
	return s
}

func isZeroWidth(r rune) bool {
	return (r >= '\u200B' && r <= '\u200D') || r == '\uFEFF'
}
