package sanitizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultCaptionMaxLength is the caption limit of the upload page.
const DefaultCaptionMaxLength = 2200

var blankLines = regexp.MustCompile(`\n{3,}`)

// Caption prepares user input for the upload page's caption box:
// markup is stripped, text is NFC-normalized, control characters other than
// newlines are dropped, runs of blank lines are collapsed and the result is
// trimmed and cut to maxLen runes. maxLen <= 0 disables the cut.
func Caption(s string, maxLen int) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t' || r == '\r':
			return ' '
		case unicode.IsControl(r), r == '\uFEFF':
			return -1
		}
		return r
	}, s)
	s = StripHTML(s)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	s = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	s = strings.TrimSpace(s)

	return truncate(s, maxLen)
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == maxLen {
			return strings.TrimRightFunc(s[:i], unicode.IsSpace)
		}
		n++
	}
	return s
}
