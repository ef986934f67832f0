package format

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const ellipsis = "..."

// Initials takes the first character of each whitespace-separated token,
// upper-cases the result and keeps at most two characters.
func Initials(name string) string {
	var b strings.Builder
	for _, token := range strings.Fields(name) {
		r := []rune(token)
		b.WriteRune(r[0])
	}

	// Casers are stateful, so one is built per call.
	upper := []rune(cases.Upper(language.Und).String(b.String()))
	if len(upper) > 2 {
		upper = upper[:2]
	}
	return string(upper)
}

// Truncate returns text unchanged when it has at most maxLength runes.
// Otherwise it returns the first maxLength runes followed by "...", so the
// result is longer than maxLength by the length of the suffix.
func Truncate(text string, maxLength int) string {
	if maxLength < 0 {
		maxLength = 0
	}

	r := []rune(text)
	if len(r) <= maxLength {
		return text
	}
	return string(r[:maxLength]) + ellipsis
}
