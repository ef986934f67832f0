// Package validate performs syntactic checks on contact details entered in forms.
package validate

import (
	"regexp"
)

// MinPhoneDigits is the smallest number of digits accepted in a phone number
const MinPhoneDigits = 10

// space matches every character JavaScript's \s does; RE2's \s is ASCII only
const space = `\s\v\p{Z}\x{FEFF}`

var (
	emailPattern    = regexp.MustCompile(`^[^` + space + `@]+@[^` + space + `@]+\.[^` + space + `@]+$`)
	phonePattern    = regexp.MustCompile(`^\+?[\d` + space + `\-()]+$`)
	nonDigitPattern = regexp.MustCompile(`\D`)
)

// Email reports whether s looks like local@domain.tld. No DNS or MX lookup is made.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// Phone reports whether s contains only digits, spaces, parentheses, hyphens and
// an optional leading "+", with at least MinPhoneDigits digits.
func Phone(s string) bool {
	if !phonePattern.MatchString(s) {
		return false
	}
	return len(nonDigitPattern.ReplaceAllString(s, "")) >= MinPhoneDigits
}
