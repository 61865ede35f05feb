package utils

import "strings"

func isLetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// HasLetter reports whether s contains at least one ASCII letter.
func HasLetter(s string) bool {
	return strings.ContainsFunc(s, isLetter)
}

// HasNumber reports whether s contains at least one ASCII digit.
func HasNumber(s string) bool {
	return strings.ContainsFunc(s, isDigit)
}

// ValidPassword applies the registration password policy: at least one
// letter and at least one digit.
func ValidPassword(s string) bool {
	return HasLetter(s) && HasNumber(s)
}
