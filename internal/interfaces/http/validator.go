package http

import (
	"strings"
	"unicode/utf8"
)

// Input validation limits
const (
	MaxMessageLength = 10000
	MaxNameLength    = 256
)

// SanitizeString removes null bytes and invalid UTF-8 sequences
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")

	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for _, r := range s {
			if r != utf8.RuneError {
				v = append(v, r)
			}
		}
		s = string(v)
	}
	return s
}

// ValidateLength checks if the byte length of s is within bounds
func ValidateLength(s string, min, max int) bool {
	l := len(s)
	return l >= min && l <= max
}
