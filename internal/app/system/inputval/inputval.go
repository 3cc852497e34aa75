// Package inputval holds small syntactic checks for user-supplied fields.
package inputval

import (
	"net/mail"
	"strings"
)

// IsValidEmail reports whether s is a bare address (no display name) with
// well-formed local and domain parts. Single-label domains are allowed.
func IsValidEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	local, domain := s[:at], s[at+1:]
	return validDotted(local) && validDotted(domain)
}

func validDotted(part string) bool {
	return part != "" &&
		!strings.HasPrefix(part, ".") &&
		!strings.HasSuffix(part, ".") &&
		!strings.Contains(part, "..")
}

// Phone numbers are stored as digits only; these bounds cover local
// numbers through full international ones.
const (
	MinPhoneDigits = 7
	MaxPhoneDigits = 15
)

// IsValidPhone reports whether digits (already stripped of punctuation) is a
// plausible phone number.
func IsValidPhone(digits string) bool {
	if len(digits) < MinPhoneDigits || len(digits) > MaxPhoneDigits {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
