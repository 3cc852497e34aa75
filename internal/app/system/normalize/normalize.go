// Package normalize canonicalizes user- and feed-supplied strings before they
// are stored or compared.
package normalize

import (
	"strings"
	"unicode"

	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Email trims and lower-cases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and collapses inner runs of whitespace.
// Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Title title-cases a label the way department names are stored:
// "facilities management" -> "Facilities Management".
func Title(s string) string {
	// Casers hold state, so each call gets its own.
	return cases.Title(language.Und).String(Name(strings.ToLower(s)))
}

// slugSeparators are split on rather than spelled out or dropped, so
// "R&D Services" becomes "r-d-services" and "O'Neill Hall" "o-neill-hall".
var slugSeparators = map[rune]string{
	'&':  "-",
	'@':  "-",
	'\'': "-",
	'’':  "-",
}

// Slug derives a URL-safe slug: "Facilities Management" -> "facilities-management".
func Slug(s string) string {
	return slug.Make(slug.SubstituteRune(Name(s), slugSeparators))
}

// Phone keeps only the digits of a phone number. Returns "" when there are none.
func Phone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Optional trims s and returns nil when the result is empty.
func Optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
