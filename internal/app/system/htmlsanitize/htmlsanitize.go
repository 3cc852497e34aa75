// Package htmlsanitize cleans organizer-entered text before it is stored.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Policies are safe for concurrent use once built.
var (
	strict = bluemonday.StrictPolicy()
	ugc    = bluemonday.UGCPolicy()
)

// PlainText strips all markup and returns plain text. Entities are decoded so
// "A & B" round-trips unchanged.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Sanitize keeps basic formatting (paragraphs, emphasis, links, lists,
// tables) and removes scripts, event handlers and unsafe URLs.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(ugc.Sanitize(s))
}
