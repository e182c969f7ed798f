package query

import (
	"regexp"
	"strings"
)

var (
	// Unicode spaces are folded too; the ideographic space is common in CJK input.
	cleanWhitespace = regexp.MustCompile(`[\s\p{Z}]+`)
	// Everything that is not a word character, whitespace or one of : , . ( ) % -
	cleanDisallowed = regexp.MustCompile(`[^\p{L}\p{N}\p{M}_\s:,.()%\-]`)
	asciiWhitespace = regexp.MustCompile(`\s+`)

	fullWidthPunctuation = strings.NewReplacer("：", ":", "，", ",", "。", ".")
)

// Clean normalizes a raw query: collapses whitespace, maps full-width
// punctuation to ASCII, replaces disallowed symbols with spaces and
// collapses again. Clean is idempotent.
func Clean(text string) string {
	text = strings.TrimSpace(cleanWhitespace.ReplaceAllString(text, " "))
	text = fullWidthPunctuation.Replace(text)
	text = cleanDisallowed.ReplaceAllString(text, " ")
	return strings.TrimSpace(asciiWhitespace.ReplaceAllString(text, " "))
}
