package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold lowercases text and strips diacritics so "Solána" and "solana" match.
// Falls back to plain lowercasing if the transform fails on malformed input.
func Fold(text string) string {
	folded, _, err := transform.String(foldTransformer, text)
	if err != nil {
		return strings.ToLower(text)
	}
	return strings.ToLower(folded)
}

// CollapseWhitespace replaces every run of whitespace with a single space and
// trims the ends. Used for content hashing so reflowed copies of the same post
// dedupe to the same identity.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
