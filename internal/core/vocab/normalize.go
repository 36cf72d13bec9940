package vocab

import (
	"strings"
	"unicode"
)

// accentFold covers the diacritics that actually occur in the catalog's
// artist names. Anything outside the table passes through unchanged.
var accentFold = map[rune]rune{
	'á': 'a', 'à': 'a', 'â': 'a', 'ä': 'a', 'ã': 'a', 'å': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i',
	'ó': 'o', 'ò': 'o', 'ô': 'o', 'ö': 'o', 'õ': 'o', 'ø': 'o',
	'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u',
	'ñ': 'n', 'ç': 'c', 'ý': 'y',
}

// Normalize lowercases, strips accents, and collapses every run of
// non-alphanumeric characters into a single space.
func Normalize(input string) string {
	var out strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(input) {
		if f, ok := accentFold[r]; ok {
			r = f
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			out.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(out.String())
}

// Tokens splits normalized text into whole words.
func Tokens(input string) []string {
	return strings.Fields(Normalize(input))
}

// ContainsToken reports a word-boundary (whole-token) match of word
// within text. Both sides are normalized.
func ContainsToken(text, word string) bool {
	w := Normalize(word)
	if w == "" {
		return false
	}
	for _, tok := range Tokens(text) {
		if tok == w {
			return true
		}
	}
	return false
}
