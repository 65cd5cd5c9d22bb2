// Package tokenizer extracts the set of unique words from document text.
// Tokens are whitespace-separated runs trimmed of any leading and trailing
// characters that are not ASCII letters; interior digits and punctuation
// are preserved. Case normalisation is the caller's job and must happen
// before the set is built so case variants collapse to one word.
package tokenizer

import "strings"

// UniqueWords splits text on whitespace and returns the deduplicated set of
// trimmed tokens. A token consisting only of non-letters trims to the empty
// string, which stays in the set; callers filter it before persistence.
// Deterministic and side-effect free; empty input yields an empty set.
func UniqueWords(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, token := range strings.Fields(text) {
		words[trimNonLetters(token)] = struct{}{}
	}
	return words
}

func trimNonLetters(token string) string {
	return strings.TrimFunc(token, func(r rune) bool {
		return !isASCIILetter(r)
	})
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
