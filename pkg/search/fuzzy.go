package search

import (
	"strings"
	"unicode"
)

// fuzzyThreshold is the fraction of query characters that must be found,
// in order, inside a single word of the text.
const fuzzyThreshold = 0.8

// FuzzyMatch reports whether query loosely matches text: text is split
// into words, and a word matches when a left-to-right scan finds at least
// floor(0.8 * len(query)) of the query's characters in order. This is a
// lenient ordered-subsequence check for a search box, not edit distance
// and not a ranking function. Queries shorter than 3 runes never match.
func FuzzyMatch(text, query string) bool {
	q := []rune(strings.ToLower(strings.TrimSpace(query)))
	if len(q) < 3 {
		return false
	}
	needed := int(fuzzyThreshold * float64(len(q)))

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, word := range words {
		if subsequenceCount(word, q) >= needed {
			return true
		}
	}
	return false
}

// subsequenceCount scans word left-to-right and counts how many of the
// query's runes are found in order.
func subsequenceCount(word string, query []rune) int {
	qi := 0
	for _, r := range word {
		if qi == len(query) {
			break
		}
		if r == query[qi] {
			qi++
		}
	}
	return qi
}
