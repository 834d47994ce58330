package arabic

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// punctuation covers Latin punctuation plus the Arabic question mark,
// comma, semicolon and the quotation glyphs common in practice text.
var punctuation = map[rune]bool{
	'.': true, ',': true, '!': true, '?': true, ':': true, ';': true,
	'،': true, '؛': true, '؟': true,
	'"': true, '\'': true, '«': true, '»': true,
	'“': true, '”': true, '‘': true, '’': true,
	'(': true, ')': true, '[': true, ']': true, '{': true, '}': true,
	'-': true, '–': true, '—': true, '…': true,
}

func isPunct(r rune) bool {
	return punctuation[r] || unicode.IsPunct(r)
}

func isPunctOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isPunct(r) {
			return false
		}
	}
	return true
}

// minTargetWordLen is the minimum rune length of a usable target word.
// One- and two-letter tokens are particles or fragments, not vocabulary.
const minTargetWordLen = 3

// IsValidTargetWord reports whether token can serve as a pronunciation
// target: non-blank, not pure punctuation, not a closed-class function
// word, and at least three letters long.
func IsValidTargetWord(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}
	if isPunctOnly(token) {
		return false
	}
	if utf8.RuneCountInString(token) < minTargetWordLen {
		return false
	}
	if stopwords[Normalize(token)] {
		return false
	}
	return true
}
