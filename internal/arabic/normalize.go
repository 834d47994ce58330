// Package arabic provides text normalization, tokenization and target-word
// filtering for Arabic practice text.
package arabic

import "strings"

// diacritics are the harakat and related combining marks stripped by Normalize.
var diacritics = map[rune]bool{
	'ً': true, // fathatan
	'ٌ': true, // dammatan
	'ٍ': true, // kasratan
	'َ': true, // fatha
	'ُ': true, // damma
	'ِ': true, // kasra
	'ّ': true, // shadda
	'ْ': true, // sukun
	'ٓ': true, // maddah
	'ٰ': true, // superscript alef
}

// IsDiacritic reports whether r is an Arabic diacritical mark.
func IsDiacritic(r rune) bool {
	return diacritics[r]
}

// Normalize strips diacritics, unifies letter variants that speech
// recognizers conflate (alef with hamza, waw/yaa with hamza, taa marbuta),
// and collapses whitespace.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		if diacritics[r] {
			continue
		}
		switch r {
		case 'أ', 'إ', 'آ':
			b.WriteRune('ا')
		case 'ؤ':
			b.WriteRune('و')
		case 'ئ':
			b.WriteRune('ي')
		case 'ة':
			b.WriteRune('ه')
		default:
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize normalizes text and splits it into word and punctuation tokens.
// Punctuation marks become tokens of their own.
func Tokenize(text string) []string {
	normalized := Normalize(text)

	var b strings.Builder
	b.Grow(len(normalized) + 16)
	for _, r := range normalized {
		if isPunct(r) {
			b.WriteRune(' ')
			b.WriteRune(r)
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}

	return strings.Fields(b.String())
}

// Words returns only the word tokens of text, punctuation dropped.
func Words(text string) []string {
	tokens := Tokenize(text)
	words := tokens[:0]
	for _, tok := range tokens {
		if !isPunctOnly(tok) {
			words = append(words, tok)
		}
	}
	return words
}
