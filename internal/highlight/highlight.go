// Package highlight wraps target words in story text with <mark> tags
// so clients can emphasize them during practice.
package highlight

import (
	"sort"
	"strings"

	"github.com/itqanlabs/itqan/internal/arabic"
)

// boundaries are the characters that may delimit a word occurrence.
// Angle brackets are deliberately absent: a word already sitting inside
// a <mark> tag is preceded by '>' and therefore never matched again,
// which makes Apply idempotent.
var boundaries = map[rune]bool{
	' ': true, '\t': true, '\n': true, '\r': true,
	'.': true, ',': true, ';': true, ':': true, '!': true, '?': true,
	'،': true, '؛': true, '؟': true,
	'"': true, '\'': true, '«': true, '»': true,
	'(': true, ')': true, '[': true, ']': true, '{': true, '}': true,
	'…': true, '-': true, '—': true,
}

const (
	openMark  = "<mark>"
	closeMark = "</mark>"
)

// Apply wraps every standalone occurrence of each word in <mark> tags.
// Longer words are processed first so a shorter target that is a
// substring of a longer one never splits its match. A matched word
// consumes any trailing diacritics into the mark. Text without
// occurrences comes back unchanged.
func Apply(text string, words []string) string {
	if text == "" || len(words) == 0 {
		return text
	}

	targets := dedupe(words)
	sort.SliceStable(targets, func(i, j int) bool {
		return len([]rune(targets[i])) > len([]rune(targets[j]))
	})

	for _, w := range targets {
		text = markWord(text, w)
	}
	return text
}

func dedupe(words []string) []string {
	seen := make(map[string]bool, len(words))
	var out []string
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// markWord wraps standalone occurrences of word, scanning left to right
// and never revisiting text it has already emitted.
func markWord(text, word string) string {
	runes := []rune(text)
	target := []rune(word)
	if len(target) == 0 || len(target) > len(runes) {
		return text
	}

	var b strings.Builder
	i := 0
	for i < len(runes) {
		if !matchAt(runes, target, i) {
			b.WriteRune(runes[i])
			i++
			continue
		}

		// Consume trailing diacritics into the match.
		end := i + len(target)
		for end < len(runes) && arabic.IsDiacritic(runes[end]) {
			end++
		}

		if !boundaryAfter(runes, end) {
			b.WriteRune(runes[i])
			i++
			continue
		}

		b.WriteString(openMark)
		b.WriteString(string(runes[i:end]))
		b.WriteString(closeMark)
		i = end
	}
	return b.String()
}

// matchAt reports whether target occurs at position i with a left
// boundary.
func matchAt(runes, target []rune, i int) bool {
	if i > 0 && !boundaries[runes[i-1]] {
		return false
	}
	if i+len(target) > len(runes) {
		return false
	}
	for k, r := range target {
		if runes[i+k] != r {
			return false
		}
	}
	return true
}

func boundaryAfter(runes []rune, end int) bool {
	return end == len(runes) || boundaries[runes[end]]
}
