// Package scenes picks the sentences of a story that are worth
// illustrating: a handful of units spread across the text.
package scenes

import "strings"

// Unit length bounds in runes. Shorter fragments carry too little to
// draw; longer ones overwhelm the image prompt.
const (
	minUnitLen = 10
	maxUnitLen = 250
)

// maxScenes is the number of scenes picked from longer texts.
const maxScenes = 4

// terminators end a sentence unit.
var terminators = map[rune]bool{'.': true, '!': true, '?': true, '؟': true}

// Extract returns the scene sentences for a story. Up to four units are
// kept: all of them when the text has at most four, otherwise the first
// and last plus evenly spaced middles. Texts that produce no usable
// units fall back to four equal slices of the raw text. Extract never
// returns an empty slice for non-blank input.
func Extract(text string) []string {
	units := split(text)

	switch n := len(units); {
	case n == 0:
		return fallback(text)
	case n <= maxScenes:
		return units
	case n == 5:
		mid := n / 2
		return []string{units[0], units[mid], units[(n+mid)/2], units[n-1]}
	default:
		return []string{units[0], units[n/3], units[2*n/3], units[n-1]}
	}
}

// split cuts the text on terminal punctuation and keeps the units whose
// length is inside the drawable range.
func split(text string) []string {
	var units []string
	var cur strings.Builder

	flush := func() {
		u := strings.TrimSpace(cur.String())
		cur.Reset()
		if n := len([]rune(u)); n >= minUnitLen && n <= maxUnitLen {
			units = append(units, u)
		}
	}

	for _, r := range text {
		if terminators[r] {
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()

	return units
}

// fallback slices the raw text into four equal rune chunks.
func fallback(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	runes := []rune(trimmed)
	if len(runes) < maxScenes {
		return []string{trimmed}
	}

	chunk := len(runes) / maxScenes
	out := make([]string, 0, maxScenes)
	for i := range maxScenes {
		start := i * chunk
		end := start + chunk
		if i == maxScenes-1 {
			end = len(runes)
		}
		part := strings.TrimSpace(string(runes[start:end]))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
