package phonics

// Edit costs for the similarity metric. Substituting within a confusable
// group costs half a regular substitution, so near-miss pronunciations
// score higher than arbitrary ones.
const (
	costInsert     = 1
	costDelete     = 1
	costSubstitute = 2
	costSimilarSub = 1
)

// areConfusable reports whether two letters belong to the same
// confusable group.
func areConfusable(a, b rune) bool {
	for _, sub := range confusables[a] {
		if sub == b {
			return true
		}
	}
	return false
}

// Similarity returns a normalized similarity score in [0, 100] between the
// expected and spoken words, using a weighted edit distance where
// confusable-letter substitutions are cheap. Identical words (including
// two empty strings) score 100; an empty word against a non-empty one
// scores 0. The score is diagnostic only; Classify does not branch on it.
func Similarity(expected, spoken string) float64 {
	if expected == spoken {
		return 100
	}
	if expected == "" || spoken == "" {
		return 0
	}

	a := []rune(expected)
	b := []rune(spoken)
	m, n := len(a), len(b)

	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j * costInsert
	}

	for i := 1; i <= m; i++ {
		curr[0] = i * costDelete
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			sub := costSubstitute
			if areConfusable(a[i-1], b[j-1]) {
				sub = costSimilarSub
			}
			curr[j] = min(
				prev[j]+costDelete,
				curr[j-1]+costInsert,
				prev[j-1]+sub,
			)
		}
		prev, curr = curr, prev
	}

	maxLen := max(m, n)
	worst := maxLen * costSubstitute
	score := float64(worst-prev[n]) / float64(worst) * 100
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Severity bands applied to word-level similarity scores.
type Severity string

const (
	SeverityCorrect Severity = "correct"
	SeverityMinor   Severity = "minor"
	SeveritySevere  Severity = "severe"
)

const (
	correctThreshold = 90
	minorThreshold   = 70
)

// SeverityFor maps a similarity score onto a severity band.
func SeverityFor(similarity float64) Severity {
	switch {
	case similarity >= correctThreshold:
		return SeverityCorrect
	case similarity >= minorThreshold:
		return SeverityMinor
	default:
		return SeveritySevere
	}
}
