package speech

import "github.com/itqanlabs/itqan/internal/phonics"

// pair aligns one expected word with the spoken word that best matches
// it. Spoken is empty when the word was skipped.
type pair struct {
	expected string
	spoken   string
}

// align matches expected words to recognized words with a global
// sequence alignment that maximizes summed word similarity. Insertions
// on the spoken side are ignored; skipped expected words pair with an
// empty string.
func align(expected, spoken []string) []pair {
	m, n := len(expected), len(spoken)
	if m == 0 {
		return nil
	}

	// dp[i][j] is the best total similarity aligning expected[:i] with
	// spoken[:j].
	dp := make([][]float64, m+1)
	for i := range dp {
		dp[i] = make([]float64, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			match := dp[i-1][j-1] + phonics.Similarity(expected[i-1], spoken[j-1])
			dp[i][j] = max(match, dp[i-1][j], dp[i][j-1])
		}
	}

	// Traceback, preferring matches.
	pairs := make([]pair, m)
	i, j := m, n
	for i > 0 {
		switch {
		case j > 0 && dp[i][j] == dp[i-1][j-1]+phonics.Similarity(expected[i-1], spoken[j-1]):
			pairs[i-1] = pair{expected: expected[i-1], spoken: spoken[j-1]}
			i--
			j--
		case dp[i][j] == dp[i-1][j]:
			pairs[i-1] = pair{expected: expected[i-1]}
			i--
		default:
			j--
		}
	}
	return pairs
}
