package expression

// Ratio returns the similarity of a and b on a 0-100 scale, derived from the
// insertion/deletion edit distance over runes: 100 * (len(a)+len(b)-distance) / (len(a)+len(b)).
// Identical strings, including two empty strings, score 100.
func Ratio(a, b string) float64 {
	if a == b {
		return 100
	}

	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}

	// indel distance = total - 2*LCS
	lcs := longestCommonSubsequence(ra, rb)
	return 100 * float64(2*lcs) / float64(total)
}

// longestCommonSubsequence keeps two DP rows sized to the shorter input.
func longestCommonSubsequence(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
