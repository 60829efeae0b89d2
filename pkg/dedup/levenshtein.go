// pkg/dedup/levenshtein.go
package dedup

// Levenshtein returns the edit distance between a and b using the standard
// dynamic-programming recurrence with a single rolling row, so space is
// O(min(len(a), len(b))). Distance is symmetric and zero iff a == b.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i, ca := range ra {
		curr := i + 1
		diag := prev[0]
		prev[0] = curr
		for j, cb := range rb {
			cost := 0
			if ca != cb {
				cost = 1
			}
			next := min(prev[j+1]+1, curr+1, diag+cost)
			diag = prev[j+1]
			prev[j+1] = next
			curr = next
		}
	}
	return prev[len(rb)]
}

// Similarity maps edit distance to a [0, 1] score: 1.0 means identical,
// 0.0 means nothing in common.
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(Levenshtein(a, b))/float64(maxLen)
}
