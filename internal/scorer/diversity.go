package scorer

import "strings"

// Diversity scores how distinct a question is from every other question in
// its batch: one minus the strongest similarity observed. An empty
// comparison set means the question is trivially unique.
//
// Comparisons are O(len(others)) edit-distance ratios, O(n²) across a full
// batch. Batches are bounded (hundreds of pairs), so this stays cheap; a
// near-duplicate detector could replace it for much larger batches as long
// as the "distance to nearest neighbor, inverted" contract holds.
func Diversity(question string, others []string) float64 {
	if len(others) == 0 {
		return 1.0
	}

	q := strings.ToLower(strings.TrimSpace(question))

	maxSim := 0.0
	for _, other := range others {
		sim := similarityRatio(q, strings.ToLower(strings.TrimSpace(other)))
		if sim > maxSim {
			maxSim = sim
		}
	}

	return clamp01(1.0 - maxSim)
}

// similarityRatio is a normalized edit-distance similarity: 1 for identical
// strings, 0 for strings sharing nothing.
func similarityRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}

	ra := []rune(a)
	rb := []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1.0
	}

	dist := levenshtein(ra, rb)
	return 1.0 - float64(dist)/float64(longest)
}

// levenshtein computes edit distance with a two-row rolling table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
