// Package suggest offers "did you mean" candidates for mistyped setting
// keys and template names using Levenshtein distance.
package suggest

import (
	"sort"
	"strings"
)

// levenshtein calculates the edit distance between two strings
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// Closest returns up to three candidates similar to unknown, best first.
// Comparison is case-insensitive; a candidate qualifies when it is within
// three edits or half the length of unknown.
func Closest(unknown string, candidates []string) []string {
	unknown = strings.ToLower(strings.TrimSpace(unknown))
	if unknown == "" {
		return nil
	}

	type scored struct {
		value string
		score int
	}
	var matches []scored

	maxDist := max(3, len(unknown)/2)
	for _, c := range candidates {
		dist := levenshtein(unknown, strings.ToLower(c))
		if dist <= maxDist {
			matches = append(matches, scored{c, dist})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score < matches[j].score
	})

	var result []string
	for i := 0; i < len(matches) && i < 3; i++ {
		result = append(result, matches[i].value)
	}
	return result
}

// Hint formats suggestions as a trailing sentence, or "" when there are none
func Hint(suggestions []string) string {
	switch len(suggestions) {
	case 0:
		return ""
	case 1:
		return "Did you mean " + suggestions[0] + "?"
	}
	return "Did you mean one of: " + strings.Join(suggestions, ", ") + "?"
}
