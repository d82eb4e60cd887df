package cmd

import (
	"strings"

	"github.com/paddle-billing/paddle-cli/internal/resolve"
)

// maxSuggestDistance is the largest edit distance still offered as a typo fix.
const maxSuggestDistance = 3

// levenshtein computes the edit distance between a and b with two rows.
func levenshtein(a, b string) int {
	if a == "" {
		return len(b)
	}
	if b == "" {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// closest returns the candidate nearest to input by edit distance, falling
// back to a fuzzy subsequence match for abbreviations like "prod".
func closest(input string, candidates []string, key func(string) string) string {
	input = strings.ToLower(key(input))
	if input == "" {
		return ""
	}
	best, bestDist := "", maxSuggestDistance+1
	keys := make([]string, len(candidates))
	for i, c := range candidates {
		keys[i] = strings.ToLower(key(c))
		if d := levenshtein(input, keys[i]); d < bestDist {
			best, bestDist = c, d
		}
	}
	if best != "" {
		return best
	}
	if match := resolve.Suggest(input, keys); match != "" {
		for i, k := range keys {
			if k == match {
				return candidates[i]
			}
		}
	}
	return ""
}

// suggestCommand finds the closest command name to the unknown input.
func suggestCommand(unknown string, commands []string) string {
	return closest(unknown, commands, func(s string) string { return s })
}

// suggestFlag finds the closest flag to the unknown input, comparing names
// without dashes but returning the match with its prefix.
func suggestFlag(unknown string, flags []string) string {
	return closest(unknown, flags, func(s string) string { return strings.TrimLeft(s, "-") })
}
