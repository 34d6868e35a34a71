// Package similarity scores identifier closeness for the fuzzy matcher.
// All scores are percentages 0-100; degenerate inputs score 0 instead of
// erroring so a bad pair never aborts a run
package similarity

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Distance returns the Levenshtein edit distance between a and b in runes
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// Ratio returns the normalized edit-distance similarity between a and b.
// 100 means identical, 0 means nothing in common or an empty input
func Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	d := Distance(a, b)
	if d >= longest {
		return 0
	}
	return int(float64(longest-d)/float64(longest)*100 + 0.5)
}

// TokenSetRatio compares the alphanumeric token sets of a and b
// (Dice coefficient over unique tokens), 0-100
func TokenSetRatio(a, b string) int {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			inter++
		}
	}
	return int(float64(2*inter)/float64(len(ta)+len(tb))*100 + 0.5)
}

// CommonCharShare returns the fraction [0,1] of characters the two
// identifiers share, counted as a multiset intersection over the shorter
// input. Guards against degenerate high-similarity short strings
func CommonCharShare(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	counts := make(map[rune]int, len(ra))
	for _, r := range ra {
		counts[r]++
	}
	inter := 0
	for _, r := range rb {
		if counts[r] > 0 {
			counts[r]--
			inter++
		}
	}
	shorter := len(ra)
	if len(rb) < shorter {
		shorter = len(rb)
	}
	return float64(inter) / float64(shorter)
}

// tokenSet splits s on non-alphanumeric runes and lowercases the tokens
func tokenSet(s string) map[string]struct{} {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		out[strings.ToLower(f)] = struct{}{}
	}
	return out
}
