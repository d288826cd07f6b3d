package usecase

import (
	"regexp"
	"sort"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	punctuationRegex    = regexp.MustCompile(`[^\w\s]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// stopWords are filler words stripped before similarity scoring
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "as": true, "is": true,
	"was": true, "are": true, "be": true, "de": true, "da": true, "do": true,
	"para": true, "com": true,
}

// normalizeText lowercases, strips punctuation, collapses whitespace and
// drops stop words. Empty input yields empty output.
func normalizeText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = punctuationRegex.ReplaceAllString(s, " ")
	s = multipleSpacesRegex.ReplaceAllString(s, " ")

	words := strings.Fields(s)
	kept := words[:0]
	for _, w := range words {
		if !stopWords[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// jaccardSimilarity computes word-set similarity between two titles:
// |intersection| / |union| over case-folded whitespace tokens. Returns 0
// when either side has no words. Symmetric, and 1 for identical non-empty
// input.
func jaccardSimilarity(a, b string) float64 {
	wordsA := strings.Fields(strings.ToLower(a))
	wordsB := strings.Fields(strings.ToLower(b))
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(wordsA))
	for _, w := range wordsA {
		setA[w] = true
	}
	union := make(map[string]bool, len(wordsA)+len(wordsB))
	for w := range setA {
		union[w] = true
	}
	intersection := 0
	seen := make(map[string]bool)
	for _, w := range wordsB {
		union[w] = true
		if setA[w] && !seen[w] {
			intersection++
			seen[w] = true
		}
	}
	return float64(intersection) / float64(len(union))
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Use two rows instead of full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

// ratio is a percentage similarity between two strings based on edit
// distance: 100 for identical strings, 0 when either is empty.
func ratio(s1, s2 string) float64 {
	if s1 == s2 {
		if s1 == "" {
			return 0
		}
		return 100
	}
	if len(s1) == 0 || len(s2) == 0 {
		return 0
	}
	longest := len([]rune(s1))
	if l2 := len([]rune(s2)); l2 > longest {
		longest = l2
	}
	dist := levenshteinDistance(s1, s2)
	return 100 * (1 - float64(dist)/float64(longest))
}

// tokenSortRatio compares the two strings with their words sorted, which
// makes the score order-insensitive ("pro iphone 15" vs "iphone 15 pro").
func tokenSortRatio(s1, s2 string) float64 {
	return ratio(sortedTokens(s1), sortedTokens(s2))
}

// tokenSetRatio scores the sorted token intersection against each full
// token set and takes the best, so extra words on one side hurt less.
func tokenSetRatio(s1, s2 string) float64 {
	t1 := strings.Fields(s1)
	t2 := strings.Fields(s2)
	if len(t1) == 0 || len(t2) == 0 {
		return 0
	}

	set1 := make(map[string]bool, len(t1))
	for _, t := range t1 {
		set1[t] = true
	}
	set2 := make(map[string]bool, len(t2))
	for _, t := range t2 {
		set2[t] = true
	}

	var inter, diff1, diff2 []string
	for t := range set1 {
		if set2[t] {
			inter = append(inter, t)
		} else {
			diff1 = append(diff1, t)
		}
	}
	for t := range set2 {
		if !set1[t] {
			diff2 = append(diff2, t)
		}
	}
	sort.Strings(inter)
	sort.Strings(diff1)
	sort.Strings(diff2)

	base := strings.Join(inter, " ")
	full1 := strings.TrimSpace(base + " " + strings.Join(diff1, " "))
	full2 := strings.TrimSpace(base + " " + strings.Join(diff2, " "))

	best := ratio(base, full1)
	if r := ratio(base, full2); r > best {
		best = r
	}
	if r := ratio(full1, full2); r > best {
		best = r
	}
	return best
}

// partialRatio slides the shorter string across the longer one and returns
// the best window score, rewarding substring-style matches.
func partialRatio(s1, s2 string) float64 {
	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) == 0 || len(r2) == 0 {
		return 0
	}
	short, long := r1, r2
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == len(long) {
		return ratio(string(short), string(long))
	}

	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		window := string(long[i : i+len(short)])
		if r := ratio(string(short), window); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
