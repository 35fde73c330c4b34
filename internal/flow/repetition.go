package flow

import (
	"regexp"
	"strings"
)

// similarityThreshold: above this Jaccard overlap a candidate question is
// treated as a near-duplicate of a recent one.
const similarityThreshold = 0.7

var alnumRunPattern = regexp.MustCompile(`[a-z0-9]+`)

// SimilarToRecent reports whether candidate is a near-duplicate of any entry
// in the recent question history, using Jaccard similarity over word 3-grams.
// The decision to actually suppress the question belongs to the caller.
func SimilarToRecent(candidate string, history []string) bool {
	if len(history) == 0 {
		return false
	}

	candidateGrams := ngramSet(canonicalize(candidate), 3)
	for _, prev := range history {
		prevGrams := ngramSet(canonicalize(prev), 3)
		if jaccard(candidateGrams, prevGrams) > similarityThreshold {
			return true
		}
	}
	return false
}

// canonicalize lowercases and keeps only maximal alphanumeric runs joined by
// single spaces. Punctuation and casing are discarded entirely, so "Next?"
// and "next" compare equal.
func canonicalize(text string) string {
	runs := alnumRunPattern.FindAllString(strings.ToLower(text), -1)
	return strings.Join(runs, " ")
}

// ngramSet builds the set of contiguous n-token windows. Texts shorter than
// n tokens contribute themselves as a single gram.
func ngramSet(text string, n int) map[string]struct{} {
	set := make(map[string]struct{})
	words := strings.Fields(text)
	if len(words) < n {
		if text != "" {
			set[text] = struct{}{}
		}
		return set
	}
	for i := 0; i+n <= len(words); i++ {
		set[strings.Join(words[i:i+n], " ")] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for g := range a {
		if _, ok := b[g]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
