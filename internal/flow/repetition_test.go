package flow

import "testing"

func TestSimilarToRecentIdenticalQuestion(t *testing.T) {
	history := []string{"Can you walk me through your revenue growth over the last three years?"}
	if !SimilarToRecent("Can you walk me through your revenue growth over the last three years?", history) {
		t.Fatalf("identical question should be flagged as similar")
	}
}

func TestSimilarToRecentPunctuationAndCaseInsensitive(t *testing.T) {
	history := []string{"what is your EBITDA margin profile today"}
	if !SimilarToRecent("What is your ebitda margin profile today???", history) {
		t.Fatalf("punctuation and casing should not defeat the similarity check")
	}
}

func TestSimilarToRecentDistinctQuestions(t *testing.T) {
	history := []string{
		"Tell me about your management team and their backgrounds.",
		"Who are your main competitors in the region?",
	}
	if SimilarToRecent("What does your five year growth plan look like?", history) {
		t.Fatalf("unrelated question flagged as similar")
	}
}

func TestSimilarToRecentEmptyHistory(t *testing.T) {
	if SimilarToRecent("Anything at all?", nil) {
		t.Fatalf("empty history can never produce a match")
	}
}

func TestSimilarToRecentShortTextsCompareWhole(t *testing.T) {
	// Under three tokens the whole canonical string is the single gram.
	if !SimilarToRecent("Next?", []string{"next"}) {
		t.Fatalf("short identical texts should match as single grams")
	}
	if SimilarToRecent("Next?", []string{"previous"}) {
		t.Fatalf("short distinct texts should not match")
	}
}

func TestSimilarToRecentEmptyStrings(t *testing.T) {
	if SimilarToRecent("", []string{""}) {
		t.Fatalf("two empty texts share no grams and must not match")
	}
}

func TestJaccardDisjointAndOverlap(t *testing.T) {
	a := ngramSet("alpha beta gamma delta", 3)
	b := ngramSet("epsilon zeta eta theta", 3)
	if got := jaccard(a, b); got != 0 {
		t.Fatalf("jaccard(disjoint) = %v, want 0", got)
	}
	if got := jaccard(a, a); got != 1 {
		t.Fatalf("jaccard(self) = %v, want 1", got)
	}
}
