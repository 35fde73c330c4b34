package intent

import (
	"context"
	"strings"
)

// shortAffirmations are checked before anything else so that confirmatory
// one-liners are never misread as research or topic-change requests.
var shortAffirmations = map[string]struct{}{
	"ok": {}, "okay": {}, "yes": {}, "sure": {}, "right": {}, "correct": {},
	"sounds good": {}, "that's right": {}, "good": {}, "fine": {},
	"alright": {}, "yep": {}, "yeah": {},
}

var researchWords = []string{"research", "find", "look", "search"}

// researchOverrideWords is the wider set used when second-guessing a
// probabilistic backend that predicted a research request for a short reply.
var researchOverrideWords = []string{"research", "find", "look", "search", "investigate"}

var (
	researchPhrases      = []string{"research for me", "research this", "research it", "find information", "look up"}
	skipPhrases          = []string{"skip this", "move on", "next topic", "skip topic", "next question"}
	topicChangePhrases   = []string{"let's talk about", "what about", "tell me about", "i want to discuss"}
	disagreementPhrases  = []string{"that's wrong", "not correct", "i disagree", "actually"}
	clarificationPhrases = []string{"what do you mean", "can you clarify", "explain", "i don't understand"}
)

// Classifier maps one utterance to one intent label. It is a pure function
// of the utterance and the (optional) backend selected at startup; backend
// absence or failure degrades silently to the phrase cascade.
type Classifier struct {
	backend Backend
}

func NewClassifier(backend Backend) *Classifier {
	return &Classifier{backend: backend}
}

func (c *Classifier) Classify(ctx context.Context, utterance string) Label {
	normalized := strings.ToLower(strings.TrimSpace(utterance))
	words := strings.Fields(utterance)

	if _, ok := shortAffirmations[normalized]; ok {
		return AnsweringQuestion
	}

	// Very short replies are answers unless they explicitly mention research.
	if len(words) <= 2 && !containsAny(normalized, researchWords) {
		return AnsweringQuestion
	}

	if c.backend != nil {
		if label, err := c.backend.Predict(ctx, utterance, Labels()); err == nil {
			// Precision guard: probabilistic backends over-trigger research
			// on short replies, which would derail the interview.
			if label == RequestingResearch && len(words) <= 3 &&
				!containsAny(normalized, researchOverrideWords) {
				return AnsweringQuestion
			}
			return label
		}
		// Backend errors fall through to the phrase cascade.
	}

	switch {
	case containsAny(normalized, researchPhrases):
		return RequestingResearch
	case containsAny(normalized, skipPhrases):
		return SkipMoveOn
	case containsAny(normalized, topicChangePhrases):
		return ChangingTopic
	case containsAny(normalized, disagreementPhrases):
		return RejectingRepetition
	case containsAny(normalized, clarificationPhrases):
		return AskingClarification
	}

	if len(words) > 3 && !strings.HasSuffix(strings.TrimSpace(utterance), "?") {
		return ProvidingPartialInfo
	}

	return AnsweringQuestion
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
