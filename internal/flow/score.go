package flow

import (
	"strings"

	"github.com/ent0n29/aliya/internal/topics"
)

const (
	longAnswerWords  = 15
	shortAnswerWords = 5
	longAnswerBoost  = 0.2
	shortAnswerScale = 0.6
)

// Score estimates how completely an utterance addressed a topic, in [0,1].
// Topics without a registered hint set score a neutral 0.5 rather than
// failing. Pure function: the caller decides where the value is stored.
func Score(topic topics.Topic, utterance string) float64 {
	if len(topic.Hints) == 0 {
		return 0.5
	}

	lower := strings.ToLower(utterance)
	matches := 0
	for _, hint := range topic.Hints {
		if strings.Contains(lower, hint) {
			matches++
		}
	}

	score := float64(matches) / float64(len(topic.Hints))
	if score > 1.0 {
		score = 1.0
	}

	words := len(strings.Fields(utterance))
	if words > longAnswerWords {
		score += longAnswerBoost
		if score > 1.0 {
			score = 1.0
		}
	}
	if words < shortAnswerWords {
		score *= shortAnswerScale
	}
	return score
}
