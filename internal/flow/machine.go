package flow

import (
	"github.com/ent0n29/aliya/internal/intent"
	"github.com/ent0n29/aliya/internal/topics"
)

// advanceThreshold: satisfaction at or above this advances the topic even
// without an explicit skip request.
const advanceThreshold = 0.8

// ShouldAdvance applies the topic-advancement rule. Skip and topic-change
// intents bypass the satisfaction threshold entirely; otherwise the utterance
// is scored against the topic and the score is written into the session.
func ShouldAdvance(s *Session, label intent.Label, topic topics.Topic, utterance string) bool {
	if label == intent.SkipMoveOn || label == intent.ChangingTopic {
		return true
	}

	score := Score(topic, utterance)
	if topic.Index >= 0 && topic.Index < len(s.SatisfactionScores) {
		s.SatisfactionScores[topic.Index] = score
	}
	return score >= advanceThreshold
}

// Advance marks the current topic covered and moves to the next uncovered
// topic in index order. It returns the new topic and ok=true, or ok=false
// once every topic is covered. Calling Advance in the terminal state is a
// no-op that reports completion again.
func Advance(s *Session) (topics.Topic, bool) {
	if s.Complete() {
		return topics.Topic{}, false
	}

	s.CoveredTopics[s.CurrentTopicIndex] = true

	for i := s.CurrentTopicIndex + 1; i < topics.Count(); i++ {
		if !s.CoveredTopics[i] {
			s.CurrentTopicIndex = i
			return topics.ByIndex(i), true
		}
	}

	s.CurrentTopicIndex = TopicComplete
	return topics.Topic{}, false
}
