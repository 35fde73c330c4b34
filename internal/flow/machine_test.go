package flow

import (
	"testing"

	"github.com/ent0n29/aliya/internal/intent"
	"github.com/ent0n29/aliya/internal/topics"
)

func TestShouldAdvanceSkipBypassesThreshold(t *testing.T) {
	s := NewSession()
	topic := s.CurrentTopic()

	if !ShouldAdvance(s, intent.SkipMoveOn, topic, "skip this") {
		t.Fatalf("skip intent must advance regardless of satisfaction")
	}
	if !ShouldAdvance(s, intent.ChangingTopic, topic, "let's talk about something else") {
		t.Fatalf("topic-change intent must advance regardless of satisfaction")
	}
}

func TestShouldAdvanceWritesSatisfactionScore(t *testing.T) {
	s := NewSession()
	topic := s.CurrentTopic()

	advanced := ShouldAdvance(s, intent.AnsweringQuestion, topic, "we operate offices in two sectors")
	if advanced {
		t.Fatalf("low-satisfaction answer should not advance")
	}
	if s.SatisfactionScores[topic.Index] <= 0 {
		t.Fatalf("score was not recorded for topic %s", topic.ID)
	}
}

func TestAdvanceVisitsAllTopicsInOrder(t *testing.T) {
	s := NewSession()

	for i := 0; i < topics.Count()-1; i++ {
		next, ok := Advance(s)
		if !ok {
			t.Fatalf("Advance() reported completion after %d advances", i+1)
		}
		want := topics.ByIndex(i + 1)
		if next.ID != want.ID {
			t.Fatalf("advance %d moved to %s, want %s", i+1, next.ID, want.ID)
		}
		if !s.CoveredTopics[i] {
			t.Fatalf("topic %d not marked covered after advancing past it", i)
		}
	}

	// Last advance covers the final topic and reaches the terminal state.
	if _, ok := Advance(s); ok {
		t.Fatalf("final advance should report completion")
	}
	if !s.Complete() {
		t.Fatalf("session not complete after covering all topics")
	}
	for i, covered := range s.CoveredTopics {
		if !covered {
			t.Fatalf("topic %d left uncovered in terminal state", i)
		}
	}
}

func TestAdvanceIdempotentWhenComplete(t *testing.T) {
	s := NewSession()
	for s.CurrentTopicIndex != TopicComplete {
		Advance(s)
	}

	for i := 0; i < 3; i++ {
		if _, ok := Advance(s); ok {
			t.Fatalf("Advance() in terminal state must not report a new topic")
		}
		if s.CurrentTopicIndex != TopicComplete {
			t.Fatalf("terminal index mutated to %d", s.CurrentTopicIndex)
		}
	}
}

func TestAdvanceSkipsAlreadyCoveredTopics(t *testing.T) {
	s := NewSession()
	s.CoveredTopics[1] = true

	next, ok := Advance(s)
	if !ok {
		t.Fatalf("Advance() = complete, want next topic")
	}
	if next.Index != 2 {
		t.Fatalf("Advance() moved to index %d, want 2 (index 1 already covered)", next.Index)
	}
}
