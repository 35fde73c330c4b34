package flow

import (
	"testing"

	"github.com/ent0n29/aliya/internal/intent"
	"github.com/ent0n29/aliya/internal/topics"
)

func TestProgressFreshSession(t *testing.T) {
	report := Progress(NewSession())

	if report.CoveredCount != 0 || report.Total != topics.Count() {
		t.Fatalf("covered %d/%d, want 0/%d", report.CoveredCount, report.Total, topics.Count())
	}
	if report.ProgressPercentage != 0 {
		t.Fatalf("ProgressPercentage = %v, want 0", report.ProgressPercentage)
	}
	if report.CurrentTopicID != topics.BusinessOverview {
		t.Fatalf("CurrentTopicID = %s, want %s", report.CurrentTopicID, topics.BusinessOverview)
	}
	if report.IsComplete {
		t.Fatalf("fresh session reported complete")
	}
	if len(report.Topics) != topics.Count() {
		t.Fatalf("breakdown len = %d, want %d", len(report.Topics), topics.Count())
	}
	if report.Topics[0].Status != TopicCurrent {
		t.Fatalf("first topic status = %s, want %s", report.Topics[0].Status, TopicCurrent)
	}
	if report.Topics[1].Status != TopicPending {
		t.Fatalf("second topic status = %s, want %s", report.Topics[1].Status, TopicPending)
	}
}

func TestProgressAfterAdvances(t *testing.T) {
	s := NewSession()
	s.SatisfactionScores[0] = 0.9
	Advance(s)
	s.SatisfactionScores[1] = 0.7
	Advance(s)
	s.TurnCount = 6

	report := Progress(s)
	if report.CoveredCount != 2 {
		t.Fatalf("CoveredCount = %d, want 2", report.CoveredCount)
	}
	if report.Topics[0].Status != TopicCovered || report.Topics[1].Status != TopicCovered {
		t.Fatalf("covered topics not reported covered: %+v", report.Topics[:3])
	}
	if report.Topics[2].Status != TopicCurrent {
		t.Fatalf("topic 2 status = %s, want %s", report.Topics[2].Status, TopicCurrent)
	}
	if report.TurnCount != 6 {
		t.Fatalf("TurnCount = %d, want 6", report.TurnCount)
	}
	wantPct := float64(2) / float64(topics.Count()) * 100
	if report.ProgressPercentage != wantPct {
		t.Fatalf("ProgressPercentage = %v, want %v", report.ProgressPercentage, wantPct)
	}
}

func TestProgressCompleteSession(t *testing.T) {
	s := NewSession()
	for !s.Complete() {
		Advance(s)
	}

	report := Progress(s)
	if !report.IsComplete {
		t.Fatalf("terminal session not reported complete")
	}
	if report.ProgressPercentage != 100 {
		t.Fatalf("ProgressPercentage = %v, want 100", report.ProgressPercentage)
	}
}

func TestFollowUpSuggested(t *testing.T) {
	s := NewSession()
	s.SatisfactionScores[0] = 0.2
	s.PushIntent(intent.ProvidingPartialInfo)
	s.PushIntent(intent.AnsweringQuestion)
	if FollowUpSuggested(s) {
		t.Fatalf("one partial in last three should not suggest follow-up")
	}

	s.PushIntent(intent.ProvidingPartialInfo)
	if !FollowUpSuggested(s) {
		t.Fatalf("low satisfaction with repeated partial info should suggest follow-up")
	}

	s.SatisfactionScores[0] = 0.6
	if FollowUpSuggested(s) {
		t.Fatalf("satisfaction above threshold should suppress follow-up")
	}
}

func TestFollowUpSuggestedConsidersLastThreeOnly(t *testing.T) {
	s := NewSession()
	s.SatisfactionScores[0] = 0.1
	s.PushIntent(intent.ProvidingPartialInfo)
	s.PushIntent(intent.ProvidingPartialInfo)
	s.PushIntent(intent.AnsweringQuestion)
	s.PushIntent(intent.AnsweringQuestion)
	s.PushIntent(intent.AnsweringQuestion)
	if FollowUpSuggested(s) {
		t.Fatalf("partials outside the last three intents must not count")
	}
}

func TestTranscriptRendering(t *testing.T) {
	s := NewSession()
	s.AppendMemory("user", "hello there")
	s.AppendMemory("assistant", "tell me about the business")

	got := Transcript(s, 5)
	want := "User: hello there\nAI: tell me about the business"
	if got != want {
		t.Fatalf("Transcript() = %q, want %q", got, want)
	}
}

func TestTranscriptTruncatesLongTurns(t *testing.T) {
	long := make([]rune, 250)
	for i := range long {
		long[i] = 'a'
	}
	s := NewSession()
	s.AppendMemory("user", string(long))

	got := Transcript(s, 1)
	want := "User: " + string(long[:200]) + "..."
	if got != want {
		t.Fatalf("long turn not truncated to 200 runes: len=%d", len(got))
	}
}

func TestTranscriptEmptySession(t *testing.T) {
	if got := Transcript(NewSession(), 3); got != "" {
		t.Fatalf("Transcript(empty) = %q, want empty", got)
	}
}
