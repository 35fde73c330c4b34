package flow

import (
	"github.com/ent0n29/aliya/internal/intent"
	"github.com/ent0n29/aliya/internal/topics"
)

// TopicStatus labels one topic's standing in the progress breakdown.
type TopicStatus string

const (
	TopicCovered TopicStatus = "covered"
	TopicCurrent TopicStatus = "current"
	TopicPending TopicStatus = "pending"
)

// TopicProgress is one row of the per-topic breakdown.
type TopicProgress struct {
	ID           topics.ID   `json:"id"`
	Status       TopicStatus `json:"status"`
	Satisfaction float64     `json:"satisfaction"`
}

// Report is the read-only progress derivation for display.
type Report struct {
	CoveredCount        int             `json:"covered_count"`
	Total               int             `json:"total"`
	CurrentTopicID      topics.ID       `json:"current_topic_id"`
	ProgressPercentage  float64         `json:"progress_percentage"`
	AverageSatisfaction float64         `json:"average_satisfaction"`
	IsComplete          bool            `json:"is_complete"`
	TurnCount           int             `json:"turn_count"`
	Topics              []TopicProgress `json:"topics"`
}

// Progress derives a Report from the session. No side effects.
func Progress(s *Session) Report {
	n := topics.Count()

	covered := 0
	for _, c := range s.CoveredTopics {
		if c {
			covered++
		}
	}

	sum := 0.0
	for _, v := range s.SatisfactionScores {
		sum += v
	}
	avg := 0.0
	if len(s.SatisfactionScores) > 0 {
		avg = sum / float64(len(s.SatisfactionScores))
	}

	breakdown := make([]TopicProgress, 0, n)
	for _, t := range topics.All() {
		status := TopicPending
		switch {
		case s.CoveredTopics[t.Index]:
			status = TopicCovered
		case !s.Complete() && t.Index == s.CurrentTopicIndex:
			status = TopicCurrent
		}
		breakdown = append(breakdown, TopicProgress{
			ID:           t.ID,
			Status:       status,
			Satisfaction: s.SatisfactionScores[t.Index],
		})
	}

	return Report{
		CoveredCount:        covered,
		Total:               n,
		CurrentTopicID:      s.CurrentTopic().ID,
		ProgressPercentage:  float64(covered) / float64(n) * 100,
		AverageSatisfaction: avg,
		IsComplete:          covered == n,
		TurnCount:           s.TurnCount,
		Topics:              breakdown,
	}
}

// FollowUpSuggested reports whether the controller should recommend a
// contextual follow-up question: low satisfaction on the current topic while
// the user keeps supplying partial information.
func FollowUpSuggested(s *Session) bool {
	if s.Complete() {
		return false
	}
	if s.SatisfactionScores[s.CurrentTopicIndex] >= 0.4 {
		return false
	}

	recent := s.IntentHistory
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	partial := 0
	for _, label := range recent {
		if label == intent.ProvidingPartialInfo {
			partial++
		}
	}
	return partial >= 2
}
