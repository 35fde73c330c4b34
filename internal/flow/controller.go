package flow

import (
	"context"

	"github.com/ent0n29/aliya/internal/intent"
	"github.com/ent0n29/aliya/internal/topics"
)

// Action tells the host how to proceed after one user turn.
type Action string

const (
	ActionContinueNormalFlow    Action = "continue_normal_flow"
	ActionTriggerResearch       Action = "trigger_research"
	ActionAdvanceTopic          Action = "advance_topic"
	ActionAutoAdvanceTopic      Action = "auto_advance_topic"
	ActionTriggerJSONGeneration Action = "trigger_json_generation"
)

// Decision is the single record returned to the caller per turn.
type Decision struct {
	Action            Action       `json:"action"`
	ShouldAdvance     bool         `json:"should_advance"`
	Intent            intent.Label `json:"intent"`
	Satisfaction      float64      `json:"satisfaction"`
	NextTopic         topics.ID    `json:"next_topic,omitempty"`
	BridgeMessage     string       `json:"bridge_message,omitempty"`
	PreventRepetition bool         `json:"prevent_repetition"`
	FollowUpSuggested bool         `json:"follow_up_suggested"`
}

// Composer produces transition text when the topic changes. It must always
// return a usable string.
type Composer interface {
	Compose(ctx context.Context, from, to topics.ID, recent []Turn) string
}

// ProgressAnalyzer supplies the topic to score the current turn against.
// The controller trusts its answer. A nil analyzer means the session's own
// topic index is authoritative.
type ProgressAnalyzer interface {
	AnalyzeProgress(messages []Turn) (topics.ID, int)
}

// Controller drives the per-turn topic-coverage flow. It owns no session
// state itself: each call operates on an explicitly passed Session, so one
// controller serves any number of interviews.
type Controller struct {
	classifier      *intent.Classifier
	composer        Composer
	analyzer        ProgressAnalyzer
	minTurnsOnTopic int
}

func NewController(classifier *intent.Classifier, composer Composer, analyzer ProgressAnalyzer, minTurnsOnTopic int) *Controller {
	if minTurnsOnTopic <= 0 {
		minTurnsOnTopic = 2
	}
	return &Controller{
		classifier:      classifier,
		composer:        composer,
		analyzer:        analyzer,
		minTurnsOnTopic: minTurnsOnTopic,
	}
}

// ProcessTurn classifies the utterance, scores topic satisfaction, applies
// the advancement rule and returns the decision record. The session is
// mutated in place; the caller owns its locking.
func (c *Controller) ProcessTurn(ctx context.Context, s *Session, utterance string) Decision {
	s.AppendMemory("user", utterance)

	label := c.classifier.Classify(ctx, utterance)
	s.PushIntent(label)

	topic := c.currentTopic(s)
	score := Score(topic, utterance)
	if !s.Complete() {
		s.SatisfactionScores[s.CurrentTopicIndex] = score
	}

	decision := Decision{
		Action:            ActionContinueNormalFlow,
		Intent:            label,
		Satisfaction:      score,
		PreventRepetition: true,
	}

	// Research requests short-circuit the flow entirely: no advancement is
	// attempted and the turn is not counted against the topic.
	if label == intent.RequestingResearch {
		decision.Action = ActionTriggerResearch
		decision.FollowUpSuggested = FollowUpSuggested(s)
		return decision
	}

	s.TurnCount++
	if !s.Complete() {
		s.TopicTurns[s.CurrentTopicIndex]++
	}

	switch {
	case label == intent.SkipMoveOn || label == intent.ChangingTopic:
		if ShouldAdvance(s, label, topic, utterance) {
			from := topic.ID
			if next, ok := Advance(s); ok {
				decision.Action = ActionAdvanceTopic
				decision.ShouldAdvance = true
				decision.NextTopic = next.ID
				decision.BridgeMessage = c.compose(ctx, s, from, next.ID)
			} else {
				decision.Action = ActionTriggerJSONGeneration
			}
		}

	case score >= advanceThreshold && label == intent.AnsweringQuestion:
		if !s.Complete() && s.TopicTurns[s.CurrentTopicIndex] >= c.minTurnsOnTopic {
			from := topic.ID
			if next, ok := Advance(s); ok {
				decision.Action = ActionAutoAdvanceTopic
				decision.ShouldAdvance = true
				decision.NextTopic = next.ID
				decision.BridgeMessage = "Excellent information on " + topics.DisplayName(from) + "! " +
					c.compose(ctx, s, from, next.ID)
			}
		}
	}

	decision.FollowUpSuggested = FollowUpSuggested(s)
	return decision
}

// RegisterQuestion records an assistant question in the bounded history and
// the memory log, reporting whether it is a near-duplicate of a recent one.
// The advisory result is computed before the question is recorded, so a
// question never matches itself.
func (c *Controller) RegisterQuestion(s *Session, question string) (duplicate bool) {
	duplicate = SimilarToRecent(question, s.QuestionHistory)
	s.PushQuestion(question)
	s.AppendMemory("assistant", question)
	return duplicate
}

func (c *Controller) currentTopic(s *Session) topics.Topic {
	if c.analyzer != nil {
		if id, _ := c.analyzer.AnalyzeProgress(s.MemoryLog); id != "" {
			if t, ok := topics.Lookup(id); ok {
				return t
			}
		}
	}
	return s.CurrentTopic()
}

func (c *Controller) compose(ctx context.Context, s *Session, from, to topics.ID) string {
	if c.composer == nil {
		return ""
	}
	return c.composer.Compose(ctx, from, to, s.RecentMemory(3))
}
