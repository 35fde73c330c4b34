package flow

import (
	"github.com/ent0n29/aliya/internal/intent"
	"github.com/ent0n29/aliya/internal/topics"
)

const (
	// TopicComplete is the terminal sentinel for CurrentTopicIndex.
	TopicComplete = -1

	intentHistoryCap   = 5
	questionHistoryCap = 10
)

// Turn is one entry of the append-only memory log.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the flow-controller state of one interview. It is a plain
// serializable record: the host can persist and restore it independently of
// chat transcript storage. All mutation happens on the single logical thread
// that owns the interview.
type Session struct {
	CoveredTopics      []bool         `json:"covered_topics"`
	CurrentTopicIndex  int            `json:"current_topic_index"`
	SatisfactionScores []float64      `json:"satisfaction_scores"`
	IntentHistory      []intent.Label `json:"intent_history"`
	QuestionHistory    []string       `json:"assistant_question_history"`
	TurnCount          int            `json:"turn_count"`
	TopicTurns         []int          `json:"topic_turns"`
	MemoryLog          []Turn         `json:"memory_log"`
}

// NewSession returns the default-initialized state: topic 0 current, nothing
// covered, all scores zero. This is also the lazy-recovery path for a missing
// session (idempotent, not an error).
func NewSession() *Session {
	n := topics.Count()
	return &Session{
		CoveredTopics:      make([]bool, n),
		CurrentTopicIndex:  0,
		SatisfactionScores: make([]float64, n),
		TopicTurns:         make([]int, n),
	}
}

// Normalize repairs a session restored from storage so slice lengths always
// match the topic catalog. Extra entries are dropped, missing ones zeroed.
func (s *Session) Normalize() {
	n := topics.Count()
	s.CoveredTopics = resizeBools(s.CoveredTopics, n)
	s.SatisfactionScores = resizeFloats(s.SatisfactionScores, n)
	s.TopicTurns = resizeInts(s.TopicTurns, n)
	if s.CurrentTopicIndex != TopicComplete && (s.CurrentTopicIndex < 0 || s.CurrentTopicIndex >= n) {
		s.CurrentTopicIndex = 0
	}
	if len(s.IntentHistory) > intentHistoryCap {
		s.IntentHistory = s.IntentHistory[len(s.IntentHistory)-intentHistoryCap:]
	}
	if len(s.QuestionHistory) > questionHistoryCap {
		s.QuestionHistory = s.QuestionHistory[len(s.QuestionHistory)-questionHistoryCap:]
	}
}

// Complete reports whether the terminal state has been reached.
func (s *Session) Complete() bool {
	return s.CurrentTopicIndex == TopicComplete
}

// CurrentTopic returns the topic the interview is sitting on. In the terminal
// state it reports the last topic of the catalog, matching what callers see
// in progress output.
func (s *Session) CurrentTopic() topics.Topic {
	if s.Complete() {
		return topics.ByIndex(topics.Count() - 1)
	}
	return topics.ByIndex(s.CurrentTopicIndex)
}

// PushIntent appends to the bounded intent history (FIFO, capacity 5).
func (s *Session) PushIntent(label intent.Label) {
	s.IntentHistory = append(s.IntentHistory, label)
	if len(s.IntentHistory) > intentHistoryCap {
		s.IntentHistory = s.IntentHistory[1:]
	}
}

// PushQuestion appends to the bounded assistant-question history
// (FIFO, capacity 10, oldest evicted first).
func (s *Session) PushQuestion(question string) {
	s.QuestionHistory = append(s.QuestionHistory, question)
	if len(s.QuestionHistory) > questionHistoryCap {
		s.QuestionHistory = s.QuestionHistory[1:]
	}
}

// AppendMemory records one turn in the append-only memory log.
func (s *Session) AppendMemory(role, content string) {
	s.MemoryLog = append(s.MemoryLog, Turn{Role: role, Content: content})
}

// RecentMemory returns up to the last maxTurns memory entries in order.
func (s *Session) RecentMemory(maxTurns int) []Turn {
	if maxTurns <= 0 || len(s.MemoryLog) == 0 {
		return nil
	}
	if maxTurns > len(s.MemoryLog) {
		maxTurns = len(s.MemoryLog)
	}
	out := make([]Turn, maxTurns)
	copy(out, s.MemoryLog[len(s.MemoryLog)-maxTurns:])
	return out
}

func resizeBools(in []bool, n int) []bool {
	out := make([]bool, n)
	copy(out, in)
	return out
}

func resizeFloats(in []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, in)
	return out
}

func resizeInts(in []int, n int) []int {
	out := make([]int, n)
	copy(out, in)
	return out
}
