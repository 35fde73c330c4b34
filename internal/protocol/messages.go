package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeUserTurn          MessageType = "user_turn"
	TypeAssistantQuestion MessageType = "assistant_question"
	TypeDecision          MessageType = "decision"
	TypeQuestionAdvisory  MessageType = "question_advisory"
	TypeProgress          MessageType = "progress"
	TypeErrorEvent        MessageType = "error_event"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// UserTurn carries one user utterance to be run through the flow controller.
type UserTurn struct {
	Type        MessageType `json:"type"`
	InterviewID string      `json:"interview_id"`
	Text        string      `json:"text"`
}

// AssistantQuestion registers a candidate assistant question for the
// repetition guard before it is asked.
type AssistantQuestion struct {
	Type        MessageType `json:"type"`
	InterviewID string      `json:"interview_id"`
	Text        string      `json:"text"`
}

// DecisionEvent wraps the per-turn decision record for the wire.
type DecisionEvent struct {
	Type        MessageType `json:"type"`
	InterviewID string      `json:"interview_id"`
	Decision    any         `json:"decision"`
}

// QuestionAdvisory reports whether a registered question duplicated a
// recent one.
type QuestionAdvisory struct {
	Type        MessageType `json:"type"`
	InterviewID string      `json:"interview_id"`
	Duplicate   bool        `json:"duplicate"`
}

// ProgressEvent wraps the progress report for the wire.
type ProgressEvent struct {
	Type        MessageType `json:"type"`
	InterviewID string      `json:"interview_id"`
	Progress    any         `json:"progress"`
}

type ErrorEvent struct {
	Type        MessageType `json:"type"`
	InterviewID string      `json:"interview_id"`
	Code        string      `json:"code"`
	Detail      string      `json:"detail"`
}

// ParseClientMessage decodes and validates an inbound websocket payload.
func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeUserTurn:
		var msg UserTurn
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.InterviewID == "" || msg.Text == "" {
			return nil, errors.New("invalid user_turn")
		}
		return msg, nil
	case TypeAssistantQuestion:
		var msg AssistantQuestion
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.InterviewID == "" || msg.Text == "" {
			return nil, errors.New("invalid assistant_question")
		}
		return msg, nil
	default:
		return nil, ErrUnsupportedType
	}
}
