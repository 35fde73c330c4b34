package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ent0n29/aliya/internal/flow"
	"github.com/ent0n29/aliya/internal/protocol"
)

// handleInterviewWS streams turn decisions over a websocket. Writes stay
// single-threaded through the outbound channel; saturated clients get
// messages dropped rather than blocking turn processing.
func (s *Server) handleInterviewWS(w http.ResponseWriter, r *http.Request) {
	interviewID := strings.TrimSpace(r.URL.Query().Get("interview_id"))
	if interviewID == "" {
		respondError(w, http.StatusBadRequest, "missing_interview_id", "query parameter interview_id is required")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.metrics.InterviewEvents.WithLabelValues("ws_connected").Inc()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	outbound := make(chan any, 64)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-outbound:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(msg); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	send := func(msg any) {
		select {
		case outbound <- msg:
		default:
			// Drop rather than stall the turn loop on a slow client.
		}
	}

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}

		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			send(protocol.ErrorEvent{
				Type:        protocol.TypeErrorEvent,
				InterviewID: interviewID,
				Code:        "invalid_client_message",
				Detail:      err.Error(),
			})
			continue
		}

		switch msg := parsed.(type) {
		case protocol.UserTurn:
			decision := s.processTurn(ctx, msg.InterviewID, msg.Text)
			send(protocol.DecisionEvent{
				Type:        protocol.TypeDecision,
				InterviewID: msg.InterviewID,
				Decision:    decision,
			})
			if decision.Action == flow.ActionAdvanceTopic || decision.Action == flow.ActionAutoAdvanceTopic ||
				decision.Action == flow.ActionTriggerJSONGeneration {
				send(s.progressEvent(msg.InterviewID))
			}
		case protocol.AssistantQuestion:
			duplicate := s.registerQuestion(ctx, msg.InterviewID, msg.Text)
			send(protocol.QuestionAdvisory{
				Type:        protocol.TypeQuestionAdvisory,
				InterviewID: msg.InterviewID,
				Duplicate:   duplicate,
			})
		}

		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	}

	cancel()
	<-writerDone
	s.metrics.InterviewEvents.WithLabelValues("ws_disconnected").Inc()
}

func (s *Server) progressEvent(interviewID string) protocol.ProgressEvent {
	ev := protocol.ProgressEvent{
		Type:        protocol.TypeProgress,
		InterviewID: interviewID,
	}
	iv, err := s.registry.Get(interviewID)
	if err != nil {
		return ev
	}
	iv.Do(func(fs *flow.Session) {
		ev.Progress = flow.Progress(fs)
	})
	return ev
}
