package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ent0n29/aliya/internal/flow"
	"github.com/ent0n29/aliya/internal/interviews"
	"github.com/ent0n29/aliya/internal/memory"
	"github.com/ent0n29/aliya/internal/policy"
)

const persistTimeout = 2 * time.Second

type createInterviewRequest struct {
	UserID string `json:"user_id"`
}

type createInterviewResponse struct {
	InterviewID     string            `json:"interview_id"`
	UserID          string            `json:"user_id"`
	Status          interviews.Status `json:"status"`
	StartedAt       time.Time         `json:"started_at"`
	InactivityTTLMS int64             `json:"inactivity_ttl_ms"`
}

type turnRequest struct {
	Text string `json:"text"`
}

type questionRequest struct {
	Text string `json:"text"`
}

type questionResponse struct {
	Duplicate bool `json:"duplicate"`
}

func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	var req createInterviewRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		req.UserID = "anonymous"
	}

	iv := s.registry.Create(req.UserID)
	s.metrics.ActiveInterviews.Set(float64(s.registry.ActiveCount()))
	s.metrics.InterviewEvents.WithLabelValues("created").Inc()

	respondJSON(w, http.StatusCreated, createInterviewResponse{
		InterviewID:     iv.ID,
		UserID:          iv.UserID,
		Status:          iv.Status,
		StartedAt:       iv.StartedAt,
		InactivityTTLMS: s.cfg.InterviewInactivityTimeout.Milliseconds(),
	})
}

func (s *Server) handleProcessTurn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		respondError(w, http.StatusBadRequest, "invalid_interview_id", "missing interview id")
		return
	}

	var req turnRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "text is required")
		return
	}

	decision := s.processTurn(r.Context(), id, req.Text)
	respondJSON(w, http.StatusOK, decision)
}

// processTurn runs the full turn pipeline under the interview's lock:
// lazy session recovery, redacted persistence, flow decision, state save.
func (s *Server) processTurn(ctx context.Context, interviewID, text string) flow.Decision {
	started := time.Now()

	iv, created := s.registry.GetOrCreate(interviewID)
	if created {
		s.restoreFlowState(ctx, iv)
		s.metrics.ActiveInterviews.Set(float64(s.registry.ActiveCount()))
		s.metrics.InterviewEvents.WithLabelValues("created").Inc()
	}
	_ = s.registry.Touch(interviewID)

	var decision flow.Decision
	iv.Do(func(fs *flow.Session) {
		decision = s.controller.ProcessTurn(ctx, fs, text)
		s.persistTurn(iv.ID, "user", text)
		s.persistFlowState(iv.ID, fs)
	})

	s.metrics.TurnsByIntent.WithLabelValues(string(decision.Intent)).Inc()
	s.metrics.DecisionsByAction.WithLabelValues(string(decision.Action)).Inc()
	s.metrics.Satisfaction.Observe(decision.Satisfaction)
	switch decision.Action {
	case flow.ActionAdvanceTopic:
		s.metrics.TopicAdvances.WithLabelValues("requested").Inc()
	case flow.ActionAutoAdvanceTopic:
		s.metrics.TopicAdvances.WithLabelValues("high_satisfaction").Inc()
	}
	s.metrics.ObserveDecisionLatency(time.Since(started))
	s.perf.Observe("turn_total", time.Since(started))

	return decision
}

func (s *Server) handleRegisterQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		respondError(w, http.StatusBadRequest, "invalid_interview_id", "missing interview id")
		return
	}

	var req questionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "text is required")
		return
	}

	duplicate := s.registerQuestion(r.Context(), id, req.Text)
	respondJSON(w, http.StatusOK, questionResponse{Duplicate: duplicate})
}

func (s *Server) registerQuestion(ctx context.Context, interviewID, text string) bool {
	iv, created := s.registry.GetOrCreate(interviewID)
	if created {
		s.restoreFlowState(ctx, iv)
	}
	_ = s.registry.Touch(interviewID)

	var duplicate bool
	iv.Do(func(fs *flow.Session) {
		duplicate = s.controller.RegisterQuestion(fs, text)
		s.persistTurn(iv.ID, "assistant", text)
		s.persistFlowState(iv.ID, fs)
	})
	return duplicate
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	iv, err := s.registry.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "interview_not_found", err.Error())
		return
	}

	var report flow.Report
	iv.Do(func(fs *flow.Session) {
		report = flow.Progress(fs)
	})
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleEndInterview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	iv, err := s.registry.End(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "interview_not_found", err.Error())
		return
	}
	s.metrics.ActiveInterviews.Set(float64(s.registry.ActiveCount()))
	s.metrics.InterviewEvents.WithLabelValues("ended").Inc()
	respondJSON(w, http.StatusOK, map[string]any{
		"interview_id": iv.ID,
		"status":       iv.Status,
	})
}

// restoreFlowState swaps in persisted state for a lazily created interview.
// Missing state is the normal first-contact path, not an error.
func (s *Server) restoreFlowState(ctx context.Context, iv *interviews.Interview) {
	ctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	state, err := s.store.LoadFlowState(ctx, iv.ID)
	if err != nil {
		if !errors.Is(err, memory.ErrNoState) {
			log.Printf("flow state restore failed for %s: %v", iv.ID, err)
		}
		return
	}
	iv.Do(func(fs *flow.Session) {
		*fs = *state
	})
}

func (s *Server) persistTurn(interviewID, role, content string) {
	redacted, changed := policy.RedactPII(content)

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	err := s.store.SaveTurn(ctx, memory.TurnRecord{
		InterviewID: interviewID,
		Role:        role,
		Content:     redacted,
		PIIRedacted: changed,
	})
	if err != nil {
		log.Printf("turn persist failed for %s: %v", interviewID, err)
	}
}

func (s *Server) persistFlowState(interviewID string, fs *flow.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.store.SaveFlowState(ctx, interviewID, fs); err != nil {
		log.Printf("flow state persist failed for %s: %v", interviewID, err)
	}
}
