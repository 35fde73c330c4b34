package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ent0n29/aliya/internal/flow"
)

// InMemoryStore is a simple in-process store for local/dev use.
type InMemoryStore struct {
	mu     sync.RWMutex
	turns  map[string][]TurnRecord
	states map[string][]byte
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		turns:  make(map[string][]TurnRecord),
		states: make(map[string][]byte),
	}
}

func (s *InMemoryStore) SaveTurn(_ context.Context, record TurnRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	s.turns[record.InterviewID] = append(s.turns[record.InterviewID], record)
	return nil
}

func (s *InMemoryStore) RecentTurns(_ context.Context, interviewID string, limit int) ([]TurnRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arr := s.turns[interviewID]
	if len(arr) == 0 {
		return nil, nil
	}
	if limit <= 0 || limit > len(arr) {
		limit = len(arr)
	}
	out := make([]TurnRecord, 0, limit)
	for i := len(arr) - limit; i < len(arr); i++ {
		out = append(out, arr[i])
	}
	return out, nil
}

func (s *InMemoryStore) SaveFlowState(_ context.Context, interviewID string, state *flow.Session) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[interviewID] = raw
	return nil
}

func (s *InMemoryStore) LoadFlowState(_ context.Context, interviewID string) (*flow.Session, error) {
	s.mu.RLock()
	raw, ok := s.states[interviewID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNoState
	}
	var state flow.Session
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	state.Normalize()
	return &state, nil
}

func (s *InMemoryStore) Close() error { return nil }
