package memory

import (
	"context"
	"errors"
	"time"

	"github.com/ent0n29/aliya/internal/flow"
)

// ErrNoState is returned when no flow state has been persisted for an
// interview yet. Callers treat it as "start from defaults", not a failure.
var ErrNoState = errors.New("no flow state stored")

// TurnRecord stores a single user or assistant interview turn.
type TurnRecord struct {
	ID          string    `json:"id"`
	InterviewID string    `json:"interview_id"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	PIIRedacted bool      `json:"pii_redacted"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store persists the interview turn log and the serializable flow-controller
// state, so a host can restore an interview independently of transcript
// storage.
type Store interface {
	SaveTurn(ctx context.Context, record TurnRecord) error
	RecentTurns(ctx context.Context, interviewID string, limit int) ([]TurnRecord, error)
	SaveFlowState(ctx context.Context, interviewID string, state *flow.Session) error
	LoadFlowState(ctx context.Context, interviewID string) (*flow.Session, error)
	Close() error
}
