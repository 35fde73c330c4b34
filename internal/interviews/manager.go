package interviews

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ent0n29/aliya/internal/flow"
)

type Status string

const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

var ErrNotFound = errors.New("interview not found")

// Interview pairs registry metadata with the flow-controller session state.
// Flow is guarded by the interview's own lock: call Do to mutate it, so each
// interview keeps a single logical thread of control.
type Interview struct {
	ID             string    `json:"interview_id"`
	UserID         string    `json:"user_id"`
	Status         Status    `json:"status"`
	StartedAt      time.Time `json:"started_at"`
	LastActivityAt time.Time `json:"last_activity_at"`

	mu   sync.Mutex
	Flow *flow.Session
}

// Do runs fn with exclusive access to the interview's flow state. Turns are
// processed completely before the next one is accepted.
func (iv *Interview) Do(fn func(s *flow.Session)) {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	fn(iv.Flow)
}

// Manager is the in-process interview registry. Interviews are created
// lazily on first access with all-default flow state.
type Manager struct {
	mu                sync.RWMutex
	interviews        map[string]*Interview
	inactivityTimeout time.Duration
	onExpire          func(*Interview)
}

func NewManager(inactivityTimeout time.Duration) *Manager {
	if inactivityTimeout <= 0 {
		inactivityTimeout = 30 * time.Minute
	}
	return &Manager{
		interviews:        make(map[string]*Interview),
		inactivityTimeout: inactivityTimeout,
	}
}

func (m *Manager) SetExpireHook(hook func(*Interview)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = hook
}

// Create registers a new interview with a fresh ID and default flow state.
func (m *Manager) Create(userID string) *Interview {
	now := time.Now().UTC()
	iv := &Interview{
		ID:             uuid.NewString(),
		UserID:         userID,
		Status:         StatusActive,
		StartedAt:      now,
		LastActivityAt: now,
		Flow:           flow.NewSession(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.interviews[iv.ID] = iv
	return iv
}

// Get returns the interview with the given ID.
func (m *Manager) Get(id string) (*Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	iv, ok := m.interviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	return iv, nil
}

// GetOrCreate returns the interview for id, lazily initializing default
// state on first access. created reports whether this call made it.
func (m *Manager) GetOrCreate(id string) (iv *Interview, created bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.interviews[id]; ok {
		return existing, false
	}
	now := time.Now().UTC()
	iv = &Interview{
		ID:             id,
		Status:         StatusActive,
		StartedAt:      now,
		LastActivityAt: now,
		Flow:           flow.NewSession(),
	}
	m.interviews[id] = iv
	return iv, true
}

// Touch refreshes the inactivity clock.
func (m *Manager) Touch(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	iv, ok := m.interviews[id]
	if !ok {
		return ErrNotFound
	}
	iv.LastActivityAt = time.Now().UTC()
	return nil
}

// End marks the interview ended.
func (m *Manager) End(id string) (*Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	iv, ok := m.interviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	iv.Status = StatusEnded
	iv.LastActivityAt = time.Now().UTC()
	return iv, nil
}

// ActiveCount reports how many interviews are still active.
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, iv := range m.interviews {
		if iv.Status == StatusActive {
			count++
		}
	}
	return count
}

// StartJanitor expires inactive interviews in the background until ctx ends.
func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.expireInactive()
			}
		}
	}()
}

func (m *Manager) expireInactive() {
	now := time.Now().UTC()
	var expired []*Interview

	m.mu.Lock()
	for _, iv := range m.interviews {
		if iv.Status != StatusActive {
			continue
		}
		if now.Sub(iv.LastActivityAt) < m.inactivityTimeout {
			continue
		}
		iv.Status = StatusEnded
		iv.LastActivityAt = now
		expired = append(expired, iv)
	}
	hook := m.onExpire
	m.mu.Unlock()

	if hook != nil {
		for _, iv := range expired {
			hook(iv)
		}
	}
}
