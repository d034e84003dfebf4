package convo

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hollandm/ranger/internal/llm"
	"github.com/hollandm/ranger/internal/nps"
)

// Stage is the conversation state machine position for a session.
type Stage string

const (
	StageIntentRecognition    Stage = "intent_recognition"
	StageAwaitingConfirmation Stage = "awaiting_confirmation"
)

// defaultIdleTTL is how long a session may sit untouched before the
// sweeper drops it.
const defaultIdleTTL = time.Hour

// State holds one conversation's accumulated context.
type State struct {
	mu sync.Mutex

	ID                string
	Stage             Stage
	History           []llm.Message
	ConfirmedParkName string
	IntentData        *IntentData
	AlertsData        []nps.Alert
	LastActive        time.Time
}

// Manager owns the session map.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*State
	idleTTL  time.Duration
	now      func() time.Time
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*State),
		idleTTL:  defaultIdleTTL,
		now:      time.Now,
	}
}

// GetOrCreate returns the session for id, creating it when missing. A
// client-supplied id is adopted as the session key, so a conversation
// survives a sweep or restart under the same id. An empty id gets a
// generated UUID.
func (m *Manager) GetOrCreate(id string) *State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if st, ok := m.sessions[id]; ok {
			st.LastActive = m.now()
			return st
		}
	} else {
		id = uuid.NewString()
	}

	st := &State{
		ID:         id,
		Stage:      StageIntentRecognition,
		LastActive: m.now(),
	}
	m.sessions[st.ID] = st
	return st
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// SweepIdle drops sessions idle longer than the TTL and reports how many
// were removed.
func (m *Manager) SweepIdle() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.idleTTL)
	removed := 0
	for id, st := range m.sessions {
		if st.LastActive.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps idle sessions on a fixed interval until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.SweepIdle(); n > 0 {
				slog.Debug("swept idle conversations", "removed", n)
			}
		}
	}
}
