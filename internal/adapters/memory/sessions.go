package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"valuator/internal/ports"
	"valuator/internal/services/session"
)

// SessionStore keeps sessions in process. Values are stored encoded so
// callers never share mutable state with the store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string][]byte)}
}

func (m *SessionStore) Create(ctx context.Context, s *session.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[s.ID]; exists {
		return fmt.Errorf("session %s already exists", s.ID)
	}
	m.sessions[s.ID] = raw
	return nil
}

func (m *SessionStore) Get(ctx context.Context, id string) (*session.Session, error) {
	m.mu.RLock()
	raw, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ports.ErrNotFound
	}
	var s session.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *SessionStore) Save(ctx context.Context, s *session.Session) error {
	next := *s
	next.Version++
	raw, err := json.Marshal(&next)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.sessions[s.ID]
	if !ok {
		return ports.ErrNotFound
	}
	var stored struct {
		Version uint64 `json:"version"`
	}
	if err := json.Unmarshal(current, &stored); err != nil {
		return err
	}
	if stored.Version != s.Version {
		return ports.ErrConflict
	}
	m.sessions[s.ID] = raw
	s.Version = next.Version
	return nil
}
