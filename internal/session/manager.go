package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/intent-responder/internal/resolver"
)

// #region manager
// Manager hands out sessions to network callers. A single mutex serializes
// every turn across sessions, which also serializes writes to the shared
// learned store.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	factory  func(id string) *Session
}

// NewManager creates a manager. factory builds a session for a fresh ID.
func NewManager(factory func(id string) *Session) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		factory:  factory,
	}
}

// Open starts a new session and returns its ID.
func (m *Manager) Open() string {
	id := uuid.New().String()
	m.mu.Lock()
	m.sessions[id] = m.factory(id)
	m.mu.Unlock()
	return id
}

// Close forgets a session along with any pending learning.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// #endregion manager

// #region turns
// Submit runs one turn on session id.
func (m *Manager) Submit(id, input string) (resolver.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return resolver.Result{}, ErrSessionNotFound
	}
	return s.Submit(input), nil
}

// Teach answers the pending question on session id.
func (m *Manager) Teach(id, answer string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return "", ErrSessionNotFound
	}
	return s.Teach(answer)
}

// Reset clears pending learning on session id.
func (m *Manager) Reset(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.Reset()
	return nil
}

// Pending reports the pending key of session id.
func (m *Manager) Pending(id string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return "", false, ErrSessionNotFound
	}
	key, active := s.Pending()
	return key, active, nil
}

// #endregion turns
