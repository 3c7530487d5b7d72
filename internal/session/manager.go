package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned by Get for unknown session IDs.
var ErrSessionNotFound = errors.New("session: not found")

// Manager is an in-memory session registry. Sessions live for the server's
// lifetime only; nothing is persisted across restarts.
type Manager struct {
	digitizer  Digitizer
	translator Translator

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a registry whose sessions use the given AI boundaries.
func NewManager(d Digitizer, t Translator) *Manager {
	return &Manager{
		digitizer:  d,
		translator: t,
		sessions:   make(map[string]*Session),
	}
}

// Create registers a new empty session and returns it.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:         uuid.New().String(),
		digitizer:  m.digitizer,
		translator: m.translator,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}
