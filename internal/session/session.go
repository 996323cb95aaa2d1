// Package session maps opaque session tokens to player ids. Tokens are the
// only credential the transports accept; there is no other authentication.
package session

import (
	"sync"

	"github.com/google/uuid"
)

type Session struct {
	ID       string
	PlayerID string
}

// Manager issues and resolves session tokens. Safe for concurrent use by all
// listener goroutines.
type Manager struct {
	mu        sync.RWMutex
	bySession map[string]*Session
}

func NewManager() *Manager {
	return &Manager{
		bySession: make(map[string]*Session),
	}
}

// Create issues a fresh token bound to the player.
func (m *Manager) Create(playerID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{
		ID:       uuid.NewString(),
		PlayerID: playerID,
	}
	m.bySession[s.ID] = s
	return s
}

// Get resolves a token, or nil if it was never issued or already removed.
func (m *Manager) Get(sessionID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.bySession[sessionID]
}

// Remove forgets a token. Idempotent.
func (m *Manager) Remove(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.bySession, sessionID)
}
