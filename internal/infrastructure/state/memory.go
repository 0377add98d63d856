// Package state holds per-account conversation state between webhook events.
package state

import (
	"sync"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

// MemoryStore is the in-memory domain.StateStore. State is lost on restart;
// the interface exists so a durable backend can replace it without touching
// state machine logic.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[int64]domain.ConversationData
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[int64]domain.ConversationData),
	}
}

// Get returns the current conversation data, zero value when absent.
func (s *MemoryStore) Get(accountID int64) domain.ConversationData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[accountID]
}

// Set replaces the conversation data. A new login step supersedes any prior
// pending state rather than merging with it.
func (s *MemoryStore) Set(accountID int64, data domain.ConversationData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[accountID] = data
}

// Clear drops the conversation data.
func (s *MemoryStore) Clear(accountID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, accountID)
}

var _ domain.StateStore = (*MemoryStore)(nil)
