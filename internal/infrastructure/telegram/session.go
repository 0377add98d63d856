package telegram

import (
	"context"
	"sync"

	"github.com/gotd/td/session"
)

// memorySessionStorage keeps gotd session bytes in memory for the lifetime of
// one connection. The bytes are seeded from the vault before connecting and
// read back after each auth step for re-encryption.
type memorySessionStorage struct {
	mu   sync.RWMutex
	data []byte
}

func newMemorySessionStorage(seed []byte) *memorySessionStorage {
	s := &memorySessionStorage{}
	if len(seed) > 0 {
		s.data = make([]byte, len(seed))
		copy(s.data, seed)
	}
	return s
}

// LoadSession returns the stored session bytes or session.ErrNotFound when
// the storage was seeded empty.
func (s *memorySessionStorage) LoadSession(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.data) == 0 {
		return nil, session.ErrNotFound
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

// StoreSession records the latest session bytes
func (s *memorySessionStorage) StoreSession(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make([]byte, len(data))
	copy(s.data, data)
	return nil
}

// Bytes returns a copy of the current session bytes
func (s *memorySessionStorage) Bytes() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.data) == 0 {
		return nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out
}

var _ session.Storage = (*memorySessionStorage)(nil)
