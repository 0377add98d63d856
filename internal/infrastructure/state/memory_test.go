package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

func TestMemoryStore_SetGetClear(t *testing.T) {
	s := NewMemoryStore()

	assert.Equal(t, domain.StateNone, s.Get(1).State)

	s.Set(1, domain.ConversationData{State: domain.StateAwaitingPhone})
	assert.Equal(t, domain.StateAwaitingPhone, s.Get(1).State)
	assert.Equal(t, domain.StateNone, s.Get(2).State, "states are per account")

	s.Clear(1)
	assert.Equal(t, domain.StateNone, s.Get(1).State)
}

func TestMemoryStore_SetOverwrites(t *testing.T) {
	s := NewMemoryStore()

	s.Set(7, domain.ConversationData{State: domain.StateAwaitingCode, Phone: "+111", CodeHash: "abc"})
	s.Set(7, domain.ConversationData{State: domain.StateAwaitingPhone})

	got := s.Get(7)
	assert.Equal(t, domain.StateAwaitingPhone, got.State)
	assert.Empty(t, got.Phone, "supersession must not merge old step data")
	assert.Empty(t, got.CodeHash)
}
