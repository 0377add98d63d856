package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

func TestResolver_Convergence(t *testing.T) {
	alice := domain.TargetPeer{ID: 777, AccessHash: 42, Username: "alice", FirstName: "Alice"}
	conn := &fakeConn{
		usernames: map[string]domain.TargetPeer{"alice": alice},
		userIDs:   map[int64]domain.TargetPeer{777: alice},
	}
	r := NewResolver(zerolog.Nop())

	for _, input := range []string{"@alice", "alice", "777", "  alice  "} {
		peer, err := r.Resolve(context.Background(), conn, input)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", input, err)
		}
		if peer.ID != alice.ID {
			t.Errorf("Resolve(%q) = %d, want %d", input, peer.ID, alice.ID)
		}
	}
}

func TestResolver_CachedDialogFallback(t *testing.T) {
	// Privacy-restricted account: not username-discoverable, data center
	// rejects a bare id, but present in the caller's dialog cache
	hidden := domain.TargetPeer{ID: 555, FirstName: "Hidden"}
	conn := &fakeConn{
		cached: map[int64]domain.TargetPeer{555: hidden},
	}
	r := NewResolver(zerolog.Nop())

	peer, err := r.Resolve(context.Background(), conn, "555")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if peer.ID != 555 {
		t.Errorf("Expected cached peer 555, got %d", peer.ID)
	}
}

func TestResolver_NotFound(t *testing.T) {
	r := NewResolver(zerolog.Nop())

	_, err := r.Resolve(context.Background(), &fakeConn{}, "nobody")
	if !errors.Is(err, domain.ErrTargetNotFound) {
		t.Errorf("Expected ErrTargetNotFound, got %v", err)
	}

	_, err = r.Resolve(context.Background(), &fakeConn{}, "")
	if !errors.Is(err, domain.ErrTargetNotFound) {
		t.Errorf("Expected ErrTargetNotFound for empty input, got %v", err)
	}
}

func TestResolver_NumericBeforeCacheScan(t *testing.T) {
	direct := domain.TargetPeer{ID: 900, Username: "direct"}
	stale := domain.TargetPeer{ID: 900, FirstName: "stale cache entry"}
	conn := &fakeConn{
		userIDs: map[int64]domain.TargetPeer{900: direct},
		cached:  map[int64]domain.TargetPeer{900: stale},
	}
	r := NewResolver(zerolog.Nop())

	peer, err := r.Resolve(context.Background(), conn, "900")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if peer.Username != "direct" {
		t.Errorf("Expected the direct resolution to win, got %+v", peer)
	}
}
