package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/gotd/td/session"
	"github.com/gotd/td/tg"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

// TestSearchAuthored_NotConnected tests error handling when conn is not connected
func TestSearchAuthored_NotConnected(t *testing.T) {
	conn := &accountConn{connected: false}

	_, err := conn.SearchAuthored(context.Background(), domain.DialogSummary{}, domain.TargetPeer{}, 0)
	if !errors.Is(err, domain.ErrNotConnected) {
		t.Errorf("Expected ErrNotConnected, got: %v", err)
	}
}

// TestDeleteMessages_NotConnected tests error handling when conn is not connected
func TestDeleteMessages_NotConnected(t *testing.T) {
	conn := &accountConn{connected: false}

	err := conn.DeleteMessages(context.Background(), domain.DialogSummary{}, []int{1, 2, 3})
	if !errors.Is(err, domain.ErrNotConnected) {
		t.Errorf("Expected ErrNotConnected, got: %v", err)
	}
}

// TestResolveUsername_NotConnected tests error handling when conn is not connected
func TestResolveUsername_NotConnected(t *testing.T) {
	conn := &accountConn{connected: false}

	_, err := conn.ResolveUsername(context.Background(), "alice")
	if !errors.Is(err, domain.ErrNotConnected) {
		t.Errorf("Expected ErrNotConnected, got: %v", err)
	}
}

// TestDeleteMessages_EmptyIDs tests that an empty batch is a no-op
func TestDeleteMessages_EmptyIDs(t *testing.T) {
	conn := &accountConn{connected: false}

	if err := conn.DeleteMessages(context.Background(), domain.DialogSummary{}, nil); err != nil {
		t.Errorf("Expected nil for empty batch, got: %v", err)
	}
}

func TestClassifyChat(t *testing.T) {
	tests := []struct {
		name     string
		chat     tg.ChatClass
		wantKind domain.DialogKind
		wantOK   bool
	}{
		{
			name:     "megagroup",
			chat:     &tg.Channel{ID: 100, AccessHash: 7, Title: "Group", Username: "grp", Megagroup: true},
			wantKind: domain.DialogSupergroup,
			wantOK:   true,
		},
		{
			name:     "broadcast channel",
			chat:     &tg.Channel{ID: 200, AccessHash: 8, Title: "News", Broadcast: true},
			wantKind: domain.DialogBroadcast,
			wantOK:   true,
		},
		{
			name:     "left channel",
			chat:     &tg.Channel{ID: 300, Megagroup: true, Left: true},
			wantOK:   false,
		},
		{
			name:     "basic group",
			chat:     &tg.Chat{ID: 400, Title: "Old group"},
			wantKind: domain.DialogBasicGroup,
			wantOK:   true,
		},
		{
			name:   "deactivated basic group",
			chat:   &tg.Chat{ID: 500, Deactivated: true},
			wantOK: false,
		},
		{
			name:   "forbidden channel",
			chat:   &tg.ChannelForbidden{ID: 600},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, ok := classifyChat(tt.chat)
			if ok != tt.wantOK {
				t.Fatalf("classifyChat ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && summary.Kind != tt.wantKind {
				t.Errorf("classifyChat kind = %v, want %v", summary.Kind, tt.wantKind)
			}
		})
	}
}

func TestBuildMessageLink(t *testing.T) {
	tests := []struct {
		name     string
		dialog   domain.DialogSummary
		id       int
		expected string
	}{
		{
			name:     "public dialog uses username",
			dialog:   domain.DialogSummary{ID: 123456, Username: "mygroup"},
			id:       42,
			expected: "https://t.me/mygroup/42",
		},
		{
			name:     "private dialog uses internal id",
			dialog:   domain.DialogSummary{ID: 123456},
			id:       42,
			expected: "https://t.me/c/123456/42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildMessageLink(tt.dialog, tt.id); got != tt.expected {
				t.Errorf("buildMessageLink = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSearchFromPeer(t *testing.T) {
	if _, ok := searchFromPeer(42, domain.TargetPeer{ID: 42}).(*tg.InputPeerSelf); !ok {
		t.Error("searching the logged-in account should use InputPeerSelf")
	}

	peer := searchFromPeer(42, domain.TargetPeer{ID: 7, AccessHash: 9})
	user, ok := peer.(*tg.InputPeerUser)
	if !ok {
		t.Fatalf("foreign author should map to InputPeerUser, got %T", peer)
	}
	if user.UserID != 7 || user.AccessHash != 9 {
		t.Errorf("unexpected author peer: %+v", user)
	}
}

func TestInputPeerForSummary(t *testing.T) {
	basic := inputPeerForSummary(domain.DialogSummary{ID: 1, Kind: domain.DialogBasicGroup})
	if _, ok := basic.(*tg.InputPeerChat); !ok {
		t.Errorf("basic group should map to InputPeerChat, got %T", basic)
	}

	super := inputPeerForSummary(domain.DialogSummary{ID: 2, AccessHash: 9, Kind: domain.DialogSupergroup})
	ch, ok := super.(*tg.InputPeerChannel)
	if !ok {
		t.Fatalf("supergroup should map to InputPeerChannel, got %T", super)
	}
	if ch.ChannelID != 2 || ch.AccessHash != 9 {
		t.Errorf("unexpected channel peer: %+v", ch)
	}
}

func TestMemorySessionStorage(t *testing.T) {
	t.Run("empty storage returns not found", func(t *testing.T) {
		s := newMemorySessionStorage(nil)
		_, err := s.LoadSession(context.Background())
		if !errors.Is(err, session.ErrNotFound) {
			t.Errorf("Expected session.ErrNotFound, got: %v", err)
		}
	})

	t.Run("seeded storage round trips", func(t *testing.T) {
		s := newMemorySessionStorage([]byte("seed"))
		data, err := s.LoadSession(context.Background())
		if err != nil {
			t.Fatalf("LoadSession failed: %v", err)
		}
		if string(data) != "seed" {
			t.Errorf("LoadSession = %q, want %q", data, "seed")
		}
	})

	t.Run("store replaces bytes", func(t *testing.T) {
		s := newMemorySessionStorage([]byte("old"))
		if err := s.StoreSession(context.Background(), []byte("new")); err != nil {
			t.Fatalf("StoreSession failed: %v", err)
		}
		if string(s.Bytes()) != "new" {
			t.Errorf("Bytes = %q, want %q", s.Bytes(), "new")
		}
	})

	t.Run("bytes returns a copy", func(t *testing.T) {
		s := newMemorySessionStorage([]byte("abc"))
		b := s.Bytes()
		b[0] = 'x'
		if string(s.Bytes()) != "abc" {
			t.Error("mutating the returned slice must not affect storage")
		}
	})
}
