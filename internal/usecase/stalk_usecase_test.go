package usecase

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

func newStalkFixture(conn *fakeConn) *StalkUseCase {
	return NewStalkUseCase(&fakePool{conn: conn}, NewResolver(zerolog.Nop()), noopAudit{}, zerolog.Nop())
}

func TestStalk_BuildReport(t *testing.T) {
	target := domain.TargetPeer{ID: 777, Username: "alice"}
	conn := &fakeConn{
		selfID: 1,
		dialogs: []domain.DialogSummary{
			{ID: 10, Title: "grp", Kind: domain.DialogSupergroup},
			{ID: 20, Title: "news", Kind: domain.DialogBroadcast},
			{ID: 30, Title: "legacy", Kind: domain.DialogBasicGroup},
			{ID: 40, Title: "quiet", Kind: domain.DialogSupergroup},
		},
		authored: map[int64][]domain.MessagePreview{
			10: messages(7),
			20: messages(2),
			30: messages(9), // basic group, must be excluded
		},
	}
	uc := newStalkFixture(conn)

	report, err := uc.BuildReport(context.Background(), 1, target, nil)
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}

	if len(report.Groups) != 1 || report.Groups[0].ID != 10 || report.Groups[0].Matched != 7 {
		t.Errorf("Unexpected groups: %+v", report.Groups)
	}
	if len(report.Channels) != 1 || report.Channels[0].ID != 20 || report.Channels[0].Matched != 2 {
		t.Errorf("Unexpected channels: %+v", report.Channels)
	}
	if report.Total != 9 {
		t.Errorf("Expected total 9, got %d", report.Total)
	}

	items := report.Items()
	if len(items) != 2 || items[0].ID != 10 || items[1].ID != 20 {
		t.Errorf("Expected groups before channels in panel order, got %+v", items)
	}
}

func TestStalk_PreviewRespectsLimit(t *testing.T) {
	target := domain.TargetPeer{ID: 777}
	dialog := domain.DialogSummary{ID: 10, Kind: domain.DialogSupergroup}
	conn := &fakeConn{
		dialogs:  []domain.DialogSummary{dialog},
		authored: map[int64][]domain.MessagePreview{10: messages(50)},
	}
	uc := newStalkFixture(conn)

	previews, err := uc.Preview(context.Background(), 1, target, dialog, 10)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if len(previews) != 10 {
		t.Errorf("Expected 10 previews, got %d", len(previews))
	}
}

func TestStalk_ProfileResolvesFirst(t *testing.T) {
	alice := domain.TargetPeer{ID: 777, Username: "alice"}
	conn := &fakeConn{
		usernames: map[string]domain.TargetPeer{"alice": alice},
	}
	uc := newStalkFixture(conn)

	profile, err := uc.Profile(context.Background(), 1, "@alice")
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if profile.Peer.ID != 777 {
		t.Errorf("Expected profile for peer 777, got %+v", profile.Peer)
	}

	if _, err := uc.Profile(context.Background(), 1, "@nobody"); err == nil {
		t.Error("Expected resolution failure to surface")
	}
}
