package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

func messages(n int) []domain.MessagePreview {
	out := make([]domain.MessagePreview, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.MessagePreview{ID: i})
	}
	return out
}

func newCleanupFixture(conn *fakeConn) (*CleanupUseCase, *fakeSleeper) {
	sleeper := &fakeSleeper{}
	uc := NewCleanupUseCase(&fakePool{conn: conn}, noopAudit{}, sleeper, 500, zerolog.Nop())
	return uc, sleeper
}

func TestChunkIDs(t *testing.T) {
	ids := make([]int, 120)
	for i := range ids {
		ids[i] = i + 1
	}

	batches := chunkIDs(ids, 50)
	if len(batches) != 3 {
		t.Fatalf("Expected 3 batches, got %d", len(batches))
	}
	for i, want := range []int{50, 50, 20} {
		if len(batches[i]) != want {
			t.Errorf("batch %d: expected %d ids, got %d", i, want, len(batches[i]))
		}
	}

	if got := chunkIDs(nil, 50); got != nil {
		t.Errorf("Expected nil for empty input, got %v", got)
	}
}

func TestCleanup_BatchesAndPacing(t *testing.T) {
	dialog := domain.DialogSummary{ID: 10, Title: "grp", Kind: domain.DialogSupergroup}
	conn := &fakeConn{
		selfID:   1,
		dialogs:  []domain.DialogSummary{dialog},
		authored: map[int64][]domain.MessagePreview{10: messages(120)},
	}
	uc, sleeper := newCleanupFixture(conn)

	result, err := uc.Cleanup(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}

	if len(conn.deleteCalls) != 3 {
		t.Fatalf("Expected 3 delete calls, got %d", len(conn.deleteCalls))
	}
	for i, want := range []int{50, 50, 20} {
		if len(conn.deleteCalls[i]) != want {
			t.Errorf("call %d: expected %d ids, got %d", i, want, len(conn.deleteCalls[i]))
		}
	}

	if result.Deleted != 120 || result.Errors != 0 {
		t.Errorf("Expected 120 deleted, 0 errors, got %d/%d", result.Deleted, result.Errors)
	}
	if result.Dialogs != 1 {
		t.Errorf("Expected 1 dialog with deletions, got %d", result.Dialogs)
	}

	// One 1s pacing sleep per successful batch
	if len(sleeper.slept) != 3 {
		t.Fatalf("Expected 3 pacing sleeps, got %d", len(sleeper.slept))
	}
	for _, d := range sleeper.slept {
		if d != time.Second {
			t.Errorf("Expected 1s pacing, got %v", d)
		}
	}
}

func TestCleanup_FloodWaitRetrySucceeds(t *testing.T) {
	dialog := domain.DialogSummary{ID: 10, Kind: domain.DialogSupergroup}
	conn := &fakeConn{
		selfID:   1,
		dialogs:  []domain.DialogSummary{dialog},
		authored: map[int64][]domain.MessagePreview{10: messages(120)},
		// Second batch rate-limited once, retry succeeds
		deleteErrs: []error{nil, &domain.FloodWaitError{Wait: 5 * time.Second}},
	}
	uc, sleeper := newCleanupFixture(conn)

	result, err := uc.Cleanup(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}

	// batch1, batch2 (fails), batch2 retry, batch3
	if len(conn.deleteCalls) != 4 {
		t.Fatalf("Expected 4 delete calls, got %d", len(conn.deleteCalls))
	}
	if result.Deleted != 120 || result.Errors != 0 {
		t.Errorf("Expected 120/0, got %d/%d", result.Deleted, result.Errors)
	}

	// Delete path pads the wait: 5s * 1.5 = 7.5s
	var found bool
	for _, d := range sleeper.slept {
		if d == 7500*time.Millisecond {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a 7.5s backoff sleep, got %v", sleeper.slept)
	}
}

func TestCleanup_RetryFailureMarksBatchErrored(t *testing.T) {
	dialog := domain.DialogSummary{ID: 10, Kind: domain.DialogSupergroup}
	conn := &fakeConn{
		selfID:   1,
		dialogs:  []domain.DialogSummary{dialog},
		authored: map[int64][]domain.MessagePreview{10: messages(120)},
		// Second batch fails on both the first attempt and the single retry
		deleteErrs: []error{
			nil,
			&domain.FloodWaitError{Wait: 5 * time.Second},
			&domain.FloodWaitError{Wait: 5 * time.Second},
		},
	}
	uc, sleeper := newCleanupFixture(conn)

	result, err := uc.Cleanup(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}

	if result.Deleted != 70 {
		t.Errorf("Expected 70 deleted (batches 1 and 3), got %d", result.Deleted)
	}
	if result.Errors != 50 {
		t.Errorf("Expected the failed batch's 50 in error count, got %d", result.Errors)
	}

	// Exactly one retry: 4 calls total, no third attempt on batch 2
	if len(conn.deleteCalls) != 4 {
		t.Errorf("Expected exactly one retry (4 calls), got %d", len(conn.deleteCalls))
	}

	// Only one backoff sleep happened for the batch, the retry failure
	// gives up instead of waiting again
	backoffs := 0
	for _, d := range sleeper.slept {
		if d == 7500*time.Millisecond {
			backoffs++
		}
	}
	if backoffs != 1 {
		t.Errorf("Expected exactly 1 backoff sleep, got %d", backoffs)
	}
}

func TestCleanup_Idempotent(t *testing.T) {
	dialog := domain.DialogSummary{ID: 10, Kind: domain.DialogSupergroup}
	conn := &fakeConn{
		selfID:   1,
		dialogs:  []domain.DialogSummary{dialog},
		authored: map[int64][]domain.MessagePreview{10: messages(30)},
	}
	uc, _ := newCleanupFixture(conn)

	first, err := uc.Cleanup(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("first Cleanup failed: %v", err)
	}
	if first.Deleted != 30 {
		t.Fatalf("Expected 30 deleted on first run, got %d", first.Deleted)
	}

	second, err := uc.Cleanup(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("second Cleanup failed: %v", err)
	}
	if second.Deleted != 0 || second.Errors != 0 {
		t.Errorf("Expected 0/0 on second run, got %d/%d", second.Deleted, second.Errors)
	}
}

func TestCleanup_SkippedDialogCarriesReason(t *testing.T) {
	good := domain.DialogSummary{ID: 10, Kind: domain.DialogSupergroup}
	bad := domain.DialogSummary{ID: 20, Title: "locked", Kind: domain.DialogSupergroup}
	enumErr := errors.New("CHANNEL_PRIVATE")
	conn := &fakeConn{
		selfID:   1,
		dialogs:  []domain.DialogSummary{good, bad},
		authored: map[int64][]domain.MessagePreview{10: messages(10)},
		// Both the attempt and its retry fail
		searchErrs: map[int64][]error{20: {enumErr, enumErr}},
	}
	uc, _ := newCleanupFixture(conn)

	result, err := uc.Cleanup(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}

	if len(result.Outcomes) != 2 {
		t.Fatalf("Expected 2 outcomes, got %d", len(result.Outcomes))
	}

	var skipped *domain.DialogOutcome
	for i := range result.Outcomes {
		if result.Outcomes[i].Skipped {
			skipped = &result.Outcomes[i]
		}
	}
	if skipped == nil {
		t.Fatal("Expected a skipped outcome")
	}
	if skipped.Dialog.ID != 20 {
		t.Errorf("Expected dialog 20 skipped, got %d", skipped.Dialog.ID)
	}
	if skipped.Reason == "" {
		t.Error("Expected skip reason to be recorded")
	}

	// Aggregates exclude the skipped dialog
	if result.Deleted != 10 || result.Errors != 0 {
		t.Errorf("Expected 10/0 aggregates, got %d/%d", result.Deleted, result.Errors)
	}
}

func TestCleanup_IgnoresNonSupergroups(t *testing.T) {
	conn := &fakeConn{
		selfID: 1,
		dialogs: []domain.DialogSummary{
			{ID: 10, Kind: domain.DialogBasicGroup},
			{ID: 20, Kind: domain.DialogBroadcast},
		},
		authored: map[int64][]domain.MessagePreview{
			10: messages(5),
			20: messages(5),
		},
	}
	uc, _ := newCleanupFixture(conn)

	result, err := uc.Cleanup(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if result.Deleted != 0 || len(conn.deleteCalls) != 0 {
		t.Errorf("Expected no deletions outside supergroups, got %d deleted", result.Deleted)
	}
}

func TestCleanup_NoSessionAborts(t *testing.T) {
	uc := NewCleanupUseCase(&fakePool{acquireErr: domain.ErrNoActiveSession}, noopAudit{}, &fakeSleeper{}, 500, zerolog.Nop())

	_, err := uc.Cleanup(context.Background(), 1, nil)
	if !errors.Is(err, domain.ErrNoActiveSession) {
		t.Errorf("Expected ErrNoActiveSession, got %v", err)
	}
}

func TestScan_CountsAndSkips(t *testing.T) {
	withMedia := []domain.MessagePreview{
		{ID: 1, HasMedia: true},
		{ID: 2},
		{ID: 3},
	}
	good := domain.DialogSummary{ID: 10, Kind: domain.DialogSupergroup}
	bad := domain.DialogSummary{ID: 20, Kind: domain.DialogSupergroup}
	enumErr := errors.New("access denied")
	conn := &fakeConn{
		selfID:     1,
		dialogs:    []domain.DialogSummary{good, bad},
		authored:   map[int64][]domain.MessagePreview{10: withMedia},
		searchErrs: map[int64][]error{20: {enumErr, enumErr}},
	}
	uc, _ := newCleanupFixture(conn)

	result, err := uc.Scan(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if result.Messages != 3 || result.Media != 1 || result.Text != 2 {
		t.Errorf("Expected 3/1/2 counts, got %d/%d/%d", result.Messages, result.Media, result.Text)
	}
	if len(result.Dialogs) != 1 || result.Dialogs[0].Matched != 3 {
		t.Errorf("Expected one matched dialog with 3 messages, got %+v", result.Dialogs)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Dialog.ID != 20 {
		t.Errorf("Expected dialog 20 in skipped list, got %+v", result.Skipped)
	}
	if len(conn.deleteCalls) != 0 {
		t.Error("Scan must not delete anything")
	}
}

func TestScan_FloodWaitSleepsUnpadded(t *testing.T) {
	dialog := domain.DialogSummary{ID: 10, Kind: domain.DialogSupergroup}
	conn := &fakeConn{
		selfID:     1,
		dialogs:    []domain.DialogSummary{dialog},
		authored:   map[int64][]domain.MessagePreview{10: messages(2)},
		searchErrs: map[int64][]error{10: {&domain.FloodWaitError{Wait: 5 * time.Second}}},
	}
	uc, sleeper := newCleanupFixture(conn)

	result, err := uc.Scan(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if result.Messages != 2 {
		t.Errorf("Expected retry to succeed with 2 messages, got %d", result.Messages)
	}

	// Scan path honors the wait as-is, no 1.5x margin
	if len(sleeper.slept) != 1 || sleeper.slept[0] != 5*time.Second {
		t.Errorf("Expected a single 5s sleep, got %v", sleeper.slept)
	}
}
