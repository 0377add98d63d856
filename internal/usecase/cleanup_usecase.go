package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
	"github.com/masho-mammad/shadowclean-bot/internal/infrastructure/metrics"
)

const (
	// deleteBatchSize is the platform ceiling for one bulk delete call
	deleteBatchSize = 50

	// batchPacing is inserted after every successful batch regardless of
	// server feedback, proactive throttling on top of reactive backoff
	batchPacing = time.Second

	// deleteWaitFactor widens the flood-wait margin on the delete path,
	// deletes re-trigger limits more readily than reads
	deleteWaitFactor = 1.5

	// scanProgressEvery throttles scan status edits to every 3rd dialog
	scanProgressEvery = 3
)

// CleanupUseCase runs the self-cleanup engine: scan authored messages across
// the account's supergroups, then irreversibly delete them in batches.
type CleanupUseCase struct {
	pool      domain.ConnPool
	audit     domain.AuditProducer
	sleeper   domain.Sleeper
	dialogCap int
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// NewCleanupUseCase creates a new cleanup use case
func NewCleanupUseCase(
	pool domain.ConnPool,
	audit domain.AuditProducer,
	sleeper domain.Sleeper,
	dialogCap int,
	logger zerolog.Logger,
) *CleanupUseCase {
	return &CleanupUseCase{
		pool:      pool,
		audit:     audit,
		sleeper:   sleeper,
		dialogCap: dialogCap,
		logger:    logger,
		metrics:   metrics.GetDefaultMetrics(),
	}
}

// chunkIDs partitions ids into fixed-size batches
func chunkIDs(ids []int, size int) [][]int {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	batches := make([][]int, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}

// eligibleDialogs filters the cleanup candidates: supergroups only, basic
// groups lack the stable per-message ids targeted deletion needs.
func eligibleDialogs(dialogs []domain.DialogSummary) []domain.DialogSummary {
	out := make([]domain.DialogSummary, 0, len(dialogs))
	for _, d := range dialogs {
		if d.Kind == domain.DialogSupergroup {
			out = append(out, d)
		}
	}
	return out
}

// searchWithRetry enumerates authored messages, honoring one flood wait
func (u *CleanupUseCase) searchWithRetry(ctx context.Context, conn domain.Conn, dialog domain.DialogSummary, author domain.TargetPeer) ([]domain.MessagePreview, error) {
	msgs, err := conn.SearchAuthored(ctx, dialog, author, 0)
	if wait, ok := domain.AsFloodWait(err); ok {
		u.metrics.RecordFloodWait()
		u.logger.Warn().
			Int64("dialog_id", dialog.ID).
			Dur("wait", wait).
			Msg("flood wait during scan, honoring")
		u.sleeper.Sleep(ctx, wait)
		msgs, err = conn.SearchAuthored(ctx, dialog, author, 0)
	}
	return msgs, err
}

// Scan counts authored messages across eligible dialogs without deleting
// anything. Dialogs that cannot be enumerated are recorded as skipped with a
// reason and the scan continues.
func (u *CleanupUseCase) Scan(ctx context.Context, accountID int64, progress *Progress) (*domain.ScanResult, error) {
	start := time.Now()

	conn, err := u.pool.Acquire(ctx, accountID)
	if err != nil {
		return nil, err
	}
	defer u.pool.Release(accountID)

	dialogs, err := conn.ListDialogs(ctx, u.dialogCap)
	if err != nil {
		return nil, err
	}
	candidates := eligibleDialogs(dialogs)
	self := domain.TargetPeer{ID: conn.SelfID()}

	result := &domain.ScanResult{}
	progress.Start(ctx, len(candidates))

	for i, dialog := range candidates {
		msgs, err := u.searchWithRetry(ctx, conn, dialog, self)
		if err != nil {
			u.logger.Debug().Err(err).
				Int64("dialog_id", dialog.ID).
				Str("title", dialog.Title).
				Msg("dialog enumeration failed, skipping")
			result.Skipped = append(result.Skipped, domain.SkippedDialog{
				Dialog: dialog,
				Reason: err.Error(),
			})
			continue
		}

		if len(msgs) > 0 {
			dialog.Matched = len(msgs)
			result.Dialogs = append(result.Dialogs, dialog)
			result.Messages += len(msgs)
			for _, m := range msgs {
				if m.HasMedia {
					result.Media++
				} else {
					result.Text++
				}
			}
		}

		if (i+1)%scanProgressEvery == 0 {
			progress.Report(ctx, i+1, len(candidates))
		}
	}

	elapsed := time.Since(start)
	u.metrics.RecordScan(len(candidates), elapsed)
	u.publishAudit(ctx, accountID, "scan", len(result.Dialogs), 0, len(result.Skipped), elapsed)

	return result, nil
}

// deleteBatch issues one bulk delete, honoring a widened flood wait with
// exactly one retry. Returns false when the batch failed for good.
func (u *CleanupUseCase) deleteBatch(ctx context.Context, conn domain.Conn, dialog domain.DialogSummary, batch []int) bool {
	err := conn.DeleteMessages(ctx, dialog, batch)
	if err == nil {
		return true
	}

	if wait, ok := domain.AsFloodWait(err); ok {
		u.metrics.RecordFloodWait()
		padded := time.Duration(float64(wait) * deleteWaitFactor)
		u.logger.Warn().
			Int64("dialog_id", dialog.ID).
			Dur("wait", wait).
			Dur("padded", padded).
			Msg("flood wait during delete, honoring with margin")
		u.sleeper.Sleep(ctx, padded)
		err = conn.DeleteMessages(ctx, dialog, batch)
	}
	if err != nil {
		u.logger.Warn().Err(err).
			Int64("dialog_id", dialog.ID).
			Int("batch_size", len(batch)).
			Msg("delete batch failed permanently")
		return false
	}
	return true
}

// Cleanup irreversibly deletes every authored message across eligible
// dialogs. Only messages authored by the account itself are touched. Per
// dialog: uncapped enumeration, fixed batches, one retry per rate-limited
// batch, fixed pacing after each successful batch. Re-running on a cleaned
// account yields zero deletions and zero errors.
func (u *CleanupUseCase) Cleanup(ctx context.Context, accountID int64, progress *Progress) (*domain.CleanupResult, error) {
	start := time.Now()

	conn, err := u.pool.Acquire(ctx, accountID)
	if err != nil {
		return nil, err
	}
	defer u.pool.Release(accountID)

	dialogs, err := conn.ListDialogs(ctx, u.dialogCap)
	if err != nil {
		return nil, err
	}
	candidates := eligibleDialogs(dialogs)
	self := domain.TargetPeer{ID: conn.SelfID()}

	result := &domain.CleanupResult{}
	progress.Start(ctx, len(candidates))

	for i, dialog := range candidates {
		msgs, err := u.searchWithRetry(ctx, conn, dialog, self)
		if err != nil {
			u.logger.Debug().Err(err).
				Int64("dialog_id", dialog.ID).
				Str("title", dialog.Title).
				Msg("dialog enumeration failed, skipping")
			result.Outcomes = append(result.Outcomes, domain.DialogOutcome{
				Dialog:  dialog,
				Skipped: true,
				Reason:  err.Error(),
			})
			progress.Report(ctx, i+1, len(candidates))
			continue
		}

		ids := make([]int, 0, len(msgs))
		for _, m := range msgs {
			ids = append(ids, m.ID)
		}

		outcome := domain.DialogOutcome{Dialog: dialog}
		for _, batch := range chunkIDs(ids, deleteBatchSize) {
			if u.deleteBatch(ctx, conn, dialog, batch) {
				outcome.Deleted += len(batch)
				u.sleeper.Sleep(ctx, batchPacing)
			} else {
				outcome.Errors += len(batch)
			}
		}

		result.Outcomes = append(result.Outcomes, outcome)
		result.Deleted += outcome.Deleted
		result.Errors += outcome.Errors
		if outcome.Deleted > 0 {
			result.Dialogs++
		}
		progress.Report(ctx, i+1, len(candidates))
	}

	result.Elapsed = time.Since(start)
	u.metrics.RecordCleanup(result.Deleted, result.Errors, result.Elapsed)
	u.publishAudit(ctx, accountID, "cleanup", result.Dialogs, result.Deleted, result.Errors, result.Elapsed)

	u.logger.Info().
		Int64("account_id", accountID).
		Int("deleted", result.Deleted).
		Int("errors", result.Errors).
		Int("dialogs", result.Dialogs).
		Dur("elapsed", result.Elapsed).
		Msg("cleanup completed")

	return result, nil
}

func (u *CleanupUseCase) publishAudit(ctx context.Context, accountID int64, operation string, dialogs, deleted, errors int, elapsed time.Duration) {
	event := domain.AuditEvent{
		OperationID: uuid.NewString(),
		AccountID:   accountID,
		Operation:   operation,
		Dialogs:     dialogs,
		Deleted:     deleted,
		Errors:      errors,
		Duration:    elapsed,
	}
	if err := u.audit.Publish(ctx, event); err != nil {
		u.logger.Debug().Err(err).Str("operation", operation).Msg("audit publish failed")
	}
}
