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
	// stalkDialogCap bounds the dialog sweep of a presence report
	stalkDialogCap = 300

	// stalkCountCap bounds the per-dialog authored-message count, shared
	// dialogs with thousands of messages would stall the sweep otherwise
	stalkCountCap = 100
)

// StalkUseCase builds presence reports for a third-party target: which
// shared dialogs they authored messages in, with link-renderable previews,
// plus the OSINT profile view.
type StalkUseCase struct {
	pool     domain.ConnPool
	resolver *Resolver
	audit    domain.AuditProducer
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

// NewStalkUseCase creates a new stalk use case
func NewStalkUseCase(
	pool domain.ConnPool,
	resolver *Resolver,
	audit domain.AuditProducer,
	logger zerolog.Logger,
) *StalkUseCase {
	return &StalkUseCase{
		pool:     pool,
		resolver: resolver,
		audit:    audit,
		logger:   logger,
		metrics:  metrics.GetDefaultMetrics(),
	}
}

// Resolve maps a free-form identifier to a canonical peer using the
// account's own connection.
func (u *StalkUseCase) Resolve(ctx context.Context, accountID int64, raw string) (domain.TargetPeer, error) {
	conn, err := u.pool.Acquire(ctx, accountID)
	if err != nil {
		return domain.TargetPeer{}, err
	}
	defer u.pool.Release(accountID)

	return u.resolver.Resolve(ctx, conn, raw)
}

// BuildReport sweeps the account's shared supergroups and broadcast channels
// for messages authored by the target. Basic groups are excluded, their
// message ids cannot be deep-linked. Dialogs that fail to enumerate are
// silently left out of the report.
func (u *StalkUseCase) BuildReport(ctx context.Context, accountID int64, target domain.TargetPeer, progress *Progress) (*domain.StalkReport, error) {
	start := time.Now()

	conn, err := u.pool.Acquire(ctx, accountID)
	if err != nil {
		return nil, err
	}
	defer u.pool.Release(accountID)

	dialogs, err := conn.ListDialogs(ctx, stalkDialogCap)
	if err != nil {
		return nil, err
	}

	report := &domain.StalkReport{Target: target}
	candidates := make([]domain.DialogSummary, 0, len(dialogs))
	for _, d := range dialogs {
		if d.Kind == domain.DialogSupergroup || d.Kind == domain.DialogBroadcast {
			candidates = append(candidates, d)
		}
	}

	progress.Start(ctx, len(candidates))
	for i, dialog := range candidates {
		msgs, err := conn.SearchAuthored(ctx, dialog, target, stalkCountCap)
		if err != nil {
			u.logger.Debug().Err(err).
				Int64("dialog_id", dialog.ID).
				Msg("presence check failed, skipping dialog")
			continue
		}
		if len(msgs) == 0 {
			continue
		}

		dialog.Matched = len(msgs)
		if dialog.Kind == domain.DialogSupergroup {
			report.Groups = append(report.Groups, dialog)
		} else {
			report.Channels = append(report.Channels, dialog)
		}
		report.Total += len(msgs)

		if (i+1)%scanProgressEvery == 0 {
			progress.Report(ctx, i+1, len(candidates))
		}
	}

	elapsed := time.Since(start)
	u.metrics.RecordStalk()
	u.publishAudit(ctx, accountID, "stalk", len(report.Groups)+len(report.Channels), elapsed)

	return report, nil
}

// Preview returns up to limit link-renderable messages the target authored
// in one dialog.
func (u *StalkUseCase) Preview(ctx context.Context, accountID int64, target domain.TargetPeer, dialog domain.DialogSummary, limit int) ([]domain.MessagePreview, error) {
	conn, err := u.pool.Acquire(ctx, accountID)
	if err != nil {
		return nil, err
	}
	defer u.pool.Release(accountID)

	return conn.SearchAuthored(ctx, dialog, target, limit)
}

// Profile resolves the identifier and fetches the full profile view
// including common chats.
func (u *StalkUseCase) Profile(ctx context.Context, accountID int64, raw string) (*domain.TargetProfile, error) {
	conn, err := u.pool.Acquire(ctx, accountID)
	if err != nil {
		return nil, err
	}
	defer u.pool.Release(accountID)

	target, err := u.resolver.Resolve(ctx, conn, raw)
	if err != nil {
		return nil, err
	}
	return conn.Profile(ctx, target)
}

func (u *StalkUseCase) publishAudit(ctx context.Context, accountID int64, operation string, dialogs int, elapsed time.Duration) {
	event := domain.AuditEvent{
		OperationID: uuid.NewString(),
		AccountID:   accountID,
		Operation:   operation,
		Dialogs:     dialogs,
		Duration:    elapsed,
	}
	if err := u.audit.Publish(ctx, event); err != nil {
		u.logger.Debug().Err(err).Str("operation", operation).Msg("audit publish failed")
	}
}
